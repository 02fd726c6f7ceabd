// Package model defines shared data structures.
package model

import "time"

// Config defines play settings.
type Config struct {
	Min    int
	Max    int
	Seed   int64
	Record bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// RoundStats captures a finished round.
type RoundStats struct {
	ID         string
	StartedAt  time.Time
	EndedAt    time.Time
	Attempts   int
	Rejected   int
	RangeMin   int
	RangeMax   int
	DurationMs int64
}

// RoundAggregate summarizes a stored round for reporting.
type RoundAggregate struct {
	RoundID    string
	EndedAt    time.Time
	Attempts   int
	Rejected   int
	RangeMin   int
	RangeMax   int
	DurationMs int64
}

// RangeAggregate groups rounds played over the same range.
type RangeAggregate struct {
	RangeMin      int
	RangeMax      int
	Rounds        int
	AttemptsSum   int
	BestAttempts  int
	RejectedSum   int
	DurationSumMs int64
}
