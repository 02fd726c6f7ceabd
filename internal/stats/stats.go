// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/guessit/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	curveLabelWidth     = 10
)

// Summary holds headline numbers over a set of rounds.
type Summary struct {
	Rounds       int
	AvgAttempts  float64
	BestAttempts int
	Rejected     int
	AvgDuration  float64
	FirstTry     int
}

// Summarize computes headline numbers for rounds.
func Summarize(rounds []model.RoundAggregate) Summary {
	if len(rounds) == 0 {
		return Summary{}
	}
	s := Summary{Rounds: len(rounds), BestAttempts: rounds[0].Attempts}
	var attempts int
	var duration int64
	for _, r := range rounds {
		attempts += r.Attempts
		duration += r.DurationMs
		s.Rejected += r.Rejected
		if r.Attempts < s.BestAttempts {
			s.BestAttempts = r.Attempts
		}
		if r.Attempts == 0 {
			s.FirstTry++
		}
	}
	count := float64(len(rounds))
	s.AvgAttempts = float64(attempts) / count
	s.AvgDuration = float64(duration) / count / 1000.0
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// AttemptSeries returns the attempt counts of rounds smoothed over window.
func AttemptSeries(rounds []model.RoundAggregate, window int) []float64 {
	values := make([]float64, len(rounds))
	for i, r := range rounds {
		values[i] = float64(r.Attempts)
	}
	return MovingAverage(values, window)
}

// RenderSummary prints a summary block for rounds.
func RenderSummary(w io.Writer, rounds []model.RoundAggregate) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	s := Summarize(rounds)
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", s.Rounds),
		fmt.Sprintf("Avg attempts: %.2f", s.AvgAttempts),
		fmt.Sprintf("Best attempts: %d", s.BestAttempts),
		fmt.Sprintf("First-try wins: %d", s.FirstTry),
		fmt.Sprintf("Out-of-range guesses: %d", s.Rejected),
		fmt.Sprintf("Avg duration: %.1fs", s.AvgDuration),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurve prints the attempts trend as a sparkline sized to the terminal.
func RenderCurve(w io.Writer, rounds []model.RoundAggregate, window int) error {
	return RenderCurveWithWidth(w, rounds, window, terminalWidth())
}

// RenderCurveWithWidth prints the attempts trend limited to totalWidth columns.
func RenderCurveWithWidth(w io.Writer, rounds []model.RoundAggregate, window, totalWidth int) error {
	if len(rounds) == 0 {
		return nil
	}
	series := AttemptSeries(rounds, window)
	width := totalWidth - curveLabelWidth
	if width < 1 {
		width = 1
	}
	if len(series) > width {
		series = series[len(series)-width:]
	}
	if _, err := fmt.Fprintf(w, "Attempts trend (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-*s%s\n", curveLabelWidth, "attempts", Sparkline(series)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderRangeTable prints per-range aggregates.
func RenderRangeTable(w io.Writer, aggs []model.RangeAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No range stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Range"); err != nil {
		return err
	}
	headers, rows := RangeTableRows(aggs)
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RangeTableRows formats range aggregates as table cells.
func RangeTableRows(aggs []model.RangeAggregate) ([]string, [][]string) {
	headers := []string{"Range", "Rounds", "Avg Attempts", "Best", "Out of Range"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		avg := 0.0
		if agg.Rounds > 0 {
			avg = float64(agg.AttemptsSum) / float64(agg.Rounds)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d-%d", agg.RangeMin, agg.RangeMax),
			fmt.Sprintf("%d", agg.Rounds),
			fmt.Sprintf("%.2f", avg),
			fmt.Sprintf("%d", agg.BestAttempts),
			fmt.Sprintf("%d", agg.RejectedSum),
		})
	}
	return headers, rows
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
