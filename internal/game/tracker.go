package game

// AttemptTracker counts incorrect guesses within one active run.
type AttemptTracker struct {
	count int
}

// Increment adds one attempt and returns the new count.
func (t *AttemptTracker) Increment() int {
	t.count++
	return t.count
}

// Reset zeroes the counter.
func (t *AttemptTracker) Reset() int {
	t.count = 0
	return 0
}

// Count returns the current number of attempts.
func (t *AttemptTracker) Count() int {
	return t.count
}
