package game

// Classify reports how guess compares to target within [min, max].
// The target is not consulted for out-of-range guesses.
func Classify(guess, target, min, max int) Outcome {
	if guess < min || guess > max {
		return OutcomeOutOfRange
	}
	if guess == target {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}
