// Package game implements the number-guessing session state machine.
package game

// Mode is the session's current state.
type Mode string

const (
	ModeIdle   Mode = "idle"
	ModeActive Mode = "active"
	ModePaused Mode = "paused"
	ModeOver   Mode = "over"
)

// String returns the display string.
func (m Mode) String() string {
	return string(m)
}

// Outcome classifies a submitted guess.
type Outcome string

const (
	// OutcomeNone marks snapshots produced without evaluating a guess.
	OutcomeNone       Outcome = ""
	OutcomeOutOfRange Outcome = "out_of_range"
	OutcomeCorrect    Outcome = "correct"
	OutcomeIncorrect  Outcome = "incorrect"
)

// MsgOutOfRange is the notice shown for a guess outside the allowed range.
const MsgOutOfRange = "value out of range"

// Snapshot is the externally visible view of a session after a command.
// It never carries the target number.
type Snapshot struct {
	Mode     Mode
	Attempts int
	Message  string
	IsOver   bool
	Outcome  Outcome
}

// CommandKind names a command accepted by a session.
type CommandKind string

const (
	CmdStart  CommandKind = "start"
	CmdPause  CommandKind = "pause"
	CmdResume CommandKind = "resume"
	CmdGuess  CommandKind = "guess"
	CmdReset  CommandKind = "reset"
)

// Command is a single request dispatched to a session. Value is used by guesses only.
type Command struct {
	Kind  CommandKind
	Value int
}

// Start builds a start command.
func Start() Command { return Command{Kind: CmdStart} }

// Pause builds a pause command.
func Pause() Command { return Command{Kind: CmdPause} }

// Resume builds a resume command.
func Resume() Command { return Command{Kind: CmdResume} }

// Guess builds a guess command for v.
func Guess(v int) Command { return Command{Kind: CmdGuess, Value: v} }

// Reset builds a reset command.
func Reset() Command { return Command{Kind: CmdReset} }

// Engine is the command surface consumed by the presentation layer.
type Engine interface {
	Dispatch(cmd Command) (Snapshot, error)
	Snapshot() Snapshot
	Range() (min, max int)
}
