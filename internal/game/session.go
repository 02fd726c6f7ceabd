package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/guessit/internal/generator"
)

const (
	DefaultMin = 1
	DefaultMax = 10
)

// Option configures a Session.
type Option func(*Session)

// WithRange sets the allowed guess range. An inverted range is reported by Start.
func WithRange(min, max int) Option {
	return func(s *Session) {
		s.min = min
		s.max = max
	}
}

// WithLogger attaches a logger for command tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// Session is the guessing state machine. It is owned by a single caller and
// is not safe for concurrent use; wrap it in Serialized for that.
type Session struct {
	src generator.Source
	log zerolog.Logger

	min int
	max int

	mode      Mode
	target    int
	hasTarget bool
	attempts  AttemptTracker
	message   string
	outcome   Outcome
}

// NewSession returns an idle session drawing targets from src.
func NewSession(src generator.Source, opts ...Option) *Session {
	s := &Session{
		src:  src,
		log:  zerolog.Nop(),
		min:  DefaultMin,
		max:  DefaultMax,
		mode: ModeIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Range returns the inclusive guess bounds.
func (s *Session) Range() (min, max int) {
	return s.min, s.max
}

// Snapshot returns the current view without issuing a command.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Mode:     s.mode,
		Attempts: s.attempts.Count(),
		Message:  s.message,
		IsOver:   s.mode == ModeOver,
		Outcome:  s.outcome,
	}
}

// Start begins a round from Idle. It is ignored in any other mode.
func (s *Session) Start() (Snapshot, error) {
	return s.Dispatch(Start())
}

// Pause suspends an active round.
func (s *Session) Pause() Snapshot {
	snap, _ := s.Dispatch(Pause())
	return snap
}

// Resume continues a paused round.
func (s *Session) Resume() Snapshot {
	snap, _ := s.Dispatch(Resume())
	return snap
}

// Guess submits v. Only evaluated while Active.
func (s *Session) Guess(v int) Snapshot {
	snap, _ := s.Dispatch(Guess(v))
	return snap
}

// Reset returns the session to Idle from any mode.
func (s *Session) Reset() Snapshot {
	snap, _ := s.Dispatch(Reset())
	return snap
}

// Dispatch applies cmd to the session. Commands that are not legal in the
// current mode leave the session untouched and return the unchanged snapshot.
// The only error is a failed target draw on start.
func (s *Session) Dispatch(cmd Command) (Snapshot, error) {
	switch {
	case cmd.Kind == CmdReset:
		s.reset()
	case cmd.Kind == CmdStart && s.mode == ModeIdle:
		if err := s.start(); err != nil {
			return s.Snapshot(), err
		}
	case cmd.Kind == CmdPause && s.mode == ModeActive:
		s.transition(ModePaused)
	case cmd.Kind == CmdResume && s.mode == ModePaused:
		s.transition(ModeActive)
	case cmd.Kind == CmdGuess && s.mode == ModeActive:
		s.guess(cmd.Value)
	default:
		s.log.Debug().Str("command", string(cmd.Kind)).Str("mode", s.mode.String()).Msg("command ignored")
		return s.Snapshot(), nil
	}
	return s.Snapshot(), nil
}

func (s *Session) start() error {
	target, err := s.src.Next(s.min, s.max)
	if err != nil {
		return fmt.Errorf("failed to draw target: %w", err)
	}
	s.target = target
	s.hasTarget = true
	s.attempts.Reset()
	s.message = ""
	s.outcome = OutcomeNone
	s.mode = ModeActive
	s.log.Debug().Int("min", s.min).Int("max", s.max).Msg("round started")
	return nil
}

func (s *Session) transition(next Mode) {
	s.mode = next
	s.message = ""
	s.outcome = OutcomeNone
}

func (s *Session) guess(v int) {
	s.outcome = Classify(v, s.target, s.min, s.max)
	switch s.outcome {
	case OutcomeOutOfRange:
		s.message = MsgOutOfRange
	case OutcomeIncorrect:
		s.attempts.Increment()
		s.message = ""
	case OutcomeCorrect:
		s.message = ""
		s.mode = ModeOver
		s.log.Debug().Int("attempts", s.attempts.Count()).Msg("round over")
	}
}

func (s *Session) reset() {
	s.mode = ModeIdle
	s.target = 0
	s.hasTarget = false
	s.attempts.Reset()
	s.message = ""
	s.outcome = OutcomeNone
}
