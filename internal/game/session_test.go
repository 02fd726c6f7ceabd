package game

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/verte-zerg/guessit/internal/generator"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newScriptedSession(values ...int) *Session {
	return NewSession(generator.NewScripted(values...))
}

func mustStart(t *testing.T, s *Session) Snapshot {
	t.Helper()
	snap, err := s.Start()
	require.NoError(t, err)
	return snap
}

func TestNewSessionIsIdle(t *testing.T) {
	s := newScriptedSession(7)
	want := Snapshot{Mode: ModeIdle}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, s.hasTarget)
	min, max := s.Range()
	assert.Equal(t, DefaultMin, min)
	assert.Equal(t, DefaultMax, max)
}

func TestIncorrectThenCorrect(t *testing.T) {
	s := newScriptedSession(7)

	snap := mustStart(t, s)
	assert.Equal(t, Snapshot{Mode: ModeActive}, snap)
	assert.Equal(t, 7, s.target)

	snap = s.Guess(5)
	assert.Equal(t, Snapshot{Mode: ModeActive, Attempts: 1, Outcome: OutcomeIncorrect}, snap)

	snap = s.Guess(7)
	assert.Equal(t, Snapshot{Mode: ModeOver, Attempts: 1, IsOver: true, Outcome: OutcomeCorrect}, snap)
}

func TestOutOfRangeDoesNotCount(t *testing.T) {
	s := newScriptedSession(7)
	mustStart(t, s)

	snap := s.Guess(15)
	assert.Equal(t, ModeActive, snap.Mode)
	assert.Equal(t, 0, snap.Attempts)
	assert.Equal(t, MsgOutOfRange, snap.Message)
	assert.Equal(t, OutcomeOutOfRange, snap.Outcome)

	snap = s.Guess(0)
	assert.Equal(t, 0, snap.Attempts)

	snap = s.Guess(3)
	assert.Empty(t, snap.Message, "accepted guess clears the notice")
	assert.Equal(t, 1, snap.Attempts)
}

func TestPauseGatesGuesses(t *testing.T) {
	s := newScriptedSession(7)
	mustStart(t, s)

	snap := s.Pause()
	assert.Equal(t, Snapshot{Mode: ModePaused}, snap)

	snap = s.Guess(7)
	assert.Equal(t, Snapshot{Mode: ModePaused}, snap)
	assert.Equal(t, 7, s.target)

	snap = s.Resume()
	assert.Equal(t, Snapshot{Mode: ModeActive}, snap)

	snap = s.Guess(7)
	assert.Equal(t, Snapshot{Mode: ModeOver, IsOver: true, Outcome: OutcomeCorrect}, snap)
}

func TestAttemptSequence(t *testing.T) {
	s := newScriptedSession(7)
	mustStart(t, s)

	assert.Equal(t, 1, s.Guess(3).Attempts)
	assert.Equal(t, 2, s.Guess(4).Attempts)

	snap := s.Guess(7)
	assert.Equal(t, ModeOver, snap.Mode)
	assert.Equal(t, 2, snap.Attempts)
}

func TestResetThenStartDrawsFreshTarget(t *testing.T) {
	src := generator.NewScripted(7, 2)
	s := NewSession(src)
	mustStart(t, s)
	s.Guess(7)

	snap := s.Reset()
	assert.Equal(t, Snapshot{Mode: ModeIdle}, snap)
	assert.False(t, s.hasTarget)

	snap = mustStart(t, s)
	assert.Equal(t, ModeActive, snap.Mode)
	assert.Equal(t, 2, src.Calls())
	assert.Equal(t, 2, s.target)
}

func TestStartOnlyFromIdle(t *testing.T) {
	src := generator.NewScripted(7, 3)
	s := NewSession(src)
	mustStart(t, s)
	s.Guess(1)

	for _, prep := range []func(){
		func() {},
		func() { s.Pause() },
		func() { s.Resume(); s.Guess(7) },
	} {
		prep()
		before := s.Snapshot()
		snap, err := s.Start()
		require.NoError(t, err)
		assert.Equal(t, before, snap)
		assert.Equal(t, 7, s.target)
	}
	assert.Equal(t, 1, src.Calls())
}

func TestIdleIgnoresCommands(t *testing.T) {
	src := generator.NewScripted(7)
	s := NewSession(src)
	for _, cmd := range []Command{Pause(), Resume(), Guess(7), Guess(42)} {
		snap, err := s.Dispatch(cmd)
		require.NoError(t, err)
		assert.Equal(t, Snapshot{Mode: ModeIdle}, snap, "command %s", cmd.Kind)
	}
	assert.Equal(t, 0, src.Calls())
}

func TestOverIgnoresGuesses(t *testing.T) {
	s := newScriptedSession(7)
	mustStart(t, s)
	s.Guess(2)
	over := s.Guess(7)

	assert.Equal(t, over, s.Guess(3))
	assert.Equal(t, over, s.Guess(7))
	assert.Equal(t, over, s.Pause())
	assert.Equal(t, over, s.Resume())
}

func TestPauseIsIdempotent(t *testing.T) {
	s := newScriptedSession(7)
	mustStart(t, s)
	once := s.Pause()
	twice := s.Pause()
	assert.Equal(t, once, twice)
}

func TestResumeWhileActiveKeepsMessage(t *testing.T) {
	s := newScriptedSession(7)
	mustStart(t, s)
	notice := s.Guess(99)
	assert.Equal(t, notice, s.Resume())
}

func TestPauseClearsMessage(t *testing.T) {
	s := newScriptedSession(7)
	mustStart(t, s)
	s.Guess(99)
	assert.Empty(t, s.Pause().Message)
}

func TestResetFromEveryMode(t *testing.T) {
	idle := Snapshot{Mode: ModeIdle}
	setups := map[string]func(*Session){
		"idle":   func(*Session) {},
		"active": func(s *Session) { _, _ = s.Start(); s.Guess(3); s.Guess(99) },
		"paused": func(s *Session) { _, _ = s.Start(); s.Guess(3); s.Pause() },
		"over":   func(s *Session) { _, _ = s.Start(); s.Guess(3); s.Guess(7) },
	}
	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			s := newScriptedSession(7)
			setup(s)
			assert.Equal(t, idle, s.Reset())
			assert.False(t, s.hasTarget)
		})
	}
}

func TestUnknownCommandIsNoop(t *testing.T) {
	s := newScriptedSession(7)
	mustStart(t, s)
	before := s.Snapshot()
	snap, err := s.Dispatch(Command{Kind: "shuffle"})
	require.NoError(t, err)
	assert.Equal(t, before, snap)
}

func TestStartWithInvalidRange(t *testing.T) {
	s := NewSession(generator.NewSeeded(1), WithRange(10, 1))
	snap, err := s.Start()
	require.ErrorIs(t, err, generator.ErrInvalidRange)
	assert.Equal(t, Snapshot{Mode: ModeIdle}, snap)
	assert.False(t, s.hasTarget)
}

func TestCustomRange(t *testing.T) {
	s := NewSession(generator.NewScripted(50), WithRange(1, 100))
	mustStart(t, s)
	assert.Equal(t, OutcomeIncorrect, s.Guess(99).Outcome)
	assert.Equal(t, OutcomeOutOfRange, s.Guess(101).Outcome)
	assert.True(t, s.Guess(50).IsOver)
}

// Drives random command sequences and checks the session invariants after
// every step.
func TestRandomCommandSequencesKeepInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for run := 0; run < 200; run++ {
		s := NewSession(generator.NewSeeded(int64(run)))
		prev := s.Snapshot()
		for step := 0; step < 50; step++ {
			var cmd Command
			switch rnd.Intn(5) {
			case 0:
				cmd = Start()
			case 1:
				cmd = Pause()
			case 2:
				cmd = Resume()
			case 3:
				cmd = Guess(rnd.Intn(14) - 2)
			default:
				if rnd.Intn(4) == 0 {
					cmd = Reset()
				} else {
					cmd = Guess(rnd.Intn(10) + 1)
				}
			}
			snap, err := s.Dispatch(cmd)
			require.NoError(t, err)

			require.Equal(t, snap.Mode != ModeIdle, s.hasTarget)
			if s.hasTarget {
				require.GreaterOrEqual(t, s.target, DefaultMin)
				require.LessOrEqual(t, s.target, DefaultMax)
			}
			require.Equal(t, snap.Mode == ModeOver, snap.IsOver)
			if snap.Outcome == OutcomeCorrect && cmd.Kind == CmdGuess && prev.Mode == ModeActive {
				require.Equal(t, ModeOver, snap.Mode)
			}
			if cmd.Kind == CmdGuess && prev.Mode != ModeActive {
				require.Equal(t, prev, snap)
			}
			if cmd.Kind != CmdReset && !(cmd.Kind == CmdStart && prev.Mode == ModeIdle) {
				require.GreaterOrEqual(t, snap.Attempts, prev.Attempts)
			}
			if snap.Mode == ModeIdle {
				require.Equal(t, 0, snap.Attempts)
			}
			prev = snap
		}
	}
}
