package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/guessit/internal/generator"
)

func TestSerializedConcurrentGuesses(t *testing.T) {
	s := NewSerialized(NewSession(generator.NewScripted(7)))
	_, err := s.Dispatch(Start())
	require.NoError(t, err)

	const workers = 8
	const perWorker = 50
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				if _, err := s.Dispatch(Guess(3)); err != nil {
					return err
				}
				if _, err := s.Dispatch(Pause()); err != nil {
					return err
				}
				if _, err := s.Dispatch(Resume()); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	snap := s.Snapshot()
	assert.LessOrEqual(t, snap.Attempts, workers*perWorker)
	// Every worker ends on resume, so the last applied command leaves it active.
	assert.Equal(t, ModeActive, snap.Mode)
}

func TestSerializedMatchesSession(t *testing.T) {
	plain := NewSession(generator.NewScripted(7))
	wrapped := NewSerialized(NewSession(generator.NewScripted(7)))

	cmds := []Command{Start(), Guess(4), Guess(11), Pause(), Guess(7), Resume(), Guess(7), Reset()}
	for _, cmd := range cmds {
		want, err := plain.Dispatch(cmd)
		require.NoError(t, err)
		got, err := wrapped.Dispatch(cmd)
		require.NoError(t, err)
		assert.Equal(t, want, got, "command %s", cmd.Kind)
	}
	min, max := wrapped.Range()
	assert.Equal(t, 1, min)
	assert.Equal(t, 10, max)
}
