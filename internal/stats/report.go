package stats

import (
	"context"

	"github.com/verte-zerg/guessit/internal/model"
	"github.com/verte-zerg/guessit/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Rounds          []model.RoundAggregate
	WindowRoundIDs  []string
	RangeAggsAll    []model.RangeAggregate
	RangeAggsWindow []model.RangeAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	rounds, err := st.ListRounds(ctx, cfg)
	if err != nil {
		return Report{}, err
	}

	allIDs := roundIDs(rounds)
	windowIDs := lastRoundIDs(rounds, cfg.CurveWindow)
	rangeAggsAll, err := st.ListRangeAggregates(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	rangeAggsWindow, err := st.ListRangeAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Rounds:          rounds,
		WindowRoundIDs:  windowIDs,
		RangeAggsAll:    rangeAggsAll,
		RangeAggsWindow: rangeAggsWindow,
	}, nil
}

func roundIDs(rounds []model.RoundAggregate) []string {
	ids := make([]string, len(rounds))
	for i, r := range rounds {
		ids[i] = r.RoundID
	}
	return ids
}

func lastRoundIDs(rounds []model.RoundAggregate, window int) []string {
	if window <= 0 || len(rounds) <= window {
		return roundIDs(rounds)
	}
	return roundIDs(rounds[len(rounds)-window:])
}
