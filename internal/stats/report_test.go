package stats

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/guessit/internal/model"
	"github.com/verte-zerg/guessit/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "guessit.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		round := model.RoundStats{
			ID:         fmt.Sprintf("round-%d", i),
			StartedAt:  start,
			EndedAt:    end,
			Attempts:   i + 1,
			RangeMin:   1,
			RangeMax:   10,
			DurationMs: end.Sub(start).Milliseconds(),
		}
		if err := st.InsertRound(ctx, round); err != nil {
			t.Fatalf("insert round: %v", err)
		}
		ids = append(ids, round.ID)
	}

	cfg := model.StatsConfig{
		Last:        2,
		CurveWindow: 1,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(report.Rounds))
	}
	if report.Rounds[0].RoundID != ids[1] || report.Rounds[1].RoundID != ids[2] {
		t.Fatalf("unexpected round ids: %+v", report.Rounds)
	}
	if len(report.WindowRoundIDs) != 1 || report.WindowRoundIDs[0] != ids[2] {
		t.Fatalf("unexpected window ids: %v", report.WindowRoundIDs)
	}
	if len(report.RangeAggsAll) != 1 || report.RangeAggsAll[0].Rounds != 2 {
		t.Fatalf("unexpected range aggregates: %+v", report.RangeAggsAll)
	}
	if len(report.RangeAggsWindow) != 1 || report.RangeAggsWindow[0].AttemptsSum != 3 {
		t.Fatalf("unexpected window aggregates: %+v", report.RangeAggsWindow)
	}
}
