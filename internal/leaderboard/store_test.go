package leaderboard

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"crypto-rush/internal/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndTopScores(t *testing.T) {
	s := newTestStore(t)

	results := []game.Result{
		{Username: "alice", Score: 120.5, TradesCount: 4},
		{Username: "bob", Score: 310.0, TradesCount: 9},
		{Username: "carol", Score: -55.0, TradesCount: 1},
	}
	for _, r := range results {
		if err := s.SaveScore(r); err != nil {
			t.Fatalf("save %s: %v", r.Username, err)
		}
	}

	top, err := s.TopScores(10)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Username != "bob" || top[1].Username != "alice" || top[2].Username != "carol" {
		t.Errorf("wrong order: %s, %s, %s", top[0].Username, top[1].Username, top[2].Username)
	}
	if top[0].Trades != 9 {
		t.Errorf("expected 9 trades for bob, got %d", top[0].Trades)
	}
}

func TestTopScoresLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 20; i++ {
		if err := s.SaveScore(game.Result{Username: "p", Score: float64(i)}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	top, err := s.TopScores(5)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 5 {
		t.Errorf("expected 5 entries, got %d", len(top))
	}
}

func TestPruneOlderThan(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveScore(game.Result{Username: "old", Score: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Nothing is older than a cutoff in the past.
	n, err := s.PruneOlderThan(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 pruned, got %d", n)
	}

	// Everything is older than a cutoff in the future.
	n, err = s.PruneOlderThan(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned, got %d", n)
	}

	top, _ := s.TopScores(10)
	if len(top) != 0 {
		t.Errorf("expected empty leaderboard, got %d entries", len(top))
	}
}
