package game

import (
	"testing"
	"time"
)

func timeZero() time.Time {
	return time.Time{}
}

func TestScoreboardSumsOnlyEndedRounds(t *testing.T) {
	g := newTestGame(t)
	for _, p := range []struct{ id, name string }{{"p2", "Ben"}, {"p3", "Cal"}} {
		if err := g.AddPlayer(p.id, p.name, ""); err != nil {
			t.Fatalf("join %s: %v", p.id, err)
		}
	}
	if _, err := g.NextRound(); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	subAdmin, _ := NewSubmission("admin-1", "tmpl-1", nil)
	subBen, _ := NewSubmission("p2", "tmpl-2", nil)
	if err := g.AddSubmission(1, subAdmin); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := g.AddSubmission(1, subBen); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := g.AddScore(1, subAdmin.ID, "p2", 4); err != nil {
		t.Fatalf("score: %v", err)
	}
	if err := g.AddScore(1, subAdmin.ID, "p3", 5); err != nil {
		t.Fatalf("score: %v", err)
	}
	if err := g.AddScore(1, subBen.ID, "p3", 2); err != nil {
		t.Fatalf("score: %v", err)
	}

	// Round 1 score phase still open: everything counts as zero.
	for _, entry := range g.Scoreboard() {
		if entry.Score != 0 {
			t.Fatalf("open round must not count, got %#v", entry)
		}
	}

	if _, err := g.MarkScorePhaseEnded(1); err != nil {
		t.Fatalf("end score phase: %v", err)
	}
	board := g.Scoreboard()
	if len(board) != 3 {
		t.Fatalf("every player appears, got %d entries", len(board))
	}
	if board[0].PlayerID != "admin-1" || board[0].Score != 9 {
		t.Fatalf("expected admin-1 on top with 9, got %#v", board[0])
	}
	if board[1].PlayerID != "p2" || board[1].Score != 2 {
		t.Fatalf("expected p2 with 2, got %#v", board[1])
	}
	if board[2].PlayerID != "p3" || board[2].Score != 0 {
		t.Fatalf("players without submissions still appear, got %#v", board[2])
	}
	for i := 1; i < len(board); i++ {
		if board[i-1].Score < board[i].Score {
			t.Fatalf("scoreboard not sorted descending: %#v", board)
		}
	}
}
