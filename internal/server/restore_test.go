package server

import (
	"testing"

	"meme-royale/internal/game"
)

func restorableGame(t *testing.T, code string) *game.Game {
	t.Helper()
	g, err := game.New(code, "admin-1", "Ada", "", 3)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := g.AddPlayer("p2", "Bob", ""); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if _, err := g.NextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	return g
}

func TestRearmTimersCreativePhaseOpen(t *testing.T) {
	srv, sched, _ := newTestEngine(t)
	g := restorableGame(t, "abcd2345")

	srv.rearmTimers(g)
	creative := sched.active("creative")
	if len(creative) != 1 || creative[0].Round != 1 {
		t.Fatalf("creative timers = %+v, want one for round 1", creative)
	}
}

func TestRearmTimersScoreWindowOpen(t *testing.T) {
	srv, sched, _ := newTestEngine(t)
	g := restorableGame(t, "abcd2345")
	sub, err := game.NewSubmission("p2", "drake", nil)
	if err != nil {
		t.Fatalf("new submission: %v", err)
	}
	if err := g.AddSubmission(1, sub); err != nil {
		t.Fatalf("add submission: %v", err)
	}
	if _, err := g.MarkCreativePhaseEnded(1); err != nil {
		t.Fatalf("mark creative ended: %v", err)
	}

	srv.rearmTimers(g)
	score := sched.active("score")
	if len(score) != 1 || score[0].SubmissionID != sub.ID {
		t.Fatalf("score timers = %+v, want one for %s", score, sub.ID)
	}
}

func TestRearmTimersBetweenRounds(t *testing.T) {
	srv, sched, _ := newTestEngine(t)
	g := restorableGame(t, "abcd2345")
	if _, err := g.MarkCreativePhaseEnded(1); err != nil {
		t.Fatalf("mark creative ended: %v", err)
	}
	if _, err := g.MarkScorePhaseEnded(1); err != nil {
		t.Fatalf("mark score ended: %v", err)
	}

	srv.rearmTimers(g)
	next := sched.active("next-round")
	if len(next) != 1 || next[0].Round != 2 {
		t.Fatalf("next-round timers = %+v, want one for round 2", next)
	}
}

func TestRearmTimersFinalRoundIdle(t *testing.T) {
	srv, sched, _ := newTestEngine(t)
	g, err := game.New("abcd2345", "admin-1", "Ada", "", 1)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if _, err := g.NextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if _, err := g.MarkCreativePhaseEnded(1); err != nil {
		t.Fatalf("mark creative ended: %v", err)
	}
	if _, err := g.MarkScorePhaseEnded(1); err != nil {
		t.Fatalf("mark score ended: %v", err)
	}

	srv.rearmTimers(g)
	if got := len(sched.active("creative")) + len(sched.active("score")) + len(sched.active("next-round")); got != 0 {
		t.Fatalf("timers after final round = %d, want 0", got)
	}
}
