package game

import (
	"errors"
	"testing"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := New("abcd2345", "admin-1", "Ada", "", 0)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func TestNewNormalizesCode(t *testing.T) {
	g, err := New("abcd2345", "admin-1", "Ada", "", 0)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if g.Code != "ABCD2345" {
		t.Fatalf("expected upper-cased code, got %s", g.Code)
	}
	if g.State != StateLobby {
		t.Fatalf("expected lobby state, got %s", g.State)
	}
	if g.RoundTarget != DefaultRoundTarget {
		t.Fatalf("expected default round target, got %d", g.RoundTarget)
	}
	if _, ok := g.Player("admin-1"); !ok {
		t.Fatalf("expected admin in player list")
	}
}

func TestNewRejectsBadCodes(t *testing.T) {
	for _, code := range []string{"", "ABC", "ABCD23456", "  AB12  "} {
		if _, err := New(code, "admin-1", "Ada", "", 0); !errors.Is(err, ErrValidation) {
			t.Fatalf("code %q: expected validation error, got %v", code, err)
		}
	}
}

func TestAddPlayerDuplicateAlwaysConflicts(t *testing.T) {
	g, err := New("ABCD2345", "admin-1", "Ada", "s3cret", 0)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := g.AddPlayer("p2", "Ben", "s3cret"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	// Second join conflicts even with the wrong password.
	if err := g.AddPlayer("p2", "Ben", "wrong"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := g.AddPlayer("p2", "Ben", "s3cret"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAddPlayerPasswordAndState(t *testing.T) {
	g, err := New("ABCD2345", "admin-1", "Ada", "s3cret", 0)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := g.AddPlayer("p2", "Ben", "nope"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := g.AddPlayer("p2", "Ben", "s3cret"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := g.NextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if err := g.AddPlayer("p3", "Cal", "s3cret"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state after start, got %v", err)
	}
}

func TestRemoveAdminFails(t *testing.T) {
	g := newTestGame(t)
	if err := g.AddPlayer("p2", "Ben", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := g.RemovePlayer("admin-1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state removing admin, got %v", err)
	}
	if _, ok := g.Player("admin-1"); !ok {
		t.Fatalf("admin must stay in player list")
	}
}

func TestRemovePlayerCascadesSubmissions(t *testing.T) {
	g := newTestGame(t)
	if err := g.AddPlayer("p2", "Ben", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := g.NextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	sub, err := NewSubmission("p2", "tmpl-1", []TextEntry{{FieldID: "top", Value: "hello"}})
	if err != nil {
		t.Fatalf("new submission: %v", err)
	}
	if err := g.AddSubmission(1, sub); err != nil {
		t.Fatalf("add submission: %v", err)
	}
	if err := g.RemovePlayer("p2"); err != nil {
		t.Fatalf("remove player: %v", err)
	}
	if _, ok := g.Player("p2"); ok {
		t.Fatalf("expected player removed")
	}
	round, _ := g.Round(1)
	if _, ok := round.SubmissionByPlayer("p2"); ok {
		t.Fatalf("expected submission stripped")
	}
	// Removing again stays a no-op, not an error.
	if err := g.RemovePlayer("p2"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestAllPlayersReady(t *testing.T) {
	g := newTestGame(t)
	if err := g.AddPlayer("p2", "Ben", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := g.AddPlayer("p3", "Cal", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if g.AllPlayersReady() {
		t.Fatalf("nobody is ready yet")
	}
	for _, id := range []string{"p2", "p3"} {
		if err := g.SetPlayerReady(id, true); err != nil {
			t.Fatalf("ready %s: %v", id, err)
		}
	}
	if g.AllPlayersReady() {
		t.Fatalf("admin is not ready yet")
	}
	if err := g.SetPlayerReady("admin-1", true); err != nil {
		t.Fatalf("ready admin: %v", err)
	}
	if !g.AllPlayersReady() {
		t.Fatalf("expected everyone ready")
	}

	empty := &Game{Code: "ABCD2345", State: StateLobby}
	if empty.AllPlayersReady() {
		t.Fatalf("an empty lobby is never ready")
	}
}

func TestSetPlayerReadyOutsideLobby(t *testing.T) {
	g := newTestGame(t)
	if _, err := g.NextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if err := g.SetPlayerReady("admin-1", true); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestNextRoundSequenceAndCap(t *testing.T) {
	g := newTestGame(t)
	for want := 1; want <= g.RoundTarget; want++ {
		round, err := g.NextRound()
		if err != nil {
			t.Fatalf("round %d: %v", want, err)
		}
		if round.Number != want {
			t.Fatalf("expected round %d, got %d", want, round.Number)
		}
	}
	if _, err := g.NextRound(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state past round target, got %v", err)
	}
	if g.CurrentRound != g.RoundTarget {
		t.Fatalf("expected current round %d, got %d", g.RoundTarget, g.CurrentRound)
	}
}

func TestNextRoundAfterFinish(t *testing.T) {
	g := newTestGame(t)
	if err := g.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if _, err := g.NextRound(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if err := g.Finish(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("finish is terminal, got %v", err)
	}
}

func TestStateTransitions(t *testing.T) {
	g := newTestGame(t)
	if err := g.StartScoring(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("lobby cannot start scoring, got %v", err)
	}
	if _, err := g.NextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if err := g.StartScoring(); err != nil {
		t.Fatalf("start scoring: %v", err)
	}
	if g.State != StateScoring {
		t.Fatalf("expected scoring, got %s", g.State)
	}
	if err := g.ResumeProgress(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if g.State != StateInProgress {
		t.Fatalf("expected in-progress, got %s", g.State)
	}
}

func TestLobbyToFirstRoundScenario(t *testing.T) {
	g := newTestGame(t)
	if err := g.AddPlayer("p2", "Ben", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := g.AddPlayer("p3", "Cal", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	_ = g.SetPlayerReady("p2", true)
	_ = g.SetPlayerReady("p3", true)
	if g.AllPlayersReady() {
		t.Fatalf("admin not ready yet")
	}
	_ = g.SetPlayerReady("admin-1", true)
	if !g.AllPlayersReady() {
		t.Fatalf("expected all ready")
	}
	if _, err := g.NextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if _, ok := g.Round(1); !ok {
		t.Fatalf("round 1 missing")
	}
	if g.State != StateInProgress {
		t.Fatalf("expected in-progress, got %s", g.State)
	}
}

func TestMarkCreativePhaseEndedIdempotent(t *testing.T) {
	g := newTestGame(t)
	if _, err := g.NextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	first, err := g.MarkCreativePhaseEnded(1)
	if err != nil || !first {
		t.Fatalf("expected first close, got first=%v err=%v", first, err)
	}
	again, err := g.MarkCreativePhaseEnded(1)
	if err != nil || again {
		t.Fatalf("expected already-ended no-op, got first=%v err=%v", again, err)
	}
	round, _ := g.Round(1)
	if !round.CreativePhaseEnded {
		t.Fatalf("flag must stay set")
	}
	if _, err := g.MarkCreativePhaseEnded(9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing round, got %v", err)
	}
}
