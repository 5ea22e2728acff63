package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"meme-royale/internal/config"
	"meme-royale/internal/game"
)

type scheduledCall struct {
	Kind         string
	GameCode     string
	Round        int
	SubmissionID string
	Delay        time.Duration
	ID           string
	Canceled     bool
}

// fakeScheduler records schedule/cancel calls instead of arming timers.
// Tests fire "timers" by invoking the server command directly.
type fakeScheduler struct {
	mu     sync.Mutex
	nextID int
	calls  []*scheduledCall
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{nextID: 1}
}

func (f *fakeScheduler) record(kind, gameCode string, round int, submissionID string, delay time.Duration) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("fake-%d", f.nextID)
	f.nextID++
	f.calls = append(f.calls, &scheduledCall{
		Kind:         kind,
		GameCode:     gameCode,
		Round:        round,
		SubmissionID: submissionID,
		Delay:        delay,
		ID:           id,
	})
	return id
}

func (f *fakeScheduler) ScheduleCreativePhaseEnded(gameCode string, roundNumber int, delay time.Duration) string {
	return f.record("creative", gameCode, roundNumber, "", delay)
}

func (f *fakeScheduler) ScheduleScorePhaseEnded(gameCode string, roundNumber int, submissionID string, delay time.Duration) string {
	return f.record("score", gameCode, roundNumber, submissionID, delay)
}

func (f *fakeScheduler) ScheduleStartNewRound(gameCode string, roundNumber int, delay time.Duration) string {
	return f.record("next-round", gameCode, roundNumber, "", delay)
}

func (f *fakeScheduler) CancelTask(taskID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, call := range f.calls {
		if call.ID == taskID && !call.Canceled {
			call.Canceled = true
			return true
		}
	}
	return false
}

func (f *fakeScheduler) CancelAllForGame(gameCode string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.calls {
		if call.GameCode == gameCode && !call.Canceled {
			call.Canceled = true
			count++
		}
	}
	return count
}

func (f *fakeScheduler) active(kind string) []*scheduledCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*scheduledCall, 0)
	for _, call := range f.calls {
		if call.Kind == kind && !call.Canceled {
			out = append(out, call)
		}
	}
	return out
}

// fakePublisher records every published event.
type fakePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (f *fakePublisher) Publish(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) ofType(t EventType) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, 0)
	for _, event := range f.events {
		if event.Type == t {
			out = append(out, event)
		}
	}
	return out
}

func newTestEngine(t *testing.T) (*Server, *fakeScheduler, *fakePublisher) {
	t.Helper()
	srv := New(nil, config.Default())
	sched := newFakeScheduler()
	pub := &fakePublisher{}
	srv.scheduler = sched
	srv.publisher = pub
	return srv, sched, pub
}

// startedGame builds a game with the given players, all joined, and round 1
// running.
func startedGame(t *testing.T, srv *Server, names ...string) (*game.Game, []string) {
	t.Helper()
	g, err := srv.CreateGame("", names[0], "", 0)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	ids := []string{g.AdminPlayerID}
	for _, name := range names[1:] {
		_, playerID, err := srv.JoinGame(g.Code, "", name, "")
		if err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
		ids = append(ids, playerID)
	}
	if _, err := srv.StartGame(g.Code, ids[0]); err != nil {
		t.Fatalf("start game: %v", err)
	}
	return g, ids
}

// submitAll submits one meme per player for the round and returns submission
// ids keyed by player id.
func submitAll(t *testing.T, srv *Server, code string, round int, playerIDs []string) map[string]string {
	t.Helper()
	subs := make(map[string]string, len(playerIDs))
	for _, playerID := range playerIDs {
		g, err := srv.SubmitMeme(code, playerID, round, "drake", []game.TextEntry{{FieldID: "top", Value: "nah"}})
		if err != nil {
			t.Fatalf("submit %s: %v", playerID, err)
		}
		r, _ := g.Round(round)
		sub, ok := r.SubmissionByPlayer(playerID)
		if !ok {
			t.Fatalf("submission missing for %s", playerID)
		}
		subs[playerID] = sub.ID
	}
	return subs
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	return httptest.NewServer(handler)
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	out := map[string]any{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}
