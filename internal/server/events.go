package server

import "meme-royale/internal/game"

// EventType names the notifications fanned out to live clients.
type EventType string

const (
	EventGameCreated        EventType = "game_created"
	EventPlayerJoined       EventType = "player_joined"
	EventPlayerStateChanged EventType = "player_state_changed"
	EventPlayerRemoved      EventType = "player_removed"
	EventGameStarted        EventType = "game_started"
	EventRoundStarted       EventType = "round_started"
	EventCreativePhaseEnded EventType = "creative_phase_ended"
	EventScorePhaseStarted  EventType = "score_phase_started"
	EventRoundEnded         EventType = "round_ended"
	EventGameEnded          EventType = "game_ended"
)

// Event is one typed state-change notification scoped to a game code.
type Event struct {
	Type         EventType              `json:"type"`
	GameCode     string                 `json:"game_code"`
	PlayerID     string                 `json:"player_id,omitempty"`
	PlayerName   string                 `json:"player_name,omitempty"`
	RoundNumber  int                    `json:"round_number,omitempty"`
	SubmissionID string                 `json:"submission_id,omitempty"`
	Reason       string                 `json:"reason,omitempty"`
	Scoreboard   []game.ScoreboardEntry `json:"scoreboard,omitempty"`
}

// Publisher is the fire-and-forget notification boundary. The websocket hub
// implements it in production; tests swap in a recorder.
type Publisher interface {
	Publish(event Event)
}
