package game

// Player is one participant in a game.
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsReady     bool   `json:"is_ready"`
}
