package web

// GameSummary is the lobby-list row rendered on the home page.
type GameSummary struct {
	Code    string
	State   string
	Players int
}
