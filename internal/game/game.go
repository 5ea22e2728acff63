package game

import (
	"strings"
	"time"
)

// State is the game-level lifecycle state.
type State string

const (
	StateLobby      State = "lobby"
	StateInProgress State = "in-progress"
	StateScoring    State = "scoring"
	StateCompleted  State = "completed"
)

// DefaultRoundTarget is how many rounds a game plays unless configured.
const DefaultRoundTarget = 5

// Game is the aggregate root. All mutations go through its methods so the
// state machine and cross-entity invariants hold at every step.
type Game struct {
	Code          string    `json:"code"`
	AdminPlayerID string    `json:"admin_player_id"`
	Password      string    `json:"password,omitempty"`
	State         State     `json:"state"`
	Players       []Player  `json:"players"`
	Rounds        []Round   `json:"rounds"`
	CurrentRound  int       `json:"current_round"`
	RoundTarget   int       `json:"round_target"`
	CreatedAt     time.Time `json:"created_at"`
}

// New creates a lobby with the admin as its first player. The code is
// normalized to upper case and must be exactly eight characters.
func New(code, adminID, adminName, password string, roundTarget int) (*Game, error) {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(adminID) == "" {
		return nil, validationf("admin player id is required")
	}
	if strings.TrimSpace(adminName) == "" {
		return nil, validationf("admin display name is required")
	}
	if roundTarget <= 0 {
		roundTarget = DefaultRoundTarget
	}
	return &Game{
		Code:          normalized,
		AdminPlayerID: adminID,
		Password:      password,
		State:         StateLobby,
		Players:       []Player{{ID: adminID, DisplayName: adminName}},
		RoundTarget:   roundTarget,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Player looks up a member by id.
func (g *Game) Player(id string) (*Player, bool) {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i], true
		}
	}
	return nil, false
}

// Round looks up a round by number.
func (g *Game) Round(number int) (*Round, bool) {
	for i := range g.Rounds {
		if g.Rounds[i].Number == number {
			return &g.Rounds[i], true
		}
	}
	return nil, false
}

// AddPlayer admits a player to the lobby. Joining is closed once the game
// starts, requires the password when one is set, and rejects duplicate ids.
func (g *Game) AddPlayer(playerID, displayName, passwordAttempt string) error {
	if strings.TrimSpace(playerID) == "" {
		return validationf("player id is required")
	}
	if strings.TrimSpace(displayName) == "" {
		return validationf("display name is required")
	}
	if _, ok := g.Player(playerID); ok {
		return conflictf("player %s already joined", playerID)
	}
	if g.State != StateLobby {
		return invalidStatef("game %s already started", g.Code)
	}
	if g.Password != "" && g.Password != passwordAttempt {
		return unauthorizedf("wrong password for game %s", g.Code)
	}
	g.Players = append(g.Players, Player{ID: playerID, DisplayName: displayName})
	return nil
}

// RemovePlayer removes a member and strips their submissions from every
// round. Removing a player who never joined is a no-op. The admin can never
// be removed.
func (g *Game) RemovePlayer(playerID string) error {
	if playerID == g.AdminPlayerID {
		return invalidStatef("the admin cannot be removed from game %s", g.Code)
	}
	kept := g.Players[:0]
	for _, p := range g.Players {
		if p.ID == playerID {
			continue
		}
		kept = append(kept, p)
	}
	g.Players = kept
	for i := range g.Rounds {
		g.Rounds[i].RemovePlayerSubmissions(playerID)
	}
	return nil
}

// SetPlayerReady flips a member's ready flag. Only meaningful in the lobby.
func (g *Game) SetPlayerReady(playerID string, ready bool) error {
	if g.State != StateLobby {
		return invalidStatef("game %s is not in the lobby", g.Code)
	}
	player, ok := g.Player(playerID)
	if !ok {
		return notFoundf("player %s is not in game %s", playerID, g.Code)
	}
	player.IsReady = ready
	return nil
}

// AllPlayersReady reports whether every member readied up. An empty lobby is
// never ready.
func (g *Game) AllPlayersReady() bool {
	if len(g.Players) == 0 {
		return false
	}
	for _, p := range g.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

// NextRound appends the next round and moves the game to in-progress. Fails
// once the game completed or the round target is reached.
func (g *Game) NextRound() (*Round, error) {
	if g.State == StateCompleted {
		return nil, invalidStatef("game %s is completed", g.Code)
	}
	if len(g.Rounds) >= g.RoundTarget {
		return nil, invalidStatef("game %s reached its round target of %d", g.Code, g.RoundTarget)
	}
	number := g.CurrentRound + 1
	g.Rounds = append(g.Rounds, newRound(number, time.Now().UTC()))
	g.CurrentRound = number
	g.State = StateInProgress
	return &g.Rounds[len(g.Rounds)-1], nil
}

// StartScoring moves the game from in-progress to scoring.
func (g *Game) StartScoring() error {
	if g.State != StateInProgress {
		return invalidStatef("game %s is not in progress", g.Code)
	}
	g.State = StateScoring
	return nil
}

// ResumeProgress moves the game from scoring back to in-progress.
func (g *Game) ResumeProgress() error {
	if g.State != StateScoring {
		return invalidStatef("game %s is not scoring", g.Code)
	}
	g.State = StateInProgress
	return nil
}

// Finish moves any non-completed game to its terminal state.
func (g *Game) Finish() error {
	if g.State == StateCompleted {
		return invalidStatef("game %s is already completed", g.Code)
	}
	g.State = StateCompleted
	return nil
}

// AddSubmission upserts a player's meme for the given round. Allowed while
// the game is running; rejected for non-members and missing rounds.
func (g *Game) AddSubmission(roundNumber int, sub Submission) error {
	if g.State != StateInProgress && g.State != StateScoring {
		return invalidStatef("game %s is not accepting submissions", g.Code)
	}
	if _, ok := g.Player(sub.PlayerID); !ok {
		return unauthorizedf("player %s is not in game %s", sub.PlayerID, g.Code)
	}
	round, ok := g.Round(roundNumber)
	if !ok {
		return notFoundf("round %d not in game %s", roundNumber, g.Code)
	}
	round.UpsertSubmission(sub)
	return nil
}

// AddScore records a rating on a submission in the given round.
func (g *Game) AddScore(roundNumber int, submissionID, voterID string, rating int) error {
	round, ok := g.Round(roundNumber)
	if !ok {
		return notFoundf("round %d not in game %s", roundNumber, g.Code)
	}
	if _, ok := g.Player(voterID); !ok {
		return unauthorizedf("player %s is not in game %s", voterID, g.Code)
	}
	return round.AddScore(submissionID, voterID, rating)
}

// MarkCreativePhaseEnded closes the round's creative phase. Reports whether
// this call was the first to close it; duplicate timer fires land on false.
func (g *Game) MarkCreativePhaseEnded(roundNumber int) (bool, error) {
	round, ok := g.Round(roundNumber)
	if !ok {
		return false, notFoundf("round %d not in game %s", roundNumber, g.Code)
	}
	if round.CreativePhaseEnded {
		return false, nil
	}
	round.CreativePhaseEnded = true
	return true, nil
}

// MarkScorePhaseEnded closes the round's overall score phase, idempotently.
func (g *Game) MarkScorePhaseEnded(roundNumber int) (bool, error) {
	round, ok := g.Round(roundNumber)
	if !ok {
		return false, notFoundf("round %d not in game %s", roundNumber, g.Code)
	}
	if round.ScorePhaseEnded {
		return false, nil
	}
	round.ScorePhaseEnded = true
	return true, nil
}
