package server

import (
	"fmt"
	"sort"
	"sync"

	"meme-royale/internal/game"
)

func notFoundErr(code string) error {
	return fmt.Errorf("%w: game %s", game.ErrNotFound, code)
}

func conflictErr(code string) error {
	return fmt.Errorf("%w: game code %s already in use", game.ErrConflict, code)
}

// GameSummary is the lobby-list view of a running game.
type GameSummary struct {
	Code    string `json:"code"`
	State   string `json:"state"`
	Players int    `json:"players"`
	Round   int    `json:"round"`
}

// Store holds the running games in memory, keyed by game code. UpdateGame
// applies a mutation under the store lock, so commands against the same game
// are serialized and never race on the aggregate.
type Store struct {
	mu    sync.Mutex
	games map[string]*game.Game
}

func NewStore() *Store {
	return &Store{games: make(map[string]*game.Game)}
}

// Put registers a new game. The code must not be in use.
func (s *Store) Put(g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.Code]; ok {
		return conflictErr(g.Code)
	}
	s.games[g.Code] = g
	return nil
}

// GetByCode returns the game for a code.
func (s *Store) GetByCode(code string) (*game.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[code]
	return g, ok
}

// UpdateGame runs the mutation against the aggregate under the store lock.
func (s *Store) UpdateGame(code string, update func(g *game.Game) error) (*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[code]
	if !ok {
		return nil, notFoundErr(code)
	}
	if err := update(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Remove drops a game from the running set.
func (s *Store) Remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, code)
}

// ListSummaries returns one summary per running game, sorted by code.
func (s *Store) ListSummaries() []GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]GameSummary, 0, len(s.games))
	for _, g := range s.games {
		list = append(list, GameSummary{
			Code:    g.Code,
			State:   string(g.State),
			Players: len(g.Players),
			Round:   g.CurrentRound,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Code < list[j].Code
	})
	return list
}
