package server

import (
	"encoding/json"
	"time"

	"meme-royale/internal/db"
	"meme-royale/internal/game"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// persistGame writes the whole aggregate as one document. The row's version
// counter moves forward on every write so a second process writing the same
// game shows up as a version jump instead of silent loss.
func (s *Server) persistGame(g *game.Game) error {
	if s.db == nil {
		return nil
	}
	doc, err := json.Marshal(g)
	if err != nil {
		return err
	}
	record := db.Game{
		Code:  g.Code,
		Phase: string(g.State),
		State: doc,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.Assignments(map[string]any{
			"phase":      string(g.State),
			"state":      doc,
			"version":    gorm.Expr("games.version + 1"),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&record).Error
}

// persistEvent appends one published notification to the event log.
func (s *Server) persistEvent(g *game.Game, event Event) error {
	if s.db == nil {
		return nil
	}
	gameID, err := s.findGameDBID(g.Code)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	record := db.Event{
		GameID:  gameID,
		Type:    string(event.Type),
		Payload: payload,
	}
	if event.RoundNumber > 0 {
		round := event.RoundNumber
		record.RoundNumber = &round
	}
	return s.db.Create(&record).Error
}

func (s *Server) findGameDBID(code string) (uint, error) {
	var record db.Game
	if err := s.db.Select("id").Where("code = ?", code).First(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}
