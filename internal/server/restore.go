package server

import (
	"encoding/json"
	"log"

	"meme-royale/internal/db"
	"meme-royale/internal/game"
)

// RestoreGames loads every unfinished game document back into the in-memory
// store after a restart and re-arms the phase timer the game was waiting on.
func (s *Server) RestoreGames() error {
	if s.db == nil {
		return nil
	}
	var records []db.Game
	if err := s.db.Where("phase <> ?", string(game.StateCompleted)).Find(&records).Error; err != nil {
		return err
	}
	restored := 0
	for _, record := range records {
		var g game.Game
		if err := json.Unmarshal(record.State, &g); err != nil {
			log.Printf("restore skipped game_code=%s error=%v", record.Code, err)
			continue
		}
		if err := s.store.Put(&g); err != nil {
			log.Printf("restore skipped game_code=%s error=%v", g.Code, err)
			continue
		}
		s.rearmTimers(&g)
		restored++
	}
	if restored > 0 {
		log.Printf("games restored count=%d", restored)
	}
	return nil
}

// rearmTimers schedules the phase-end command the restored game is waiting
// on. Durations restart from zero; a restart extends the running phase rather
// than cutting it short.
func (s *Server) rearmTimers(g *game.Game) {
	round, ok := g.Round(g.CurrentRound)
	if !ok {
		return
	}
	switch {
	case !round.CreativePhaseEnded:
		taskID := s.scheduler.ScheduleCreativePhaseEnded(g.Code, round.Number, s.creativeDuration())
		s.trackTask(creativeTaskKey(g.Code, round.Number), taskID)
	case !round.ScorePhaseEnded:
		if sub, ok := round.NextPendingSubmission(); ok {
			taskID := s.scheduler.ScheduleScorePhaseEnded(g.Code, round.Number, sub.ID, s.scoreDuration())
			s.trackTask(scoreTaskKey(g.Code, round.Number, sub.ID), taskID)
		}
	case round.Number < g.RoundTarget:
		taskID := s.scheduler.ScheduleStartNewRound(g.Code, round.Number+1, s.nextRoundDelay())
		s.trackTask(nextRoundTaskKey(g.Code, round.Number+1), taskID)
	}
}
