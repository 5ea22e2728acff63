package server

import (
	"fmt"
	"log"
	"strings"
	"time"

	"meme-royale/internal/game"

	"github.com/google/uuid"
)

const createCodeAttempts = 5

func creativeTaskKey(code string, round int) string {
	return fmt.Sprintf("%s/creative/%d", code, round)
}

func scoreTaskKey(code string, round int, submissionID string) string {
	return fmt.Sprintf("%s/score/%d/%s", code, round, submissionID)
}

func nextRoundTaskKey(code string, round int) string {
	return fmt.Sprintf("%s/next/%d", code, round)
}

func taskGameCode(key string) string {
	if i := strings.IndexByte(key, '/'); i >= 0 {
		return key[:i]
	}
	return key
}

func (s *Server) creativeDuration() time.Duration {
	return time.Duration(s.cfg.CreativeSeconds) * time.Second
}

func (s *Server) scoreDuration() time.Duration {
	return time.Duration(s.cfg.ScoreSeconds) * time.Second
}

func (s *Server) nextRoundDelay() time.Duration {
	return time.Duration(s.cfg.NextRoundSeconds) * time.Second
}

// CreateGame opens a lobby with the caller as admin. An empty player id gets
// a generated identity.
func (s *Server) CreateGame(adminID, adminName, password string, roundTarget int) (*game.Game, error) {
	if adminID == "" {
		adminID = uuid.NewString()
	}
	if roundTarget <= 0 {
		roundTarget = s.cfg.RoundTarget
	}
	for attempt := 0; attempt < createCodeAttempts; attempt++ {
		g, err := game.New(game.NewCode(), adminID, adminName, password, roundTarget)
		if err != nil {
			return nil, err
		}
		if err := s.store.Put(g); err != nil {
			continue
		}
		if err := s.persistGame(g); err != nil {
			log.Printf("persist game failed game_code=%s error=%v", g.Code, err)
		}
		s.recordEvent(g, Event{Type: EventGameCreated, GameCode: g.Code})
		log.Printf("game created game_code=%s admin_id=%s", g.Code, adminID)
		s.broadcastHomeUpdate()
		return g, nil
	}
	return nil, fmt.Errorf("%w: could not allocate a free game code", game.ErrConflict)
}

// JoinGame admits a player into a lobby by code. An empty player id gets a
// generated identity, returned to the caller.
func (s *Server) JoinGame(code, playerID, displayName, password string) (*game.Game, string, error) {
	normalized, err := game.NormalizeCode(code)
	if err != nil {
		return nil, "", err
	}
	if playerID == "" {
		playerID = uuid.NewString()
	}
	g, err := s.store.UpdateGame(normalized, func(g *game.Game) error {
		return g.AddPlayer(playerID, displayName, password)
	})
	if err != nil {
		return nil, "", err
	}
	s.persistAndPublish(g, Event{
		Type:       EventPlayerJoined,
		GameCode:   g.Code,
		PlayerID:   playerID,
		PlayerName: displayName,
	})
	log.Printf("player joined game_code=%s player_id=%s", g.Code, playerID)
	return g, playerID, nil
}

// SetPlayerReady flips a lobby member's ready flag.
func (s *Server) SetPlayerReady(code, playerID string, ready bool) (*game.Game, error) {
	g, err := s.store.UpdateGame(code, func(g *game.Game) error {
		return g.SetPlayerReady(playerID, ready)
	})
	if err != nil {
		return nil, err
	}
	s.persistAndPublish(g, Event{
		Type:     EventPlayerStateChanged,
		GameCode: g.Code,
		PlayerID: playerID,
	})
	return g, nil
}

// StartGame begins round one. Admin only.
func (s *Server) StartGame(code, playerID string) (*game.Game, error) {
	var roundNumber int
	g, err := s.store.UpdateGame(code, func(g *game.Game) error {
		if playerID != g.AdminPlayerID {
			return fmt.Errorf("%w: only the admin can start game %s", game.ErrUnauthorized, g.Code)
		}
		if g.State != game.StateLobby {
			return fmt.Errorf("%w: game %s already started", game.ErrInvalidState, g.Code)
		}
		round, err := g.NextRound()
		if err != nil {
			return err
		}
		roundNumber = round.Number
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.persistAndPublish(g, Event{
		Type:        EventGameStarted,
		GameCode:    g.Code,
		RoundNumber: roundNumber,
	})
	taskID := s.scheduler.ScheduleCreativePhaseEnded(g.Code, roundNumber, s.creativeDuration())
	s.trackTask(creativeTaskKey(g.Code, roundNumber), taskID)
	log.Printf("game started game_code=%s round=%d", g.Code, roundNumber)
	return g, nil
}

// SubmitMeme upserts a player's entry for the round. When the last missing
// player submits, the creative phase ends immediately instead of waiting for
// its timer.
func (s *Server) SubmitMeme(code, playerID string, roundNumber int, templateID string, entries []game.TextEntry) (*game.Game, error) {
	if _, ok := templateByID(templateID); !ok {
		return nil, fmt.Errorf("%w: unknown meme template %s", game.ErrValidation, templateID)
	}
	sub, err := game.NewSubmission(playerID, templateID, entries)
	if err != nil {
		return nil, err
	}
	if err := validateTextEntries(sub.TextEntries); err != nil {
		return nil, err
	}
	allSubmitted := false
	g, err := s.store.UpdateGame(code, func(g *game.Game) error {
		if err := g.AddSubmission(roundNumber, sub); err != nil {
			return err
		}
		round, ok := g.Round(roundNumber)
		if !ok || round.CreativePhaseEnded {
			return nil
		}
		allSubmitted = len(g.Players) > 0 && len(round.Submissions) >= len(g.Players)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.persistAndPublish(g, Event{
		Type:        EventPlayerStateChanged,
		GameCode:    g.Code,
		PlayerID:    playerID,
		RoundNumber: roundNumber,
		Reason:      "submitted",
	})
	if allSubmitted {
		if err := s.EndCreativePhase(code, roundNumber); err != nil {
			log.Printf("early creative-phase end failed game_code=%s round=%d error=%v", code, roundNumber, err)
		}
	}
	return g, nil
}

// RateMeme records a rating. A repeat rating by the same voter is ignored
// (rated=false, no error) so duplicate client actions stay harmless. When the
// last eligible voter rates, the submission's score window closes immediately.
func (s *Server) RateMeme(code, voterID string, roundNumber int, submissionID string, rating int) (bool, *game.Game, error) {
	rated := false
	complete := false
	g, err := s.store.UpdateGame(code, func(g *game.Game) error {
		round, ok := g.Round(roundNumber)
		if !ok {
			return fmt.Errorf("%w: round %d not in game %s", game.ErrNotFound, roundNumber, g.Code)
		}
		if round.HasRated(submissionID, voterID) {
			return nil
		}
		if err := g.AddScore(roundNumber, submissionID, voterID, rating); err != nil {
			return err
		}
		rated = true
		complete = round.VoterCount(submissionID) >= len(g.Players)-1
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	if !rated {
		return false, g, nil
	}
	s.persistAndPublish(g, Event{
		Type:         EventPlayerStateChanged,
		GameCode:     g.Code,
		PlayerID:     voterID,
		RoundNumber:  roundNumber,
		SubmissionID: submissionID,
		Reason:       "rated",
	})
	if complete {
		if err := s.EndScorePhase(code, roundNumber, submissionID); err != nil {
			log.Printf("early score-phase end failed game_code=%s round=%d submission_id=%s error=%v", code, roundNumber, submissionID, err)
		}
	}
	return true, g, nil
}

// EndCreativePhase closes the round's creative phase and opens scoring for
// the first pending submission. Safe to call repeatedly: the second and later
// calls are no-ops, which absorbs duplicate timer fires.
func (s *Server) EndCreativePhase(code string, roundNumber int) error {
	first := false
	var next *game.Submission
	g, err := s.store.UpdateGame(code, func(g *game.Game) error {
		if g.State == game.StateCompleted {
			return nil
		}
		closed, err := g.MarkCreativePhaseEnded(roundNumber)
		if err != nil {
			return err
		}
		if !closed {
			return nil
		}
		first = true
		if g.State == game.StateInProgress {
			if err := g.StartScoring(); err != nil {
				return err
			}
		}
		round, _ := g.Round(roundNumber)
		if sub, ok := round.NextPendingSubmission(); ok {
			copied := *sub
			next = &copied
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	s.cancelTracked(creativeTaskKey(code, roundNumber))
	s.persistAndPublish(g, Event{
		Type:        EventCreativePhaseEnded,
		GameCode:    g.Code,
		RoundNumber: roundNumber,
	})
	log.Printf("creative phase ended game_code=%s round=%d", g.Code, roundNumber)
	if next == nil {
		// Nobody submitted: the scoring phase has nothing to show.
		return s.closeScorePhase(code, roundNumber)
	}
	s.openScoreWindow(g, roundNumber, next)
	return nil
}

// EndScorePhase closes one submission's scoring window and either opens the
// next one or ends the round's scoring altogether. Duplicate calls for the
// same submission are no-ops.
func (s *Server) EndScorePhase(code string, roundNumber int, submissionID string) error {
	first := false
	var next *game.Submission
	g, err := s.store.UpdateGame(code, func(g *game.Game) error {
		if g.State == game.StateCompleted {
			return nil
		}
		round, ok := g.Round(roundNumber)
		if !ok {
			return fmt.Errorf("%w: round %d not in game %s", game.ErrNotFound, roundNumber, g.Code)
		}
		closed, err := round.MarkSubmissionScoreEnded(submissionID)
		if err != nil {
			return err
		}
		if !closed {
			return nil
		}
		first = true
		if sub, ok := round.NextPendingSubmission(); ok {
			copied := *sub
			next = &copied
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	s.cancelTracked(scoreTaskKey(code, roundNumber, submissionID))
	if err := s.persistGame(g); err != nil {
		log.Printf("persist game failed game_code=%s error=%v", g.Code, err)
	}
	if next != nil {
		s.openScoreWindow(g, roundNumber, next)
		return nil
	}
	return s.closeScorePhase(code, roundNumber)
}

// openScoreWindow announces one submission for rating and schedules the end
// of its window.
func (s *Server) openScoreWindow(g *game.Game, roundNumber int, sub *game.Submission) {
	s.recordEvent(g, Event{
		Type:         EventScorePhaseStarted,
		GameCode:     g.Code,
		RoundNumber:  roundNumber,
		SubmissionID: sub.ID,
		PlayerID:     sub.PlayerID,
	})
	s.broadcastGameUpdate(g)
	taskID := s.scheduler.ScheduleScorePhaseEnded(g.Code, roundNumber, sub.ID, s.scoreDuration())
	s.trackTask(scoreTaskKey(g.Code, roundNumber, sub.ID), taskID)
	log.Printf("score phase started game_code=%s round=%d submission_id=%s", g.Code, roundNumber, sub.ID)
}

// closeScorePhase marks the round's overall score phase ended and chains into
// the end-of-round flow.
func (s *Server) closeScorePhase(code string, roundNumber int) error {
	first := false
	g, err := s.store.UpdateGame(code, func(g *game.Game) error {
		if g.State == game.StateCompleted {
			return nil
		}
		closed, err := g.MarkScorePhaseEnded(roundNumber)
		if err != nil {
			return err
		}
		first = closed
		return nil
	})
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	if err := s.persistGame(g); err != nil {
		log.Printf("persist game failed game_code=%s error=%v", g.Code, err)
	}
	return s.EndRound(code, roundNumber)
}

// EndRound publishes the cumulative scoreboard and, when rounds remain,
// schedules the next round's start. The final round leaves the game waiting
// for an explicit finish.
func (s *Server) EndRound(code string, roundNumber int) error {
	g, ok := s.store.GetByCode(code)
	if !ok {
		return notFoundErr(code)
	}
	s.persistAndPublish(g, Event{
		Type:        EventRoundEnded,
		GameCode:    g.Code,
		RoundNumber: roundNumber,
		Scoreboard:  g.Scoreboard(),
	})
	log.Printf("round ended game_code=%s round=%d", g.Code, roundNumber)
	if roundNumber < g.RoundTarget {
		nextNumber := roundNumber + 1
		taskID := s.scheduler.ScheduleStartNewRound(g.Code, nextNumber, s.nextRoundDelay())
		s.trackTask(nextRoundTaskKey(g.Code, nextNumber), taskID)
	}
	return nil
}

// StartNewRound creates the requested round. The round number must be exactly
// one past the current round, which rejects stale scheduler callbacks.
func (s *Server) StartNewRound(code string, roundNumber int) error {
	g, err := s.store.UpdateGame(code, func(g *game.Game) error {
		if roundNumber != g.CurrentRound+1 {
			return fmt.Errorf("%w: round %d is stale, game %s is on round %d", game.ErrInvalidState, roundNumber, g.Code, g.CurrentRound)
		}
		_, err := g.NextRound()
		return err
	})
	if err != nil {
		return err
	}
	s.cancelTracked(nextRoundTaskKey(code, roundNumber))
	s.persistAndPublish(g, Event{
		Type:        EventRoundStarted,
		GameCode:    g.Code,
		RoundNumber: roundNumber,
	})
	taskID := s.scheduler.ScheduleCreativePhaseEnded(g.Code, roundNumber, s.creativeDuration())
	s.trackTask(creativeTaskKey(g.Code, roundNumber), taskID)
	log.Printf("round started game_code=%s round=%d", g.Code, roundNumber)
	return nil
}

// RemovePlayer kicks a member. Admin only; the admin themselves can never be
// kicked. Removing an absent player is a no-op that still persists.
func (s *Server) RemovePlayer(code, adminID, targetID string) (*game.Game, error) {
	g, err := s.store.UpdateGame(code, func(g *game.Game) error {
		if adminID != g.AdminPlayerID {
			return fmt.Errorf("%w: only the admin can remove players from game %s", game.ErrUnauthorized, g.Code)
		}
		return g.RemovePlayer(targetID)
	})
	if err != nil {
		return nil, err
	}
	s.persistAndPublish(g, Event{
		Type:     EventPlayerRemoved,
		GameCode: g.Code,
		PlayerID: targetID,
	})
	log.Printf("player removed game_code=%s player_id=%s", g.Code, targetID)
	return g, nil
}

// FinishGame moves the game to its terminal state and drops every scheduled
// task for it. Admin only.
func (s *Server) FinishGame(code, adminID string) (*game.Game, error) {
	g, err := s.store.UpdateGame(code, func(g *game.Game) error {
		if adminID != g.AdminPlayerID {
			return fmt.Errorf("%w: only the admin can finish game %s", game.ErrUnauthorized, g.Code)
		}
		return g.Finish()
	})
	if err != nil {
		return nil, err
	}
	s.dropTasksForGame(code)
	s.persistAndPublish(g, Event{
		Type:     EventGameEnded,
		GameCode: g.Code,
	})
	log.Printf("game finished game_code=%s", g.Code)
	return g, nil
}

// NextMemeForVoter picks a submission the voter still has to rate in the
// current round.
func (s *Server) NextMemeForVoter(code, voterID string) (*game.Submission, int, error) {
	var sub *game.Submission
	roundNumber := 0
	_, err := s.store.UpdateGame(code, func(g *game.Game) error {
		if _, ok := g.Player(voterID); !ok {
			return fmt.Errorf("%w: player %s is not in game %s", game.ErrUnauthorized, voterID, g.Code)
		}
		round, ok := g.Round(g.CurrentRound)
		if !ok {
			return fmt.Errorf("%w: game %s has no active round", game.ErrInvalidState, g.Code)
		}
		roundNumber = round.Number
		if found, ok := round.NextUnscoredSubmission(voterID); ok {
			copied := *found
			sub = &copied
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return sub, roundNumber, nil
}

// persistAndPublish writes the aggregate and event row, notifies the
// publisher, and pushes fresh snapshots to live clients.
func (s *Server) persistAndPublish(g *game.Game, event Event) {
	if err := s.persistGame(g); err != nil {
		log.Printf("persist game failed game_code=%s error=%v", g.Code, err)
	}
	s.recordEvent(g, event)
	s.broadcastGameUpdate(g)
}

// recordEvent appends the event to the audit log and hands it to the
// publisher.
func (s *Server) recordEvent(g *game.Game, event Event) {
	if err := s.persistEvent(g, event); err != nil {
		log.Printf("persist event failed game_code=%s type=%s error=%v", g.Code, event.Type, err)
	}
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}
