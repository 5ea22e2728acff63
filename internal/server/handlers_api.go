package server

import (
	"errors"
	"net/http"

	"meme-royale/internal/game"
)

type createGameRequest struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name" validate:"required,displayname"`
	Password    string `json:"password" validate:"omitempty,max=64"`
	RoundTarget int    `json:"round_target" validate:"omitempty,min=1,max=10"`
}

type joinRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name" validate:"required,displayname"`
	Password string `json:"password" validate:"omitempty,max=64"`
}

type readyRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Ready    bool   `json:"ready"`
}

type startRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type submissionRequest struct {
	PlayerID    string           `json:"player_id" validate:"required"`
	Round       int              `json:"round" validate:"required,min=1"`
	TemplateID  string           `json:"template_id" validate:"required"`
	TextEntries []game.TextEntry `json:"text_entries"`
}

type ratingRequest struct {
	PlayerID     string `json:"player_id" validate:"required"`
	Round        int    `json:"round" validate:"required,min=1"`
	SubmissionID string `json:"submission_id" validate:"required"`
	Rating       int    `json:"rating" validate:"min=0,max=5"`
}

type kickRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, game.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrConflict), errors.Is(err, game.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

func (s *Server) handleGameSubroutes(w http.ResponseWriter, r *http.Request) {
	code, action, ok := parseGamePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		switch action {
		case "":
			s.handleGetGame(w, r, code)
		case "scoreboard":
			s.handleScoreboard(w, r, code)
		case "next-meme":
			s.handleNextMeme(w, r, code)
		default:
			http.NotFound(w, r)
		}
	case http.MethodPost:
		switch action {
		case "join":
			s.handleJoinGame(w, r, code)
		case "ready":
			s.handleReady(w, r, code)
		case "start":
			s.handleStartGame(w, r, code)
		case "submissions":
			s.handleSubmitMeme(w, r, code)
		case "ratings":
			s.handleRateMeme(w, r, code)
		case "kick":
			s.handleKick(w, r, code)
		case "finish":
			s.handleFinish(w, r, code)
		default:
			http.NotFound(w, r)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid create request")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	g, err := s.CreateGame(req.PlayerID, name, req.Password, req.RoundTarget)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"code":      g.Code,
		"player_id": g.AdminPlayerID,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request, code string) {
	g, ok := s.store.GetByCode(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(g))
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request, code string) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid join request")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	g, playerID, err := s.JoinGame(code, req.PlayerID, name, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":      g.Code,
		"player_id": playerID,
		"player":    name,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request, code string) {
	var req readyRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid ready request")
		return
	}
	g, err := s.SetPlayerReady(code, req.PlayerID, req.Ready)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":      g.Code,
		"all_ready": g.AllPlayersReady(),
	})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request, code string) {
	var req startRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start request")
		return
	}
	g, err := s.StartGame(code, req.PlayerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":  g.Code,
		"state": string(g.State),
		"round": g.CurrentRound,
	})
}

func (s *Server) handleSubmitMeme(w http.ResponseWriter, r *http.Request, code string) {
	var req submissionRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "submission is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid submission request")
		return
	}
	g, err := s.SubmitMeme(code, req.PlayerID, req.Round, req.TemplateID, req.TextEntries)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	round, _ := g.Round(req.Round)
	sub, _ := round.SubmissionByPlayer(req.PlayerID)
	writeJSON(w, http.StatusOK, map[string]any{
		"code":          g.Code,
		"submission_id": sub.ID,
	})
}

func (s *Server) handleRateMeme(w http.ResponseWriter, r *http.Request, code string) {
	var req ratingRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "rating is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid rating request")
		return
	}
	rated, g, err := s.RateMeme(code, req.PlayerID, req.Round, req.SubmissionID, req.Rating)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":  g.Code,
		"rated": rated,
	})
}

func (s *Server) handleKick(w http.ResponseWriter, r *http.Request, code string) {
	var req kickRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "target_id is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid kick request")
		return
	}
	g, err := s.RemovePlayer(code, req.PlayerID, req.TargetID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":    g.Code,
		"players": len(g.Players),
	})
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request, code string) {
	var req startRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	g, err := s.FinishGame(code, req.PlayerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":  g.Code,
		"state": string(g.State),
	})
}

func (s *Server) handleScoreboard(w http.ResponseWriter, r *http.Request, code string) {
	g, ok := s.store.GetByCode(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":       g.Code,
		"scoreboard": g.Scoreboard(),
	})
}

func (s *Server) handleNextMeme(w http.ResponseWriter, r *http.Request, code string) {
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	sub, roundNumber, err := s.NextMemeForVoter(code, playerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if sub == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"round": roundNumber,
			"done":  true,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"round":         roundNumber,
		"submission_id": sub.ID,
		"template_id":   sub.TemplateID,
		"text_entries":  sub.TextEntries,
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": memeTemplates})
}
