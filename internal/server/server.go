package server

import (
	"net/http"
	"sync"

	"meme-royale/internal/config"

	"gorm.io/gorm"
)

type Server struct {
	store     *Store
	db        *gorm.DB
	ws        *wsHub
	homeWS    *homeHub
	cfg       config.Config
	scheduler Scheduler
	publisher Publisher

	tasksMu sync.Mutex
	// pending maps a phase-timer key to the scheduled task id so an
	// early-advance can best-effort cancel the now-redundant timer.
	pending map[string]string
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	s := &Server{
		store:   NewStore(),
		db:      conn,
		ws:      newWSHub(),
		homeWS:  newHomeHub(),
		cfg:     cfg,
		pending: make(map[string]string),
	}
	s.scheduler = newTimerScheduler(s)
	s.publisher = s.ws
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHome)
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("POST /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("GET /ws/games/", s.handleWebsocket)
	mux.HandleFunc("GET /ws/home", s.handleHomeWebsocket)
	mux.Handle("/admin/", s.adminRouter())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}

func (s *Server) trackTask(key, taskID string) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	s.pending[key] = taskID
}

// cancelTracked stops the timer registered under key, if any. Cancellation is
// best effort; the commands stay idempotent against a timer that fired first.
func (s *Server) cancelTracked(key string) {
	s.tasksMu.Lock()
	taskID, ok := s.pending[key]
	if ok {
		delete(s.pending, key)
	}
	s.tasksMu.Unlock()
	if ok {
		s.scheduler.CancelTask(taskID)
	}
}

func (s *Server) dropTasksForGame(code string) {
	s.tasksMu.Lock()
	for key := range s.pending {
		if taskGameCode(key) == code {
			delete(s.pending, key)
		}
	}
	s.tasksMu.Unlock()
	s.scheduler.CancelAllForGame(code)
}
