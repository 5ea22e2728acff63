package server

import (
	"net/http"

	"meme-royale/internal/web"

	"github.com/a-h/templ"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	summaries := make([]web.GameSummary, 0)
	for _, summary := range s.store.ListSummaries() {
		summaries = append(summaries, web.GameSummary{
			Code:    summary.Code,
			State:   summary.State,
			Players: summary.Players,
		})
	}
	templ.Handler(web.Home(summaries)).ServeHTTP(w, r)
}
