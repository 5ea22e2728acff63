package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// adminRouter serves the operator API. When ADMIN_TOKEN is configured every
// request must carry it in X-Admin-Token.
func (s *Server) adminRouter() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requireAdminToken())

	api := router.Group("/admin/api")
	api.GET("/games", s.handleAdminListGames)
	api.GET("/games/:code", s.handleAdminGetGame)
	api.POST("/games/:code/end", s.handleAdminEndGame)
	return router
}

func (s *Server) requireAdminToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AdminToken == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-Admin-Token") != s.cfg.AdminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleAdminListGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": s.store.ListSummaries()})
}

func (s *Server) handleAdminGetGame(c *gin.Context) {
	code := c.Param("code")
	g, ok := s.store.GetByCode(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, s.snapshot(g))
}

// handleAdminEndGame force-ends a game regardless of who the admin player
// is, for operator cleanup of abandoned lobbies.
func (s *Server) handleAdminEndGame(c *gin.Context) {
	code := c.Param("code")
	g, ok := s.store.GetByCode(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	finished, err := s.FinishGame(code, g.AdminPlayerID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	log.Printf("game force-ended game_code=%s", code)
	c.JSON(http.StatusOK, gin.H{"code": finished.Code, "state": string(finished.State)})
}
