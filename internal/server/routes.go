package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/b0ase/path402/apps/aveumdash/internal/page"
)

const version = "0.1.0"

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/", s.handleDashboard)
	r.GET("/health", s.handleHealth)
	r.GET("/status", s.handleStatus)

	pg := r.Group("/page")
	{
		pg.GET("/elements", s.handleElements)
		pg.POST("/click/:id", s.handleClick)
		pg.POST("/dismiss/:id", s.handleDismiss)
		pg.POST("/stats", s.handleStats)
	}

	r.GET("/ws", s.hub.handleWebSocket)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"version":    version,
		"uptime_ms":  s.app.Uptime().Milliseconds(),
		"server_url": s.app.ServerURL(),
		"ws_clients": s.hub.ClientCount(),
	})
}

// handleStatus returns the last rendered snapshot and poll counters.
func (s *Server) handleStatus(c *gin.Context) {
	resp := gin.H{"poller": s.app.PollerStats()}
	if snap := s.app.Latest(); snap != nil {
		resp["snapshot"] = snap
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleElements(c *gin.Context) {
	c.JSON(http.StatusOK, s.doc.Elements())
}

func (s *Server) handleClick(c *gin.Context) {
	id := c.Param("id")
	err := s.doc.Click(id)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"clicked": id})
	case errors.Is(err, page.ErrNoElement):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	}
}

func (s *Server) handleDismiss(c *gin.Context) {
	id := c.Param("id")
	for _, d := range s.dismissers {
		if d.Dismiss(id) {
			c.JSON(http.StatusOK, gin.H{"dismissed": id})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "no such notification"})
}

func (s *Server) handleStats(c *gin.Context) {
	if s.stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats panel not available"})
		return
	}
	if err := s.stats.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": true})
}
