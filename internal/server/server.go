package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/b0ase/path402/apps/aveumdash/internal/dashboard"
	"github.com/b0ase/path402/apps/aveumdash/internal/page"
	"github.com/b0ase/path402/apps/aveumdash/internal/status"
)

// AppInfo provides read-only access to app state for the API.
type AppInfo interface {
	Uptime() time.Duration
	ServerURL() string
	Latest() *status.Snapshot
	PollerStats() dashboard.PollerStats
}

// Dismisser removes a notification by id.
type Dismisser interface {
	Dismiss(id string) bool
}

// StatsRefresher runs the stats panel refresh.
type StatsRefresher interface {
	Refresh(ctx context.Context) error
}

// corsMiddleware allows cross-origin requests from other local dashboards.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// Server hosts the web dashboard: the page itself, a JSON view of the
// document, click and dismiss endpoints, and a websocket feed of changes.
type Server struct {
	httpSrv    *http.Server
	engine     *gin.Engine
	hub        *Hub
	doc        *page.Document
	app        AppInfo
	dismissers []Dismisser
	stats      StatsRefresher
	bind       string
	port       int
}

// New creates the dashboard server and starts its websocket hub.
func New(bind string, port int, doc *page.Document, app AppInfo) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), corsMiddleware())

	s := &Server{
		engine: engine,
		hub:    NewHub(doc),
		doc:    doc,
		app:    app,
		bind:   bind,
		port:   port,
	}
	s.registerRoutes(engine)
	go s.hub.Run()

	s.httpSrv = &http.Server{Handler: engine}
	return s
}

// SetDismissers attaches the notifiers whose notifications can be closed
// through the API.
func (s *Server) SetDismissers(d ...Dismisser) {
	s.dismissers = d
}

// SetStatsPanel attaches the stats panel for POST /page/stats.
func (s *Server) SetStatsPanel(r StatsRefresher) {
	s.stats = r
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start pre-acquires the port and begins serving HTTP requests.
// If the primary port is in use, it falls back to port+1.
// Returns the actual port bound.
func (s *Server) Start() (int, error) {
	addr := fmt.Sprintf("%s:%d", s.bind, s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fallbackPort := s.port + 1
		fallbackAddr := fmt.Sprintf("%s:%d", s.bind, fallbackPort)
		ln, err = net.Listen("tcp", fallbackAddr)
		if err != nil {
			return 0, fmt.Errorf("listen on %s and fallback %s: %w", addr, fallbackAddr, err)
		}
		log.Printf("[api] WARNING: Using fallback port %d (primary %d was in use)", fallbackPort, s.port)
		s.port = fallbackPort
	}

	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcp.Port
	}
	log.Printf("[api] Dashboard listening on http://%s:%d", s.bind, s.port)
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()
	return s.port, nil
}

// Stop gracefully shuts down the server and disconnects websocket clients.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.httpSrv.Shutdown(ctx)
	s.hub.Stop()
	log.Println("[api] HTTP server stopped")
}
