// Package app wires the dashboard together: REST client, page document,
// notifications, renderer, poller, commands and the web host.
package app

import (
	"fmt"
	"log"
	"time"

	"github.com/b0ase/path402/apps/aveumdash/internal/client"
	"github.com/b0ase/path402/apps/aveumdash/internal/commands"
	"github.com/b0ase/path402/apps/aveumdash/internal/config"
	"github.com/b0ase/path402/apps/aveumdash/internal/dashboard"
	"github.com/b0ase/path402/apps/aveumdash/internal/notify"
	"github.com/b0ase/path402/apps/aveumdash/internal/page"
	"github.com/b0ase/path402/apps/aveumdash/internal/server"
	"github.com/b0ase/path402/apps/aveumdash/internal/status"
)

// App orchestrates the dashboard subsystems.
type App struct {
	cfg        *config.Config
	startTime  time.Time
	client     *client.Client
	doc        *page.Document
	toasts     *notify.Toaster
	alerts     *notify.Alerter
	formatter  status.Formatter
	poller     *dashboard.Poller
	dispatcher *commands.Dispatcher
	stats      *dashboard.StatsPanel
	httpSrv    *server.Server
	port       int
	started    bool
	stopCh     chan struct{}
}

// New builds every subsystem from cfg. Nothing runs until Start.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &App{cfg: cfg, stopCh: make(chan struct{})}

	a.client = client.New(client.Config{
		BaseURL:       cfg.Server.BaseURL,
		SessionCookie: cfg.Server.SessionCookie,
		Timeout:       cfg.Server.Timeout,
	})
	a.doc = dashboard.NewDocument()
	a.toasts = notify.NewToaster(a.doc, cfg.Notify.Lifetime)
	a.alerts = notify.NewAlerter(a.doc, cfg.Notify.Lifetime)
	a.formatter = status.Formatter{
		TimestampLayout: cfg.Format.TimestampLayout,
		TimeLayout:      cfg.Format.TimeLayout,
	}

	renderer := dashboard.NewRenderer(a.doc, a.formatter)
	a.poller = dashboard.NewPoller(dashboard.PollerConfig{
		Interval:  cfg.Poll.Interval,
		Serialize: cfg.Poll.Serialize,
		Verbose:   cfg.Debug(),
	}, a.client, renderer)

	a.dispatcher = commands.NewDispatcher(a.client, a.toasts, a.poller)
	a.dispatcher.Bind(a.doc)

	a.stats = dashboard.NewStatsPanel(a.doc, a.client, a.alerts)
	return a, nil
}

// Start begins polling and, if enabled, serves the web dashboard.
func (a *App) Start() error {
	a.startTime = time.Now()
	log.Printf("[app] Aveum server: %s", a.client.BaseURL())
	if a.cfg.Server.SessionCookie == "" {
		log.Println("[app] WARNING: No session cookie configured; status requests will be rejected until you log in")
	}

	if a.cfg.Dashboard.Enabled {
		a.httpSrv = server.New(a.cfg.Dashboard.Bind, a.cfg.Dashboard.Port, a.doc, a)
		a.httpSrv.SetDismissers(a.toasts, a.alerts)
		a.httpSrv.SetStatsPanel(a.stats)
		port, err := a.httpSrv.Start()
		if err != nil {
			return fmt.Errorf("dashboard start: %w", err)
		}
		a.port = port
	}

	a.poller.Start()
	a.started = true
	go a.statusLoop()
	log.Println("[app] Started")
	return nil
}

func (a *App) statusLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			st := a.poller.Stats()
			log.Printf("[app] Cycles: %d | Rendered: %d | Failed: %d | Skipped: %d | Toasts: %d",
				st.Cycles, st.Rendered, st.Failed, st.Skipped, a.toasts.Pending())
		}
	}
}

// Stop shuts down all subsystems.
func (a *App) Stop() {
	log.Println("[app] Shutting down...")
	close(a.stopCh)

	if a.httpSrv != nil {
		a.httpSrv.Stop()
	}
	if a.started {
		a.poller.Stop()
	}

	log.Println("[app] Shutdown complete")
}

func (a *App) Uptime() time.Duration {
	if a.startTime.IsZero() {
		return 0
	}
	return time.Since(a.startTime)
}

func (a *App) ServerURL() string                  { return a.client.BaseURL() }
func (a *App) Latest() *status.Snapshot           { return a.poller.Latest() }
func (a *App) PollerStats() dashboard.PollerStats { return a.poller.Stats() }

// Port is the dashboard port actually bound, 0 when not serving.
func (a *App) Port() int { return a.port }

func (a *App) Client() *client.Client            { return a.client }
func (a *App) Document() *page.Document          { return a.doc }
func (a *App) Dispatcher() *commands.Dispatcher  { return a.dispatcher }
func (a *App) Formatter() status.Formatter       { return a.formatter }
func (a *App) Toasts() *notify.Toaster           { return a.toasts }
func (a *App) StatsPanel() *dashboard.StatsPanel { return a.stats }

