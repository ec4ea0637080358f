package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/b0ase/path402/apps/aveumdash/internal/status"
)

// ErrUnsuccessful is returned for a payload whose success flag is false.
var ErrUnsuccessful = errors.New("status payload reported failure")

// StatusSource fetches the current status snapshot.
type StatusSource interface {
	Status(ctx context.Context) (*status.Snapshot, error)
}

// PollerConfig configures the poll loop.
type PollerConfig struct {
	Interval time.Duration
	// Serialize skips a tick while an earlier cycle is still in flight.
	// Off by default: overlapping cycles run and the last to finish wins.
	Serialize bool
	Verbose   bool
}

// PollerStats counts cycles since Start.
type PollerStats struct {
	Cycles   int64 `json:"cycles"`
	Rendered int64 `json:"rendered"`
	Failed   int64 `json:"failed"`
	Skipped  int64 `json:"skipped"`
}

// Poller fetches a snapshot once at Start and then on every tick, and
// renders each successful one. Failures are logged and the cycle is
// dropped; the next tick tries again.
type Poller struct {
	cfg      PollerConfig
	src      StatusSource
	renderer *Renderer

	renderMu sync.Mutex
	latest   *status.Snapshot
	onRender []func(*status.Snapshot)

	inFlight atomic.Int32
	cycles   atomic.Int64
	rendered atomic.Int64
	failed   atomic.Int64
	skipped  atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
}

// NewPoller creates a poller. Interval defaults to 5s.
func NewPoller(cfg PollerConfig, src StatusSource, r *Renderer) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		cfg:      cfg,
		src:      src,
		renderer: r,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// OnRender registers fn to run after every successful render, with the
// snapshot that was rendered. Register before Start.
func (p *Poller) OnRender(fn func(*status.Snapshot)) {
	p.renderMu.Lock()
	p.onRender = append(p.onRender, fn)
	p.renderMu.Unlock()
}

// Start runs a first cycle immediately and then one per interval.
func (p *Poller) Start() {
	log.Printf("[poller] Polling every %v", p.cfg.Interval)
	go p.run()
}

// Stop ends the loop, cancels in-flight requests and waits for them.
func (p *Poller) Stop() {
	p.cancel()
	<-p.done
	p.wg.Wait()
	log.Println("[poller] Stopped")
}

func (p *Poller) run() {
	defer close(p.done)

	p.tick()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick launches one cycle without waiting for it.
func (p *Poller) tick() {
	if p.cfg.Serialize && p.inFlight.Load() > 0 {
		p.skipped.Add(1)
		if p.cfg.Verbose {
			log.Println("[poller] Previous cycle still in flight, skipping tick")
		}
		return
	}
	p.inFlight.Add(1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Add(-1)
		p.refresh(p.ctx)
	}()
}

// Refresh runs one full fetch-and-render cycle and returns when it is done.
// Safe to call concurrently with the loop and with itself.
func (p *Poller) Refresh(ctx context.Context) error {
	p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	return p.refresh(ctx)
}

func (p *Poller) refresh(ctx context.Context) error {
	p.cycles.Add(1)

	snap, err := p.src.Status(ctx)
	if err != nil {
		p.failed.Add(1)
		log.Printf("[poller] Error updating dashboard: %v", err)
		return err
	}
	if !snap.Success {
		p.failed.Add(1)
		log.Printf("[poller] Error fetching status: %s", snap.Error)
		return fmt.Errorf("%w: %s", ErrUnsuccessful, snap.Error)
	}

	// Whole renders never interleave; whichever response arrives last
	// overwrites the page.
	p.renderMu.Lock()
	p.renderer.Render(snap)
	p.latest = snap
	hooks := p.onRender
	p.renderMu.Unlock()

	p.rendered.Add(1)
	if p.cfg.Verbose {
		log.Printf("[poller] Rendered: mining=%v auto_like=%v balance=%s",
			snap.IsMining, snap.AutoLikeActive, status.FormatNumber(snap.CurrentBalance))
	}
	for _, fn := range hooks {
		fn(snap)
	}
	return nil
}

// Latest returns the most recently rendered snapshot, or nil.
func (p *Poller) Latest() *status.Snapshot {
	p.renderMu.Lock()
	defer p.renderMu.Unlock()
	return p.latest
}

// Stats returns cycle counters.
func (p *Poller) Stats() PollerStats {
	return PollerStats{
		Cycles:   p.cycles.Load(),
		Rendered: p.rendered.Load(),
		Failed:   p.failed.Load(),
		Skipped:  p.skipped.Load(),
	}
}
