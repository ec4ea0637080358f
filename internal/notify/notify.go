// Package notify shows transient notifications on a page.Document.
//
// There are two independent paths, one per page context: Toaster stacks
// toasts in a lazily created toast-container, Alerter inserts alerts at the
// top of the main container.
package notify

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity selects the notification style.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Danger  Severity = "danger"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case Info, Success, Danger:
		return true
	}
	return false
}

// DefaultLifetime is how long a notification stays before it expires.
const DefaultLifetime = 5 * time.Second

// Notifier shows one notification and returns its element id.
type Notifier interface {
	Notify(message string, sev Severity) string
}

// expiry tracks auto-removal timers so a manual dismiss can stop them.
type expiry struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func (x *expiry) schedule(id string, after time.Duration, fn func()) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.timers == nil {
		x.timers = make(map[string]*time.Timer)
	}
	x.timers[id] = time.AfterFunc(after, func() {
		x.mu.Lock()
		delete(x.timers, id)
		x.mu.Unlock()
		fn()
	})
}

func (x *expiry) cancel(id string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if t, ok := x.timers[id]; ok {
		t.Stop()
		delete(x.timers, id)
	}
}

func (x *expiry) pending() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.timers)
}

func newID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

func severityOrInfo(sev Severity) Severity {
	if !sev.Valid() {
		log.Printf("[notify] Unknown severity %q, using info", sev)
		return Info
	}
	return sev
}
