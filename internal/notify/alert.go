package notify

import (
	"log"
	"strings"
	"time"

	"github.com/b0ase/path402/apps/aveumdash/internal/page"
)

// MainContainerID is the page's main content container.
const MainContainerID = "container"

// Alerter inserts dismissible alerts as the first child of the main
// container and removes them after the lifetime. Unlike Toaster it never
// creates its container: pages without one drop the alert.
type Alerter struct {
	doc       *page.Document
	container string
	lifetime  time.Duration
	timers    expiry
}

// NewAlerter creates an alerter targeting MainContainerID.
func NewAlerter(doc *page.Document, lifetime time.Duration) *Alerter {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Alerter{doc: doc, container: MainContainerID, lifetime: lifetime}
}

// Notify prepends an alert to the main container and returns its id, or ""
// when the page has no container.
func (a *Alerter) Notify(message string, sev Severity) string {
	sev = severityOrInfo(sev)
	id := newID("alert")
	err := a.doc.Prepend(a.container, page.Element{
		ID:    id,
		Tag:   "div",
		Text:  message,
		Class: "alert alert-" + string(sev) + " alert-dismissible fade show",
	})
	if err != nil {
		log.Printf("[notify] Alert dropped (%s): %v", a.container, err)
		return ""
	}

	closeID := id + "-close"
	a.doc.Append(id, page.Element{
		ID:    closeID,
		Tag:   "button",
		Class: "btn-close",
		Attrs: map[string]string{"data-bs-dismiss": "alert", "aria-label": "Close"},
	})
	a.doc.OnClick(closeID, func() { a.Dismiss(id) })

	a.timers.schedule(id, a.lifetime, func() { a.doc.Remove(id) })
	return id
}

// Dismiss removes an alert before it expires.
func (a *Alerter) Dismiss(id string) bool {
	if !strings.HasPrefix(id, "alert-") {
		return false
	}
	a.timers.cancel(id)
	return a.doc.Remove(id)
}
