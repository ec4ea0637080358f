package notify

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/b0ase/path402/apps/aveumdash/internal/page"
)

const (
	ToastContainerID    = "toast-container"
	toastContainerClass = "toast-container position-fixed bottom-0 end-0 p-3"
)

// Toaster appends toasts to the toast container, creating the container
// under body the first time it is missing. Toasts hide themselves after the
// lifetime and are removed once hidden.
type Toaster struct {
	doc      *page.Document
	lifetime time.Duration
	timers   expiry
}

// NewToaster creates a toaster. lifetime <= 0 uses DefaultLifetime.
func NewToaster(doc *page.Document, lifetime time.Duration) *Toaster {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Toaster{doc: doc, lifetime: lifetime}
}

// Notify shows a toast and returns its element id, or "" if it could not be
// placed.
func (t *Toaster) Notify(message string, sev Severity) string {
	sev = severityOrInfo(sev)
	id := newID("toast")
	el := page.Element{
		ID:    id,
		Tag:   "div",
		Text:  message,
		Class: "toast align-items-center text-white bg-" + string(sev) + " border-0",
		Attrs: map[string]string{
			"role":        "alert",
			"aria-live":   "assertive",
			"aria-atomic": "true",
		},
	}

	err := t.doc.Append(ToastContainerID, el)
	if errors.Is(err, page.ErrNoElement) {
		t.ensureContainer()
		err = t.doc.Append(ToastContainerID, el)
	}
	if err != nil {
		log.Printf("[notify] Toast dropped: %v", err)
		return ""
	}

	closeID := id + "-close"
	t.doc.Append(id, page.Element{
		ID:    closeID,
		Tag:   "button",
		Class: "btn-close btn-close-white me-2 m-auto",
		Attrs: map[string]string{"data-bs-dismiss": "toast", "aria-label": "Close"},
	})
	t.doc.OnClick(closeID, func() { t.Dismiss(id) })

	t.timers.schedule(id, t.lifetime, func() { t.doc.Remove(id) })
	return id
}

// ensureContainer creates the toast container. A concurrent creator may win
// the race; the duplicate error is harmless.
func (t *Toaster) ensureContainer() {
	err := t.doc.Append(page.BodyID, page.Element{
		ID:    ToastContainerID,
		Tag:   "div",
		Class: toastContainerClass,
	})
	if err == nil {
		log.Println("[notify] Created toast container")
	}
}

// Dismiss hides and removes a toast before it expires. Ids that are not
// toasts are left alone.
func (t *Toaster) Dismiss(id string) bool {
	if !strings.HasPrefix(id, "toast-") {
		return false
	}
	t.timers.cancel(id)
	return t.doc.Remove(id)
}

// Pending returns the number of toasts still waiting to expire.
func (t *Toaster) Pending() int {
	return t.timers.pending()
}
