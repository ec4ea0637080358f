package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/b0ase/path402/apps/aveumdash/internal/client"
	"github.com/b0ase/path402/apps/aveumdash/internal/notify"
)

// Poster sends a bodyless POST and decodes the JSON reply.
type Poster interface {
	Post(ctx context.Context, path string) (*client.ActionResponse, error)
}

// Refresher runs one full poll/render cycle.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// ClickBinder is where the buttons live.
type ClickBinder interface {
	OnClick(id string, fn func()) bool
}

// Result says how a dispatch ended.
type Result string

const (
	ResultSuccess   Result = "success"
	ResultFailure   Result = "failure"
	ResultException Result = "exception"
)

// Outcome describes one dispatch.
type Outcome struct {
	Command  Command
	Result   Result
	Message  string // text of the notification shown
	Reply    *client.ActionResponse
	Err      error
	Rendered bool
}

// Dispatcher issues one action per click. Clicks are independent: nothing
// is debounced, queued or suppressed while another request is in flight.
type Dispatcher struct {
	api      Poster
	toasts   notify.Notifier
	refresh  Refresher
	commands []Command
}

func NewDispatcher(api Poster, toasts notify.Notifier, refresh Refresher) *Dispatcher {
	return &Dispatcher{api: api, toasts: toasts, refresh: refresh, commands: All}
}

// Bind attaches a click handler to every command's button. Missing buttons
// are skipped. Returns the number bound.
func (d *Dispatcher) Bind(b ClickBinder) int {
	n := 0
	for _, c := range d.commands {
		c := c
		ok := b.OnClick(c.ButtonID, func() {
			d.Run(context.Background(), c)
		})
		if ok {
			n++
		} else {
			log.Printf("[commands] No %s button on page, not bound", c.ButtonID)
		}
	}
	return n
}

// Dispatch runs the command bound to buttonID.
func (d *Dispatcher) Dispatch(ctx context.Context, buttonID string) (Outcome, error) {
	c, ok := Lookup(buttonID)
	if !ok {
		return Outcome{}, fmt.Errorf("unknown command %q", buttonID)
	}
	return d.Run(ctx, c), nil
}

// Run posts the command, shows exactly one toast, and on success runs a
// full refresh right away instead of waiting for the next tick.
func (d *Dispatcher) Run(ctx context.Context, c Command) Outcome {
	out := Outcome{Command: c}

	reply, err := d.api.Post(ctx, c.Path)
	if err != nil {
		log.Printf("[commands] Error %s: %v", c.Gerund, err)
		out.Result = ResultException
		out.Err = err
		out.Message = c.ExceptionText()
		d.toasts.Notify(out.Message, notify.Danger)
		return out
	}
	out.Reply = reply

	if !c.Rule.Succeeded(reply) {
		out.Result = ResultFailure
		out.Message = c.FailureText(reply.Error)
		log.Printf("[commands] %s rejected (HTTP %d): %s", c.ButtonID, reply.HTTPStatus, reply.Error)
		d.toasts.Notify(out.Message, notify.Danger)
		return out
	}

	out.Result = ResultSuccess
	out.Message = c.OK
	d.toasts.Notify(out.Message, notify.Success)
	if d.refresh != nil {
		// Refresh logs its own failures.
		out.Rendered = d.refresh.Refresh(ctx) == nil
	}
	return out
}
