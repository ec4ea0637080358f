// Package page is an in-memory document of id-addressed elements. The
// renderer writes into it, the command dispatcher binds clicks on it and the
// hosts (web dashboard, tray, MCP, mobile) mirror it.
package page

import (
	"errors"
	"log"
	"sync"
)

// BodyID is the root element every document has.
const BodyID = "body"

var ErrNoElement = errors.New("no such element")

// Element is a copy of one element's state.
type Element struct {
	ID          string            `json:"id"`
	Tag         string            `json:"tag"`
	Text        string            `json:"text"`
	Class       string            `json:"class,omitempty"`
	Disabled    bool              `json:"disabled,omitempty"`
	ScrollToEnd bool              `json:"scroll_to_end,omitempty"`
	Attrs       map[string]string `json:"attrs,omitempty"`
	Parent      string            `json:"parent,omitempty"`
	Children    []string          `json:"children,omitempty"`
}

func (e *Element) clone() Element {
	c := *e
	if e.Attrs != nil {
		c.Attrs = make(map[string]string, len(e.Attrs))
		for k, v := range e.Attrs {
			c.Attrs[k] = v
		}
	}
	if e.Children != nil {
		c.Children = append([]string(nil), e.Children...)
	}
	return c
}

// ChangeKind says what happened to an element.
type ChangeKind string

const (
	ChangeUpdate ChangeKind = "update"
	ChangeInsert ChangeKind = "insert"
	ChangeRemove ChangeKind = "remove"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Kind    ChangeKind `json:"kind"`
	Element Element    `json:"element"`
	// Index is the position among the parent's children for inserts.
	Index int `json:"index,omitempty"`
}

// Document holds every element. All mutations are serialized by one mutex,
// so concurrent writers never interleave within a single update.
type Document struct {
	mu       sync.Mutex
	elements map[string]*Element
	handlers map[string]func()
	subs     []func(Change)
}

// New creates a document with a body and one div per id, all children of
// body in the given order.
func New(ids ...string) *Document {
	specs := make([]Spec, len(ids))
	for i, id := range ids {
		specs[i] = Spec{ID: id, Tag: "div"}
	}
	return NewFromSpecs(specs...)
}

// Spec describes an element to create up front.
type Spec struct {
	ID     string
	Tag    string
	Class  string
	Parent string // defaults to body
}

// NewFromSpecs creates a document from element specs.
func NewFromSpecs(specs ...Spec) *Document {
	d := &Document{
		elements: map[string]*Element{BodyID: {ID: BodyID, Tag: "body"}},
		handlers: make(map[string]func()),
	}
	for _, s := range specs {
		parent := s.Parent
		if parent == "" {
			parent = BodyID
		}
		if _, err := d.insert(parent, Element{ID: s.ID, Tag: s.Tag, Class: s.Class}, false); err != nil {
			log.Printf("[page] Skipping %s: %v", s.ID, err)
		}
	}
	return d
}

// Subscribe registers fn for every later change. Changes are delivered in
// the order they were applied, with the document lock held: fn must not
// call back into the Document and must not block.
func (d *Document) Subscribe(fn func(Change)) {
	d.mu.Lock()
	d.subs = append(d.subs, fn)
	d.mu.Unlock()
}

// emit must be called with d.mu held.
func (d *Document) emit(c Change) {
	for _, fn := range d.subs {
		fn(c)
	}
}

// update applies fn to an element under the lock and notifies subscribers.
func (d *Document) update(id string, fn func(e *Element) bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.elements[id]
	if !ok {
		return false
	}
	if fn(e) {
		d.emit(Change{Kind: ChangeUpdate, Element: e.clone()})
	}
	return true
}

// Has reports whether id exists.
func (d *Document) Has(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.elements[id]
	return ok
}

// Get returns a copy of the element.
func (d *Document) Get(id string) (Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.elements[id]
	if !ok {
		return Element{}, false
	}
	return e.clone(), true
}

// Elements returns copies of all elements in document order (depth first
// from body).
func (d *Document) Elements() []Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Element
	var walk func(id string)
	walk = func(id string) {
		e, ok := d.elements[id]
		if !ok {
			return
		}
		out = append(out, e.clone())
		for _, c := range e.Children {
			walk(c)
		}
	}
	walk(BodyID)
	return out
}

// SetText sets the element's text content. Returns false if id is absent.
func (d *Document) SetText(id, text string) bool {
	return d.update(id, func(e *Element) bool {
		if e.Text == text {
			return false
		}
		e.Text = text
		return true
	})
}

// SetClass replaces the element's class attribute.
func (d *Document) SetClass(id, class string) bool {
	return d.update(id, func(e *Element) bool {
		if e.Class == class {
			return false
		}
		e.Class = class
		return true
	})
}

// SetDisabled sets the disabled flag.
func (d *Document) SetDisabled(id string, disabled bool) bool {
	return d.update(id, func(e *Element) bool {
		if e.Disabled == disabled {
			return false
		}
		e.Disabled = disabled
		return true
	})
}

// ScrollToBottom marks the element as scrolled to its end. Hosts that can
// scroll do so when they see the flag.
func (d *Document) ScrollToBottom(id string) bool {
	return d.update(id, func(e *Element) bool {
		e.ScrollToEnd = true
		return true
	})
}

// SetAttr sets one attribute.
func (d *Document) SetAttr(id, key, value string) bool {
	return d.update(id, func(e *Element) bool {
		if e.Attrs == nil {
			e.Attrs = make(map[string]string)
		}
		if old, ok := e.Attrs[key]; ok && old == value {
			return false
		}
		e.Attrs[key] = value
		return true
	})
}

// Append adds el as the last child of parent.
func (d *Document) Append(parent string, el Element) error {
	_, err := d.insert(parent, el, false)
	return err
}

// Prepend adds el as the first child of parent.
func (d *Document) Prepend(parent string, el Element) error {
	_, err := d.insert(parent, el, true)
	return err
}

func (d *Document) insert(parent string, el Element, first bool) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.elements[parent]
	if !ok {
		return 0, ErrNoElement
	}
	if el.ID == "" {
		return 0, errors.New("element id required")
	}
	if _, exists := d.elements[el.ID]; exists {
		return 0, errors.New("duplicate element id " + el.ID)
	}

	e := el.clone()
	e.Parent = parent
	e.Children = nil
	d.elements[e.ID] = &e

	idx := len(p.Children)
	if first {
		p.Children = append([]string{e.ID}, p.Children...)
		idx = 0
	} else {
		p.Children = append(p.Children, e.ID)
	}
	d.emit(Change{Kind: ChangeInsert, Element: e.clone(), Index: idx})
	return idx, nil
}

// Remove deletes an element and its subtree. Returns false if absent. The
// body cannot be removed.
func (d *Document) Remove(id string) bool {
	if id == BodyID {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.elements[id]
	if !ok {
		return false
	}
	if p, ok := d.elements[e.Parent]; ok {
		for i, c := range p.Children {
			if c == id {
				p.Children = append(p.Children[:i:i], p.Children[i+1:]...)
				break
			}
		}
	}
	var drop func(id string)
	drop = func(id string) {
		if n, ok := d.elements[id]; ok {
			for _, c := range n.Children {
				drop(c)
			}
			delete(d.elements, id)
			delete(d.handlers, id)
		}
	}
	snapshot := e.clone()
	drop(id)
	d.emit(Change{Kind: ChangeRemove, Element: snapshot})
	return true
}

// Children returns copies of parent's children in order.
func (d *Document) Children(parent string) []Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.elements[parent]
	if !ok {
		return nil
	}
	out := make([]Element, 0, len(p.Children))
	for _, c := range p.Children {
		if e, ok := d.elements[c]; ok {
			out = append(out, e.clone())
		}
	}
	return out
}

// OnClick binds fn to clicks on id, replacing any earlier binding. Returns
// false if id is absent.
func (d *Document) OnClick(id string, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.elements[id]; !ok {
		return false
	}
	d.handlers[id] = fn
	return true
}

// Click runs the bound handler on its own goroutine and returns
// immediately. Disabled, unbound or absent elements ignore the click.
func (d *Document) Click(id string) error {
	d.mu.Lock()
	e, ok := d.elements[id]
	if !ok {
		d.mu.Unlock()
		return ErrNoElement
	}
	fn := d.handlers[id]
	disabled := e.Disabled
	d.mu.Unlock()

	if disabled {
		return ErrDisabled
	}
	if fn == nil {
		return ErrNotBound
	}
	go fn()
	return nil
}

var (
	ErrDisabled = errors.New("element is disabled")
	ErrNotBound = errors.New("no click handler bound")
)
