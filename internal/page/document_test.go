package page

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestAbsentElementsAreTolerated(t *testing.T) {
	d := New("aveum-email")

	if !d.SetText("aveum-email", "a@b.c") {
		t.Error("SetText on present id returned false")
	}
	if d.SetText("device-id", "x") {
		t.Error("SetText on absent id returned true")
	}
	if d.SetClass("nope", "badge") || d.SetDisabled("nope", true) || d.ScrollToBottom("nope") {
		t.Error("setters on absent id should return false")
	}

	e, ok := d.Get("aveum-email")
	if !ok || e.Text != "a@b.c" {
		t.Errorf("Get = %+v, %v", e, ok)
	}
}

func TestAppendPrependRemove(t *testing.T) {
	d := New("container")

	if err := d.Append("container", Element{ID: "a", Tag: "div"}); err != nil {
		t.Fatal(err)
	}
	if err := d.Append("container", Element{ID: "b", Tag: "div"}); err != nil {
		t.Fatal(err)
	}
	if err := d.Prepend("container", Element{ID: "c", Tag: "div"}); err != nil {
		t.Fatal(err)
	}

	kids := d.Children("container")
	got := []string{}
	for _, k := range kids {
		got = append(got, k.ID)
	}
	if len(got) != 3 || got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Fatalf("children = %v, want [c a b]", got)
	}

	if err := d.Append("missing", Element{ID: "z"}); !errors.Is(err, ErrNoElement) {
		t.Errorf("Append to missing parent: %v", err)
	}
	if err := d.Append("container", Element{ID: "a"}); err == nil {
		t.Error("duplicate id accepted")
	}

	if !d.Remove("a") {
		t.Fatal("Remove(a) = false")
	}
	if d.Has("a") {
		t.Error("a still present")
	}
	if len(d.Children("container")) != 2 {
		t.Errorf("children after remove = %d", len(d.Children("container")))
	}
	if d.Remove("a") {
		t.Error("second Remove returned true")
	}
	if d.Remove(BodyID) {
		t.Error("body removed")
	}
}

func TestRemoveDropsSubtree(t *testing.T) {
	d := New("outer")
	d.Append("outer", Element{ID: "inner"})
	d.Append("inner", Element{ID: "leaf"})

	d.Remove("outer")
	if d.Has("inner") || d.Has("leaf") {
		t.Error("subtree survived removal")
	}
}

func TestSubscribeSeesChangesInOrder(t *testing.T) {
	d := New("x")
	var mu sync.Mutex
	var kinds []ChangeKind
	d.Subscribe(func(c Change) {
		mu.Lock()
		kinds = append(kinds, c.Kind)
		mu.Unlock()
	})

	d.SetText("x", "1")
	d.SetText("x", "1") // unchanged, no event
	d.Append("x", Element{ID: "y"})
	d.Remove("y")

	mu.Lock()
	defer mu.Unlock()
	want := []ChangeKind{ChangeUpdate, ChangeInsert, ChangeRemove}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestClick(t *testing.T) {
	d := NewFromSpecs(Spec{ID: "start-mining", Tag: "button"}, Spec{ID: "stop-mining", Tag: "button"})

	fired := make(chan string, 2)
	d.OnClick("start-mining", func() { fired <- "start" })

	if err := d.Click("start-mining"); err != nil {
		t.Fatalf("Click: %v", err)
	}
	select {
	case got := <-fired:
		if got != "start" {
			t.Errorf("fired %s", got)
		}
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}

	d.SetDisabled("start-mining", true)
	if err := d.Click("start-mining"); !errors.Is(err, ErrDisabled) {
		t.Errorf("click on disabled: %v", err)
	}
	if err := d.Click("stop-mining"); !errors.Is(err, ErrNotBound) {
		t.Errorf("click on unbound: %v", err)
	}
	if err := d.Click("check-ban"); !errors.Is(err, ErrNoElement) {
		t.Errorf("click on absent: %v", err)
	}
	if d.OnClick("check-ban", func() {}) {
		t.Error("OnClick on absent id returned true")
	}
}

func TestElementsIsACopy(t *testing.T) {
	d := New("x")
	d.SetAttr("x", "role", "alert")

	els := d.Elements()
	if len(els) != 2 || els[0].ID != BodyID || els[1].ID != "x" {
		t.Fatalf("Elements = %+v", els)
	}
	els[1].Attrs["role"] = "changed"

	e, _ := d.Get("x")
	if e.Attrs["role"] != "alert" {
		t.Error("mutating a copy changed the document")
	}
}
