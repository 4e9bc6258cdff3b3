package selection

import (
	"testing"

	"github.com/csheth/elementscout/internal/classify"
	"github.com/csheth/elementscout/internal/markup"
)

func element(tag string, attrs map[string]string) *markup.Element {
	return &markup.Element{Tag: tag, Attrs: attrs}
}

func TestAddIsIdempotent(t *testing.T) {
	m := NewManager(nil)
	fired := 0
	m.OnSelectionChanged(func(Selection) { fired++ })

	el := element("p", nil)
	if !m.Add(el) {
		t.Fatal("first add should change the selection")
	}
	if m.Add(el) {
		t.Fatal("second add of the same element should be a no-op")
	}
	if m.Len() != 1 {
		t.Fatalf("selection holds %d elements, want 1", m.Len())
	}
	if fired != 1 {
		t.Fatalf("selection_changed fired %d times, want 1", fired)
	}
}

func TestRemoveAndClearFireOnlyOnChange(t *testing.T) {
	m := NewManager(nil)
	fired := 0
	m.OnSelectionChanged(func(Selection) { fired++ })

	a := element("a", nil)
	b := element("p", nil)
	m.Add(a)
	m.Add(b)

	if m.Remove(element("span", nil)) {
		t.Fatal("removing an unselected element should be a no-op")
	}
	if !m.Remove(a) {
		t.Fatal("removing a selected element should succeed")
	}
	if !m.Clear() {
		t.Fatal("clearing a non-empty selection should succeed")
	}
	if m.Clear() {
		t.Fatal("clearing an empty selection should be a no-op")
	}
	if fired != 4 { // two adds, one remove, one clear
		t.Fatalf("selection_changed fired %d times, want 4", fired)
	}
}

func TestSelectionPreservesInsertionOrder(t *testing.T) {
	m := NewManager(nil)
	first := element("a", map[string]string{"id": "one"})
	second := element("a", map[string]string{"id": "two"})
	m.Add(second)
	m.Add(first)

	snapshot := m.Selection()
	if snapshot.Selectors[0] != "#two" || snapshot.Selectors[1] != "#one" {
		t.Fatalf("selectors out of insertion order: %v", snapshot.Selectors)
	}
}

func TestEmptySelectionSnapshot(t *testing.T) {
	m := NewManager(nil)
	snapshot := m.Selection()
	if snapshot.Category != classify.CategoryEmpty {
		t.Fatalf("category = %s, want empty", snapshot.Category)
	}
	if snapshot.Confidence != 0.0 {
		t.Fatalf("confidence = %v, want 0", snapshot.Confidence)
	}
	if len(snapshot.Selectors) != 0 {
		t.Fatalf("selectors = %v, want none", snapshot.Selectors)
	}
}

func TestSaveSkipsEmptySelection(t *testing.T) {
	m := NewManager(nil)
	if m.Save("nothing") {
		t.Fatal("saving an empty selection should be rejected")
	}

	m.Add(element("p", nil))
	if !m.Save("para") {
		t.Fatal("saving a non-empty selection should succeed")
	}

	history := m.History()
	if len(history) != 1 {
		t.Fatalf("history holds %d entries, want 1", len(history))
	}
	if history[0].Name != "para" {
		t.Fatalf("saved name = %q", history[0].Name)
	}
	if history[0].SavedAt.IsZero() {
		t.Fatal("saved snapshot missing timestamp")
	}

	m.ClearHistory()
	if len(m.History()) != 0 {
		t.Fatal("history should be empty after ClearHistory")
	}
}

func TestPanickingObserverDoesNotBlockOthers(t *testing.T) {
	m := NewManager(nil)
	m.OnSelectionChanged(func(Selection) { panic("boom") })
	reached := false
	m.OnSelectionChanged(func(Selection) { reached = true })

	m.Add(element("p", nil))
	if !reached {
		t.Fatal("observer after the panicking one never ran")
	}
	if m.Len() != 1 {
		t.Fatal("triggering operation should still complete")
	}
}

func TestHoverAndClickNotifications(t *testing.T) {
	m := NewManager(nil)
	var hovered, clicked *markup.Element
	m.OnElementHovered(func(e *markup.Element) { hovered = e })
	m.OnElementClicked(func(e *markup.Element) { clicked = e })

	el := element("a", nil)
	m.NotifyHovered(el)
	m.NotifyClicked(el)
	if hovered != el || clicked != el {
		t.Fatal("hover/click observers did not receive the element")
	}
}
