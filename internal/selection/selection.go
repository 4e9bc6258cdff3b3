// Package selection owns the set of currently selected elements, the
// selection history, and the observer registry.
package selection

import (
	"time"

	"go.uber.org/zap"

	"github.com/csheth/elementscout/internal/classify"
	"github.com/csheth/elementscout/internal/markup"
)

// Selection is the materialized result of the currently chosen elements.
type Selection struct {
	Elements   []*markup.Element
	Selectors  []string
	Category   classify.Category
	Confidence float64
	Name       string
	SavedAt    time.Time
}

// Len reports how many elements the snapshot holds.
func (s Selection) Len() int {
	return len(s.Elements)
}

// EventKind names the closed set of selection events observers can watch.
type EventKind int

const (
	EventSelectionChanged EventKind = iota
	EventElementHovered
	EventElementClicked
)

func (k EventKind) String() string {
	switch k {
	case EventSelectionChanged:
		return "selection_changed"
	case EventElementHovered:
		return "element_hovered"
	case EventElementClicked:
		return "element_clicked"
	default:
		return "unknown"
	}
}

// SelectionObserver receives the new selection snapshot after each change.
type SelectionObserver func(Selection)

// ElementObserver receives the element a hover or click event landed on.
type ElementObserver func(*markup.Element)

// Manager tracks selected elements in insertion order without duplicates.
// Element identity is reference identity: the same pointer the index handed
// out, never text equality.
type Manager struct {
	logger   *zap.Logger
	elements []*markup.Element
	history  []Selection

	selectionObservers []SelectionObserver
	hoverObservers     []ElementObserver
	clickObservers     []ElementObserver
}

// NewManager returns an empty selection manager. A nil logger disables
// observer failure logging.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// Add appends the element to the selection. Adding an element that is
// already selected is a no-op and fires nothing.
func (m *Manager) Add(element *markup.Element) bool {
	if element == nil || m.Contains(element) {
		return false
	}
	m.elements = append(m.elements, element)
	m.notifySelectionChanged()
	return true
}

// Remove drops the element from the selection if present.
func (m *Manager) Remove(element *markup.Element) bool {
	for i, candidate := range m.elements {
		if candidate == element {
			m.elements = append(m.elements[:i], m.elements[i+1:]...)
			m.notifySelectionChanged()
			return true
		}
	}
	return false
}

// Clear empties the selection. Clearing an already empty selection fires
// nothing.
func (m *Manager) Clear() bool {
	if len(m.elements) == 0 {
		return false
	}
	m.elements = nil
	m.notifySelectionChanged()
	return true
}

// Contains reports whether the element is currently selected.
func (m *Manager) Contains(element *markup.Element) bool {
	for _, candidate := range m.elements {
		if candidate == element {
			return true
		}
	}
	return false
}

// Elements returns the selected elements in insertion order.
func (m *Manager) Elements() []*markup.Element {
	return append([]*markup.Element(nil), m.elements...)
}

// Len returns the number of selected elements.
func (m *Manager) Len() int {
	return len(m.elements)
}

// Selection materializes the current selection: selectors, aggregate
// category, and confidence are computed on demand. With nothing selected the
// result carries category empty, confidence zero, and no selectors.
func (m *Manager) Selection() Selection {
	if len(m.elements) == 0 {
		return Selection{Category: classify.CategoryEmpty, Confidence: 0.0, Selectors: []string{}}
	}
	elements := m.Elements()
	return Selection{
		Elements:   elements,
		Selectors:  classify.Selectors(elements),
		Category:   classify.Aggregate(elements),
		Confidence: classify.Confidence(elements),
	}
}

// Save snapshots the current selection into the history with the given name
// and the current time. Empty selections are not recorded.
func (m *Manager) Save(name string) bool {
	snapshot := m.Selection()
	if len(snapshot.Elements) == 0 {
		return false
	}
	snapshot.Name = name
	snapshot.SavedAt = time.Now()
	m.history = append(m.history, snapshot)
	m.logger.Debug("selection saved",
		zap.String("name", name),
		zap.Int("elements", len(snapshot.Elements)))
	return true
}

// History returns the saved selection snapshots, oldest first.
func (m *Manager) History() []Selection {
	return append([]Selection(nil), m.history...)
}

// ClearHistory discards every saved snapshot.
func (m *Manager) ClearHistory() {
	m.history = nil
}

// OnSelectionChanged subscribes to selection changes. Subscriptions last for
// the manager's lifetime.
func (m *Manager) OnSelectionChanged(fn SelectionObserver) {
	if fn != nil {
		m.selectionObservers = append(m.selectionObservers, fn)
	}
}

// OnElementHovered subscribes to hover events.
func (m *Manager) OnElementHovered(fn ElementObserver) {
	if fn != nil {
		m.hoverObservers = append(m.hoverObservers, fn)
	}
}

// OnElementClicked subscribes to click events.
func (m *Manager) OnElementClicked(fn ElementObserver) {
	if fn != nil {
		m.clickObservers = append(m.clickObservers, fn)
	}
}

// NotifyHovered delivers a hover event to every hover observer.
func (m *Manager) NotifyHovered(element *markup.Element) {
	for _, fn := range m.hoverObservers {
		m.invokeElementObserver(EventElementHovered, fn, element)
	}
}

// NotifyClicked delivers a click event to every click observer.
func (m *Manager) NotifyClicked(element *markup.Element) {
	for _, fn := range m.clickObservers {
		m.invokeElementObserver(EventElementClicked, fn, element)
	}
}

func (m *Manager) notifySelectionChanged() {
	snapshot := m.Selection()
	for _, fn := range m.selectionObservers {
		m.invokeSelectionObserver(fn, snapshot)
	}
}

// A panicking observer is logged and skipped; the remaining observers still
// run and the triggering operation completes.
func (m *Manager) invokeSelectionObserver(fn SelectionObserver, snapshot Selection) {
	defer m.recoverObserver(EventSelectionChanged)
	fn(snapshot)
}

func (m *Manager) invokeElementObserver(kind EventKind, fn ElementObserver, element *markup.Element) {
	defer m.recoverObserver(kind)
	fn(element)
}

func (m *Manager) recoverObserver(kind EventKind) {
	if r := recover(); r != nil {
		m.logger.Error("observer panicked",
			zap.Stringer("event", kind),
			zap.Any("panic", r))
	}
}
