// Package highlight tracks which text ranges currently carry which highlight
// kind and mirrors them onto the rendering surface.
package highlight

import (
	"go.uber.org/zap"

	"github.com/csheth/elementscout/internal/markup"
)

// Kind is a semantic label for a visual treatment. How a kind actually looks
// is the surface's concern, driven by configuration, not by this package.
type Kind string

const (
	KindHover    Kind = "hover"
	KindSelected Kind = "selected"
	KindDrag     Kind = "drag"
)

// Kinds lists every highlight kind in a stable order.
var Kinds = []Kind{KindHover, KindSelected, KindDrag}

// Surface is the narrow slice of the rendering surface the manager needs:
// apply or remove a named style over a text range. Calls are fire-and-forget
// and must never fail the caller.
type Surface interface {
	ApplyStyle(kind Kind, r markup.TextRange)
	RemoveStyle(kind Kind)
}

// Manager keeps at most one active range per highlight kind. A new highlight
// of a kind replaces the previous one of that kind.
type Manager struct {
	index   *markup.Index
	surface Surface
	logger  *zap.Logger
	active  map[Kind]markup.TextRange
}

// NewManager wires the manager to an element index and a surface. Both may
// be swapped later when a new document loads.
func NewManager(index *markup.Index, surface Surface, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		index:   index,
		surface: surface,
		logger:  logger,
		active:  map[Kind]markup.TextRange{},
	}
}

// SetIndex points the manager at the index of a freshly loaded document and
// drops every active highlight, which would reference stale offsets.
func (m *Manager) SetIndex(index *markup.Index) {
	m.ClearAll()
	m.index = index
}

// Highlight marks the element's range with the given kind. An element with
// no known range clears the kind and is otherwise skipped.
func (m *Manager) Highlight(element *markup.Element, kind Kind) {
	m.Clear(kind)
	if element == nil || m.index == nil {
		return
	}
	r, ok := m.index.RangeOf(element.ID)
	if !ok {
		m.logger.Debug("highlight skipped, element has no range",
			zap.String("kind", string(kind)),
			zap.String("tag", element.Tag))
		return
	}
	m.apply(kind, r)
}

// HighlightRange marks a raw text range with the given kind. Reversed
// endpoints are normalized. Used for the live drag span, which has no single
// owning element.
func (m *Manager) HighlightRange(r markup.TextRange, kind Kind) {
	m.Clear(kind)
	m.apply(kind, r.Normalize())
}

func (m *Manager) apply(kind Kind, r markup.TextRange) {
	m.active[kind] = r
	if m.surface != nil {
		m.surface.ApplyStyle(kind, r)
	}
}

// Clear removes the active highlight of one kind.
func (m *Manager) Clear(kind Kind) {
	if _, ok := m.active[kind]; !ok {
		return
	}
	delete(m.active, kind)
	if m.surface != nil {
		m.surface.RemoveStyle(kind)
	}
}

// ClearAll removes every active highlight.
func (m *Manager) ClearAll() {
	for _, kind := range Kinds {
		m.Clear(kind)
	}
}

// Active returns the currently highlighted range for a kind.
func (m *Manager) Active(kind Kind) (markup.TextRange, bool) {
	r, ok := m.active[kind]
	return r, ok
}
