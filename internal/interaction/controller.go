// Package interaction drives the pointer/keyboard state machine that turns
// raw surface events into selection and highlight changes.
package interaction

import (
	"go.uber.org/zap"

	"github.com/csheth/elementscout/internal/highlight"
	"github.com/csheth/elementscout/internal/markup"
	"github.com/csheth/elementscout/internal/selection"
)

// State is the controller's position in the interaction state machine.
type State int

const (
	StateDisabled State = iota
	StateIdle
	StateHovering
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateIdle:
		return "idle"
	case StateHovering:
		return "hovering"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Controller consumes pointer and keyboard events, resolves positions to
// elements through the index, and mutates the selection and highlight
// managers. All methods run synchronously on the event-delivery goroutine;
// there is exactly one logical writer.
type Controller struct {
	logger     *zap.Logger
	index      *markup.Index
	selection  *selection.Manager
	highlights *highlight.Manager

	state      State
	dragAnchor int
	hasAnchor  bool
	hover      *markup.Element
}

// NewController starts in the Disabled state.
func NewController(index *markup.Index, sel *selection.Manager, highlights *highlight.Manager, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		logger:     logger,
		index:      index,
		selection:  sel,
		highlights: highlights,
		state:      StateDisabled,
	}
}

// State returns the current state-machine state.
func (c *Controller) State() State {
	return c.state
}

// Enabled reports whether the controller is accepting events.
func (c *Controller) Enabled() bool {
	return c.state != StateDisabled
}

// Enable moves Disabled to Idle. Enabling an already enabled controller is a
// no-op.
func (c *Controller) Enable() {
	if c.state != StateDisabled {
		return
	}
	c.transition(StateIdle)
}

// Disable moves any state to Disabled, immediately: every highlight is
// cleared and an in-progress drag is abandoned. The selected set survives so
// callers can still read the final selection after leaving interactive mode.
func (c *Controller) Disable() {
	if c.state == StateDisabled {
		return
	}
	c.highlights.ClearAll()
	c.hover = nil
	c.hasAnchor = false
	c.transition(StateDisabled)
}

// SetIndex rebinds the controller to a freshly built index, resetting
// selection, highlights, and any in-flight interaction.
func (c *Controller) SetIndex(index *markup.Index) {
	c.index = index
	c.highlights.SetIndex(index)
	c.selection.Clear()
	c.hover = nil
	c.hasAnchor = false
	if c.state != StateDisabled {
		c.transition(StateIdle)
	}
}

// PointerMove tracks the element under the pointer. While dragging it
// repaints the live drag span instead.
func (c *Controller) PointerMove(pos int) {
	switch c.state {
	case StateIdle, StateHovering:
		element, ok := c.index.LookupAt(pos)
		if !ok || element == c.hover {
			return
		}
		c.hover = element
		c.highlights.Highlight(element, highlight.KindHover)
		c.selection.NotifyHovered(element)
		if c.state == StateIdle {
			c.transition(StateHovering)
		}
	case StateDragging:
		if c.hasAnchor {
			c.highlights.HighlightRange(markup.NewRange(c.dragAnchor, pos), highlight.KindDrag)
		}
	}
}

// PointerDown anchors a drag on the element under the pointer and selects
// it. With no element under the pointer the state is unchanged.
func (c *Controller) PointerDown(pos int) {
	if c.state != StateIdle && c.state != StateHovering {
		return
	}
	element, ok := c.index.LookupAt(pos)
	if !ok {
		return
	}
	c.dragAnchor = pos
	c.hasAnchor = true
	c.selection.Add(element)
	c.highlights.Highlight(element, highlight.KindSelected)
	c.selection.NotifyClicked(element)
	c.transition(StateDragging)
}

// PointerUp completes a drag: every indexed element whose range overlaps the
// normalized anchor-to-release span is selected, in index order.
func (c *Controller) PointerUp(pos int) {
	if c.state != StateDragging {
		return
	}
	if c.hasAnchor {
		span := markup.NewRange(c.dragAnchor, pos)
		var first *markup.Element
		for _, entry := range c.index.Entries() {
			if !entry.Range.Overlaps(span) {
				continue
			}
			c.selection.Add(entry.Element)
			if first == nil {
				first = entry.Element
			}
		}
		if first != nil {
			c.highlights.Highlight(first, highlight.KindSelected)
		}
	}
	c.highlights.Clear(highlight.KindDrag)
	c.hasAnchor = false
	c.transition(StateIdle)
}

// PointerLeave clears the hover treatment when the pointer exits the
// surface. Selection and drag state are untouched.
func (c *Controller) PointerLeave() {
	if c.state == StateDisabled {
		return
	}
	c.highlights.Clear(highlight.KindHover)
	c.hover = nil
	if c.state == StateHovering {
		c.transition(StateIdle)
	}
}

// EscapePressed clears the full selection and every highlight and returns to
// Idle.
func (c *Controller) EscapePressed() {
	if c.state == StateDisabled {
		return
	}
	c.selection.Clear()
	c.highlights.ClearAll()
	c.hover = nil
	c.hasAnchor = false
	c.transition(StateIdle)
}

// SelectAll adds every indexed element to the selection in index order.
func (c *Controller) SelectAll() {
	if c.state == StateDisabled {
		return
	}
	elements := c.index.Elements()
	for _, element := range elements {
		c.selection.Add(element)
	}
	c.highlights.ClearAll()
	if len(elements) > 0 {
		c.highlights.Highlight(elements[0], highlight.KindSelected)
	}
}

// DeselectAll clears the selection and every highlight.
func (c *Controller) DeselectAll() {
	if c.state == StateDisabled {
		return
	}
	c.selection.Clear()
	c.highlights.ClearAll()
	c.hover = nil
}

// HoverElement returns the element currently under the pointer.
func (c *Controller) HoverElement() (*markup.Element, bool) {
	return c.hover, c.hover != nil
}

// GetCurrentSelection materializes the current selection.
func (c *Controller) GetCurrentSelection() selection.Selection {
	return c.selection.Selection()
}

// RegisterSelectionCallback subscribes to selection changes.
func (c *Controller) RegisterSelectionCallback(fn selection.SelectionObserver) {
	c.selection.OnSelectionChanged(fn)
}

// RegisterHoverCallback subscribes to hover events.
func (c *Controller) RegisterHoverCallback(fn selection.ElementObserver) {
	c.selection.OnElementHovered(fn)
}

// RegisterClickCallback subscribes to click events.
func (c *Controller) RegisterClickCallback(fn selection.ElementObserver) {
	c.selection.OnElementClicked(fn)
}

// SaveSelection snapshots the current selection into the history.
func (c *Controller) SaveSelection(name string) bool {
	return c.selection.Save(name)
}

// SelectionHistory returns the saved snapshots, oldest first.
func (c *Controller) SelectionHistory() []selection.Selection {
	return c.selection.History()
}

// ClearSelectionHistory discards every saved snapshot.
func (c *Controller) ClearSelectionHistory() {
	c.selection.ClearHistory()
}

func (c *Controller) transition(next State) {
	if next == c.state {
		return
	}
	c.logger.Debug("state transition",
		zap.Stringer("from", c.state),
		zap.Stringer("to", next))
	c.state = next
}
