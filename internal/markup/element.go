package markup

import "strings"

// ElementID is a synthetic identifier assigned while the index is built.
// Two occurrences of structurally identical markup get distinct IDs, so the
// reverse map stays unambiguous even when the tags render to the same text.
type ElementID int

// Element describes a single tag occurrence in the document text.
type Element struct {
	ID    ElementID
	Tag   string
	Attrs map[string]string
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil || e.Attrs == nil {
		return "", false
	}
	value, ok := e.Attrs[name]
	return value, ok
}

// HasAttr reports whether the attribute is present with a non-empty value.
func (e *Element) HasAttr(name string) bool {
	value, ok := e.Attr(name)
	return ok && strings.TrimSpace(value) != ""
}

// Classes splits the class attribute into individual class names.
func (e *Element) Classes() []string {
	value, ok := e.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(value)
}

// TextRange locates a span inside the flat document text. Start never
// exceeds End once normalized; both endpoints count as inside the range.
type TextRange struct {
	Start int
	End   int
}

// NewRange builds a normalized range from two offsets in either order.
func NewRange(a, b int) TextRange {
	return TextRange{Start: a, End: b}.Normalize()
}

// Normalize swaps reversed endpoints so Start <= End always holds.
func (r TextRange) Normalize() TextRange {
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// Len returns the number of offsets covered by the range.
func (r TextRange) Len() int {
	r = r.Normalize()
	return r.End - r.Start
}

// Contains reports whether the offset falls inside the range, endpoints
// included.
func (r TextRange) Contains(pos int) bool {
	r = r.Normalize()
	return r.Start <= pos && pos <= r.End
}

// Overlaps reports whether two ranges share at least one offset. Ranges that
// merely touch at an endpoint count as overlapping.
func (r TextRange) Overlaps(other TextRange) bool {
	r = r.Normalize()
	other = other.Normalize()
	return !(r.End < other.Start || other.End < r.Start)
}
