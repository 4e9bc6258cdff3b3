// Package markup maintains the bidirectional mapping between offsets in a
// flat rendering of an HTML document and the elements that own them.
package markup

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// IndexEntry pairs one text range with the element parsed out of it.
type IndexEntry struct {
	Range   TextRange
	Element *Element
}

// Index serves position-to-element and element-to-range lookups for one
// document. It is built once per loaded document and never mutated; a new
// document gets a new index.
type Index struct {
	text    string
	entries []IndexEntry
	byID    map[ElementID]TextRange
}

// BuildIndex scans the document text for tag-delimited spans and parses each
// isolated span into an element descriptor. Spans that do not parse into a
// usable element (closing tags, comments, doctypes, malformed fragments) are
// dropped; construction degrades to a partial mapping rather than failing.
func BuildIndex(text string, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	idx := &Index{
		text: text,
		byID: map[ElementID]TextRange{},
	}

	nextID := ElementID(1)
	for pos := 0; pos < len(text); {
		open := strings.IndexByte(text[pos:], '<')
		if open < 0 {
			break
		}
		open += pos
		end := strings.IndexByte(text[open:], '>')
		if end < 0 {
			break
		}
		end += open
		span := text[open : end+1]
		pos = end + 1

		element, err := parseSpan(span)
		if err != nil {
			logger.Debug("dropping unparseable span",
				zap.Int("offset", open),
				zap.String("span", span),
				zap.Error(err))
			continue
		}
		element.ID = nextID
		nextID++

		r := TextRange{Start: open, End: end + 1}
		idx.entries = append(idx.entries, IndexEntry{Range: r, Element: element})
		idx.byID[element.ID] = r
	}

	logger.Debug("element index built",
		zap.Int("documentBytes", len(text)),
		zap.Int("elements", len(idx.entries)))
	return idx
}

var errNotAnElement = errors.New("span is not a start tag")

func parseSpan(span string) (*Element, error) {
	z := html.NewTokenizer(strings.NewReader(span))
	switch z.Next() {
	case html.StartTagToken, html.SelfClosingTagToken:
		token := z.Token()
		attrs := make(map[string]string, len(token.Attr))
		for _, attr := range token.Attr {
			attrs[attr.Key] = attr.Val
		}
		return &Element{Tag: token.Data, Attrs: attrs}, nil
	default:
		return nil, errNotAnElement
	}
}

// LookupAt returns the element whose range contains the offset. When several
// ranges contain it, the innermost (shortest) one wins.
func (idx *Index) LookupAt(pos int) (*Element, bool) {
	var best *Element
	bestLen := -1
	for _, entry := range idx.entries {
		if !entry.Range.Contains(pos) {
			continue
		}
		if bestLen < 0 || entry.Range.Len() < bestLen {
			best = entry.Element
			bestLen = entry.Range.Len()
		}
	}
	return best, best != nil
}

// RangeOf is the reverse lookup, keyed by the synthetic element ID.
func (idx *Index) RangeOf(id ElementID) (TextRange, bool) {
	r, ok := idx.byID[id]
	return r, ok
}

// Contains reports whether the element belongs to this index.
func (idx *Index) Contains(element *Element) bool {
	if element == nil {
		return false
	}
	_, ok := idx.byID[element.ID]
	return ok
}

// Elements returns every indexed element in document order.
func (idx *Index) Elements() []*Element {
	elements := make([]*Element, 0, len(idx.entries))
	for _, entry := range idx.entries {
		elements = append(elements, entry.Element)
	}
	return elements
}

// Entries returns a copy of the index entries in document order.
func (idx *Index) Entries() []IndexEntry {
	return append([]IndexEntry(nil), idx.entries...)
}

// Len returns the number of indexed elements.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Text returns the document text the index was built from.
func (idx *Index) Text() string {
	return idx.text
}
