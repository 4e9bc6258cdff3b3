package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/elementscout/internal/config"
	"github.com/csheth/elementscout/internal/highlight"
	"github.com/csheth/elementscout/internal/markup"
)

// docRender keeps the flat document text split into lines together with the
// byte offset each line starts at, so viewport (row, col) positions translate
// exactly to text offsets. The body is rendered unwrapped; wrapping would
// break the offset mapping.
type docRender struct {
	text       string
	lines      []string
	lineStarts []int
}

func newDocRender(text string) *docRender {
	lines := strings.Split(text, "\n")
	starts := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		starts[i] = offset
		offset += len(line) + 1
	}
	return &docRender{text: text, lines: lines, lineStarts: starts}
}

func (d *docRender) lineCount() int {
	return len(d.lines)
}

// offsetAt translates a content line and column into a text offset. Columns
// past the end of the line clamp to the line's last offset.
func (d *docRender) offsetAt(line, col int) (int, bool) {
	if line < 0 || line >= len(d.lines) {
		return 0, false
	}
	if col < 0 {
		col = 0
	}
	if max := len(d.lines[line]); col > max {
		col = max
	}
	return d.lineStarts[line] + col, true
}

// paint precedence when highlight ranges overlap, lowest first.
var paintOrder = []highlight.Kind{highlight.KindHover, highlight.KindSelected, highlight.KindDrag}

// render rebuilds the viewport content with the active highlight ranges
// styled. Ranges are painted per line so no style spans a newline.
func (d *docRender) render(active map[highlight.Kind]markup.TextRange, styles map[highlight.Kind]lipgloss.Style) string {
	if len(active) == 0 {
		return d.text
	}
	rendered := make([]string, len(d.lines))
	for i, line := range d.lines {
		rendered[i] = d.renderLine(i, line, active, styles)
	}
	return strings.Join(rendered, "\n")
}

func (d *docRender) renderLine(idx int, line string, active map[highlight.Kind]markup.TextRange, styles map[highlight.Kind]lipgloss.Style) string {
	if line == "" {
		return line
	}
	start := d.lineStarts[idx]

	const unpainted = -1
	paint := make([]int, len(line))
	for i := range paint {
		paint[i] = unpainted
	}
	touched := false
	for order, kind := range paintOrder {
		r, ok := active[kind]
		if !ok {
			continue
		}
		lo := r.Start - start
		hi := r.End - start
		if lo < 0 {
			lo = 0
		}
		if hi > len(line) {
			hi = len(line)
		}
		for i := lo; i < hi; i++ {
			paint[i] = order
			touched = true
		}
	}
	if !touched {
		return line
	}

	var b strings.Builder
	segStart := 0
	for i := 1; i <= len(line); i++ {
		if i < len(line) && paint[i] == paint[segStart] {
			continue
		}
		segment := line[segStart:i]
		if order := paint[segStart]; order == unpainted {
			b.WriteString(segment)
		} else {
			b.WriteString(styles[paintOrder[order]].Render(segment))
		}
		segStart = i
	}
	return b.String()
}

// highlightStyles builds one lipgloss style per highlight kind from the
// configured style table.
func highlightStyles(table config.HighlightStyles) map[highlight.Kind]lipgloss.Style {
	styles := make(map[highlight.Kind]lipgloss.Style, len(highlight.Kinds))
	for _, kind := range highlight.Kinds {
		styles[kind] = toLipgloss(table.For(kind))
	}
	return styles
}

func toLipgloss(s config.Style) lipgloss.Style {
	style := lipgloss.NewStyle()
	if s.Foreground != "" {
		style = style.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		style = style.Background(lipgloss.Color(s.Background))
	}
	if s.Bold {
		style = style.Bold(true)
	}
	if s.Underline {
		style = style.Underline(true)
	}
	return style
}
