package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

func (m *model) View() string {
	switch m.stage {
	case stageInput:
		return m.viewInput()
	case stageLoading:
		return m.viewLoading()
	case stageDisplay, stageSaveName:
		return m.viewDisplay()
	default:
		return ""
	}
}

func (m *model) viewInput() string {
	parts := []string{
		titleStyle.Render("ElementScout"),
		taglineStyle.Render(heroTagline),
		"",
		m.urlInput.View(),
		"",
		helperStyle.Render("Enter to fetch, Ctrl+C to quit."),
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return strings.Join(parts, "\n")
}

func (m *model) viewLoading() string {
	return strings.Join([]string{
		titleStyle.Render("ElementScout"),
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), helperStyle.Render(m.infoMessage)),
	}, "\n")
}

// viewDisplay keeps a fixed chrome: exactly headerHeight lines above the
// document and footerHeight below, so pointer rows map straight onto
// document lines.
func (m *model) viewDisplay() string {
	m.refreshViewportIfDirty()

	lines := []string{
		m.titleLine(),
		m.statusLine(),
		"",
	}
	lines = append(lines, m.bodyView())
	lines = append(lines, m.footerLines()...)
	return strings.Join(lines, "\n")
}

func (m *model) titleLine() string {
	state := "enabled"
	if !m.controller.Enabled() {
		state = "disabled"
	}
	left := titleStyle.Render("ElementScout")
	middle := helperStyle.Render(m.pageURL)
	right := stateStyle.Render(fmt.Sprintf("[%s · %s]", m.controller.State(), state))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", middle, "  ", right)
}

func (m *model) statusLine() string {
	line := m.selectorLine()
	return selectorStyle.Render(truncate.StringWithTail(line, maxSelectorLineWidth, "…"))
}

func (m *model) bodyView() string {
	switch {
	case m.historyOpen:
		return m.historyPanel()
	case m.structureOpen:
		return m.structurePanel()
	case m.helpVisible:
		return m.helpPanel()
	default:
		return m.viewport.View()
	}
}

func (m *model) footerLines() []string {
	message := m.infoMessage
	if m.errorMessage != "" {
		message = errorStyle.Render(m.errorMessage)
	} else {
		message = helperStyle.Render(message)
	}
	if m.stage == stageSaveName {
		message = "Name this selection: " + m.nameInput.View()
	}
	hints := helperStyle.Render("click/drag select · e toggle · Ctrl+A all · Ctrl+D none · s save · h history · Tab structure · x export · r new URL · ? help · q quit")
	return []string{message, hints}
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty || m.doc == nil {
		return
	}
	m.viewport.SetContent(m.doc.render(m.active, m.kindStyles))
	m.viewportDirty = false
}

func (m *model) historyPanel() string {
	history := m.controller.SelectionHistory()
	lines := []string{sectionHeaderStyle.Render("Selection History")}
	if len(history) == 0 {
		lines = append(lines, helperStyle.Render("No saved selections yet. Press s after selecting."))
	}
	for i, saved := range history {
		name := saved.Name
		if name == "" {
			name = "(unnamed)"
		}
		lines = append(lines, fmt.Sprintf("%2d. %s  %s · %d elements · %.0f%%",
			i+1, name, saved.Category, saved.Len(), saved.Confidence*100))
		lines = append(lines, helperStyle.Render("    "+strings.Join(saved.Selectors, ", ")))
	}
	lines = append(lines, "", helperStyle.Render("h or Esc to close."))
	return strings.Join(lines, "\n")
}

func (m *model) structurePanel() string {
	lines := []string{sectionHeaderStyle.Render("Page Structure")}
	for _, row := range m.structure.Summary() {
		lines = append(lines, helperStyle.Render(row))
	}
	for _, heading := range m.structure.Headings {
		lines = append(lines, fmt.Sprintf("%sh%d %s", strings.Repeat("  ", heading.Level-1), heading.Level, heading.Text))
	}
	lines = append(lines, "", helperStyle.Render("Tab or Esc to close."))
	return strings.Join(lines, "\n")
}

func (m *model) helpPanel() string {
	lines := []string{
		sectionHeaderStyle.Render("Keys"),
		helperStyle.Render("• move the mouse to hover, click to select, drag across text to select a span of elements."),
		helperStyle.Render("• e toggles interaction, Esc clears the selection, Ctrl+A and Ctrl+D select and deselect everything."),
		helperStyle.Render("• s saves the current selection under a name; h reviews history, x exports it."),
		helperStyle.Render("• Tab shows the analyzed page structure, r loads a new URL, q quits."),
	}
	return strings.Join(lines, "\n")
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("147"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	selectorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	stateStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("72"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)
