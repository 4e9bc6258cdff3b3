package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/csheth/elementscout/internal/analyze"
	"github.com/csheth/elementscout/internal/classify"
	"github.com/csheth/elementscout/internal/config"
	"github.com/csheth/elementscout/internal/fetch"
	"github.com/csheth/elementscout/internal/highlight"
	"github.com/csheth/elementscout/internal/interaction"
	"github.com/csheth/elementscout/internal/markup"
	"github.com/csheth/elementscout/internal/plugin"
	"github.com/csheth/elementscout/internal/selection"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Settings config.Config
	Fetcher  *fetch.Client
	Plugins  *plugin.Host
	Logger   *zap.Logger
	StartURL string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(cfg Config) tea.Model {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://example.com/page.html"
	urlInput.Focus()
	urlInput.CharLimit = 200
	urlInput.Width = 70

	nameInput := textinput.New()
	nameInput.Placeholder = "selection name"
	nameInput.CharLimit = 80
	nameInput.Width = 50

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = false

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &model{
		config:      cfg,
		logger:      logger,
		stage:       stageInput,
		urlInput:    urlInput,
		nameInput:   nameInput,
		spinner:     spin,
		viewport:    vp,
		kindStyles:  highlightStyles(cfg.Settings.Highlights),
		active:      map[highlight.Kind]markup.TextRange{},
		infoMessage: "Paste a page URL to begin.",
	}
	if cfg.StartURL != "" {
		m.urlInput.SetValue(cfg.StartURL)
	}
	return m
}

type model struct {
	config Config
	logger *zap.Logger
	stage  stage

	urlInput  textinput.Model
	nameInput textinput.Model
	spinner   spinner.Model
	viewport  viewport.Model

	pageURL   string
	doc       *docRender
	index     *markup.Index
	structure analyze.Structure

	selection  *selection.Manager
	highlights *highlight.Manager
	controller *interaction.Controller

	kindStyles map[highlight.Kind]lipgloss.Style
	active     map[highlight.Kind]markup.TextRange

	hovered       *markup.Element
	historyOpen   bool
	structureOpen bool
	helpVisible   bool

	infoMessage   string
	errorMessage  string
	viewportDirty bool
}

type pageResultMsg struct {
	url       string
	text      string
	structure analyze.Structure
	err       error
}

type exportResultMsg struct {
	format string
	path   string
	err    error
}

// ApplyStyle and RemoveStyle make the model the rendering surface the
// highlight manager paints onto.
func (m *model) ApplyStyle(kind highlight.Kind, r markup.TextRange) {
	m.active[kind] = r
	m.markViewportDirty()
}

func (m *model) RemoveStyle(kind highlight.Kind) {
	delete(m.active, kind)
	m.markViewportDirty()
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.stage == stageLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			switch m.stage {
			case stageSaveName:
				m.stage = stageDisplay
				m.nameInput.SetValue("")
				m.nameInput.Blur()
				m.infoMessage = "Save canceled."
				return m, nil
			case stageDisplay:
				if m.historyOpen || m.structureOpen || m.helpVisible {
					m.historyOpen = false
					m.structureOpen = false
					m.helpVisible = false
					return m, nil
				}
				m.controller.EscapePressed()
				m.hovered = nil
				m.infoMessage = "Selection cleared."
				return m, nil
			default:
				return m, tea.Quit
			}
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage != stageDisplay {
			return m, nil
		}
		return m.handleMouse(msg)
	case pageResultMsg:
		return m.handlePageResult(msg)
	case exportResultMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			m.infoMessage = "Export failed."
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Exported %s history to %s.", msg.format, msg.path)
		return m, nil
	case tea.WindowSizeMsg:
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.viewport.Width = newWidth
		height := msg.Height - headerHeight - footerHeight
		if height < 5 {
			height = 5
		}
		m.viewport.Height = height
		m.markViewportDirty()
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageInput:
		if key.Type == tea.KeyEnter {
			target := strings.TrimSpace(m.urlInput.Value())
			if target == "" {
				m.errorMessage = "Enter a page URL first."
				return m, nil
			}
			m.stage = stageLoading
			m.errorMessage = ""
			m.infoMessage = fmt.Sprintf("Fetching %s…", target)
			return m, tea.Batch(m.spinner.Tick, fetchPageCmd(m.config.Fetcher, target))
		}
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(key)
		return m, cmd
	case stageSaveName:
		if key.Type == tea.KeyEnter {
			name := strings.TrimSpace(m.nameInput.Value())
			m.stage = stageDisplay
			m.nameInput.SetValue("")
			m.nameInput.Blur()
			if m.controller.SaveSelection(name) {
				m.infoMessage = fmt.Sprintf("Saved selection %q.", name)
			} else {
				m.infoMessage = "Nothing selected to save."
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(key)
		return m, cmd
	case stageDisplay:
		return m.handleDisplayKey(key)
	}
	return m, nil
}

func (m *model) handleDisplayKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "e":
		if m.controller.Enabled() {
			m.controller.Disable()
			m.hovered = nil
			m.infoMessage = "Interaction disabled. Press e to re-enable."
		} else {
			m.controller.Enable()
			m.infoMessage = "Interaction enabled."
		}
		return m, nil
	case "ctrl+a":
		m.controller.SelectAll()
		m.infoMessage = "Selected all indexed elements."
		return m, nil
	case "ctrl+d":
		m.controller.DeselectAll()
		m.hovered = nil
		m.infoMessage = "Selection cleared."
		return m, nil
	case "s":
		if m.controller.GetCurrentSelection().Len() == 0 {
			m.infoMessage = "Nothing selected to save."
			return m, nil
		}
		m.stage = stageSaveName
		m.nameInput.Focus()
		return m, textinput.Blink
	case "h":
		m.historyOpen = !m.historyOpen
		m.structureOpen = false
		return m, nil
	case "tab":
		m.structureOpen = !m.structureOpen
		m.historyOpen = false
		return m, nil
	case "x":
		history := m.controller.SelectionHistory()
		if len(history) == 0 {
			m.infoMessage = "No saved selections to export."
			return m, nil
		}
		return m, exportHistoryCmd(m.config.Plugins, m.pageURL, m.structure, history)
	case "r":
		m.stage = stageInput
		m.urlInput.SetValue("")
		m.urlInput.Focus()
		m.infoMessage = "Paste a page URL to begin."
		m.errorMessage = ""
		return m, textinput.Blink
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "up", "k":
		m.viewport.LineUp(1)
		return m, nil
	case "down", "j":
		m.viewport.LineDown(1)
		return m, nil
	case "pgup":
		m.viewport.ViewUp()
		return m, nil
	case "pgdown":
		m.viewport.ViewDown()
		return m, nil
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.MouseWheelUp:
		m.viewport.LineUp(3)
		return m, nil
	case tea.MouseWheelDown:
		m.viewport.LineDown(3)
		return m, nil
	}

	if m.historyOpen || m.structureOpen || m.helpVisible {
		return m, nil
	}
	row := msg.Y - headerHeight
	if row < 0 || row >= m.viewport.Height {
		if msg.Type == tea.MouseMotion {
			m.controller.PointerLeave()
			m.hovered = nil
		}
		return m, nil
	}
	offset, ok := m.doc.offsetAt(row+m.viewport.YOffset, msg.X)
	if !ok {
		if msg.Type == tea.MouseMotion {
			m.controller.PointerLeave()
			m.hovered = nil
		}
		return m, nil
	}

	switch msg.Type {
	case tea.MouseMotion:
		m.controller.PointerMove(offset)
	case tea.MouseLeft:
		m.controller.PointerDown(offset)
	case tea.MouseRelease:
		m.controller.PointerUp(offset)
	}
	return m, nil
}

func (m *model) handlePageResult(msg pageResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.stage = stageInput
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Try another URL."
		return m, nil
	}
	m.pageURL = msg.url
	m.doc = newDocRender(msg.text)
	m.index = markup.BuildIndex(msg.text, m.logger)
	m.structure = msg.structure

	m.active = map[highlight.Kind]markup.TextRange{}
	m.selection = selection.NewManager(m.logger)
	m.highlights = highlight.NewManager(m.index, m, m.logger)
	m.controller = interaction.NewController(m.index, m.selection, m.highlights, m.logger)
	m.controller.RegisterHoverCallback(func(el *markup.Element) {
		m.hovered = el
	})
	m.controller.Enable()

	m.stage = stageDisplay
	m.hovered = nil
	m.historyOpen = false
	m.structureOpen = false
	m.viewport.SetYOffset(0)
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Indexed %d elements. Hover, click, or drag to select.", m.index.Len())
	m.markViewportDirty()
	return m, nil
}

// selectorLine summarizes what is under the pointer or selected, in CSS
// selector form.
func (m *model) selectorLine() string {
	snapshot := m.controller.GetCurrentSelection()
	if snapshot.Len() > 0 {
		return fmt.Sprintf("%d selected · %s · %.0f%% · %s",
			snapshot.Len(),
			snapshot.Category,
			snapshot.Confidence*100,
			strings.Join(snapshot.Selectors, ", "))
	}
	if m.hovered != nil {
		return fmt.Sprintf("hover · %s · %s", classify.Classify(m.hovered), classify.Selector(m.hovered))
	}
	return "Hover an element to inspect it."
}
