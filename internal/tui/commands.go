package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/elementscout/internal/analyze"
	"github.com/csheth/elementscout/internal/classify"
	"github.com/csheth/elementscout/internal/fetch"
	"github.com/csheth/elementscout/internal/plugin"
	"github.com/csheth/elementscout/internal/selection"
)

func fetchPageCmd(client *fetch.Client, pageURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
		defer cancel()
		text, err := client.Page(ctx, pageURL)
		if err != nil {
			return pageResultMsg{url: pageURL, err: err}
		}
		structure, err := analyze.Page(text)
		if err != nil {
			return pageResultMsg{url: pageURL, err: err}
		}
		return pageResultMsg{url: pageURL, text: text, structure: structure}
	}
}

// exportRecord is the on-disk shape of one saved selection.
type exportRecord struct {
	Name       string            `json:"name"`
	SavedAt    time.Time         `json:"saved_at"`
	Category   classify.Category `json:"category"`
	Confidence float64           `json:"confidence"`
	Selectors  []string          `json:"selectors"`
	Tags       []string          `json:"tags"`
}

type exportDocument struct {
	URL        string            `json:"url"`
	ExportedAt time.Time         `json:"exported_at"`
	Page       analyze.Structure `json:"page"`
	Selections []exportRecord    `json:"selections"`
}

func exportHistoryCmd(host *plugin.Host, pageURL string, structure analyze.Structure, history []selection.Selection) tea.Cmd {
	records := make([]exportRecord, 0, len(history))
	for _, saved := range history {
		tags := make([]string, 0, len(saved.Elements))
		for _, el := range saved.Elements {
			tags = append(tags, el.Tag)
		}
		records = append(records, exportRecord{
			Name:       saved.Name,
			SavedAt:    saved.SavedAt,
			Category:   saved.Category,
			Confidence: saved.Confidence,
			Selectors:  saved.Selectors,
			Tags:       tags,
		})
	}
	return func() tea.Msg {
		const format = "json"
		export, ok := host.Exporter(format)
		if !ok {
			return exportResultMsg{format: format, err: fmt.Errorf("no exporter registered for %q", format)}
		}
		payload, err := export(exportDocument{URL: pageURL, ExportedAt: time.Now(), Page: structure, Selections: records})
		if err != nil {
			return exportResultMsg{format: format, err: fmt.Errorf("export history: %w", err)}
		}
		path := fmt.Sprintf("elementscout-history-%s.json", time.Now().Format("20060102-150405"))
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return exportResultMsg{format: format, err: fmt.Errorf("write %s: %w", path, err)}
		}
		return exportResultMsg{format: format, path: path}
	}
}
