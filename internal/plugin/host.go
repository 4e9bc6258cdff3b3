// Package plugin hosts the registration surface for domain-specific parsers,
// post-processing filters, and output exporters. The selection engine never
// calls these; the host hands them to whichever caller owns the data.
package plugin

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ParseFunc turns raw page HTML into domain-specific structured data.
type ParseFunc func(htmlText, pageURL string) (any, error)

// FilterFunc post-processes parsed or exported data.
type FilterFunc func(data any) (any, error)

// ExportFunc serializes a value into an output format.
type ExportFunc func(v any) ([]byte, error)

type parserEntry struct {
	pattern string
	fn      ParseFunc
}

// Host keeps the plugin registries. Registration happens during startup,
// before interactive mode begins; the host is read-only afterwards.
type Host struct {
	logger    *zap.Logger
	parsers   []parserEntry
	filters   map[string]FilterFunc
	exporters map[string]ExportFunc
}

// NewHost returns a host with the built-in JSON exporter registered.
func NewHost(logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Host{
		logger:    logger,
		filters:   map[string]FilterFunc{},
		exporters: map[string]ExportFunc{},
	}
	h.exporters["json"] = func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	}
	return h
}

// RegisterParser binds a parser to a domain pattern. A pattern is either an
// exact hostname or a wildcard like *.example.com, which also matches the
// bare domain. Earlier registrations win when several patterns match.
func (h *Host) RegisterParser(domainPattern string, fn ParseFunc) error {
	domainPattern = strings.ToLower(strings.TrimSpace(domainPattern))
	if domainPattern == "" {
		return fmt.Errorf("empty domain pattern")
	}
	if fn == nil {
		return fmt.Errorf("nil parser for pattern %q", domainPattern)
	}
	h.parsers = append(h.parsers, parserEntry{pattern: domainPattern, fn: fn})
	h.logger.Debug("parser registered", zap.String("pattern", domainPattern))
	return nil
}

// ParserFor resolves the parser registered for the URL's hostname.
func (h *Host) ParserFor(pageURL string) (ParseFunc, bool) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return nil, false
	}
	for _, entry := range h.parsers {
		if matchDomain(entry.pattern, host) {
			return entry.fn, true
		}
	}
	return nil, false
}

func matchDomain(pattern, host string) bool {
	if bare, ok := strings.CutPrefix(pattern, "*."); ok {
		return host == bare || strings.HasSuffix(host, "."+bare)
	}
	return host == pattern
}

// RegisterFilter adds a named filter. Re-registering a name replaces it.
func (h *Host) RegisterFilter(name string, fn FilterFunc) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty filter name")
	}
	if fn == nil {
		return fmt.Errorf("nil filter %q", name)
	}
	h.filters[name] = fn
	h.logger.Debug("filter registered", zap.String("name", name))
	return nil
}

// Filter resolves a filter by name.
func (h *Host) Filter(name string) (FilterFunc, bool) {
	fn, ok := h.filters[name]
	return fn, ok
}

// RegisterExporter adds an exporter for a format. Re-registering a format
// replaces it, including the built-in json exporter.
func (h *Host) RegisterExporter(format string, fn ExportFunc) error {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return fmt.Errorf("empty export format")
	}
	if fn == nil {
		return fmt.Errorf("nil exporter %q", format)
	}
	h.exporters[format] = fn
	h.logger.Debug("exporter registered", zap.String("format", format))
	return nil
}

// Exporter resolves an exporter by format.
func (h *Host) Exporter(format string) (ExportFunc, bool) {
	fn, ok := h.exporters[strings.ToLower(format)]
	return fn, ok
}

// Formats lists the registered export formats, sorted.
func (h *Host) Formats() []string {
	formats := make([]string, 0, len(h.exporters))
	for format := range h.exporters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}
