package plugin

import (
	"strings"
	"testing"
)

func TestParserDomainMatching(t *testing.T) {
	h := NewHost(nil)
	if err := h.RegisterParser("news.example.com", func(html, url string) (any, error) {
		return "news", nil
	}); err != nil {
		t.Fatalf("RegisterParser: %v", err)
	}
	if err := h.RegisterParser("*.shop.example.com", func(html, url string) (any, error) {
		return "shop", nil
	}); err != nil {
		t.Fatalf("RegisterParser: %v", err)
	}

	cases := []struct {
		url  string
		want string
		hit  bool
	}{
		{"https://news.example.com/story/1", "news", true},
		{"https://shop.example.com/item", "shop", true},
		{"https://eu.shop.example.com/item", "shop", true},
		{"https://other.example.com/", "", false},
		{"not a url", "", false},
	}
	for _, tc := range cases {
		fn, ok := h.ParserFor(tc.url)
		if ok != tc.hit {
			t.Fatalf("ParserFor(%q) hit = %v, want %v", tc.url, ok, tc.hit)
		}
		if !ok {
			continue
		}
		got, err := fn("", tc.url)
		if err != nil || got != tc.want {
			t.Fatalf("ParserFor(%q) resolved the wrong parser: %v, %v", tc.url, got, err)
		}
	}
}

func TestEarlierParserWinsOnOverlap(t *testing.T) {
	h := NewHost(nil)
	_ = h.RegisterParser("*.example.com", func(html, url string) (any, error) { return "wide", nil })
	_ = h.RegisterParser("news.example.com", func(html, url string) (any, error) { return "narrow", nil })

	fn, ok := h.ParserFor("https://news.example.com/")
	if !ok {
		t.Fatal("expected a parser")
	}
	got, _ := fn("", "")
	if got != "wide" {
		t.Fatalf("first registration should win, got %v", got)
	}
}

func TestRegisterRejectsInvalidEntries(t *testing.T) {
	h := NewHost(nil)
	if err := h.RegisterParser("", func(html, url string) (any, error) { return nil, nil }); err == nil {
		t.Fatal("empty pattern should be rejected")
	}
	if err := h.RegisterParser("example.com", nil); err == nil {
		t.Fatal("nil parser should be rejected")
	}
	if err := h.RegisterFilter("", nil); err == nil {
		t.Fatal("empty filter name should be rejected")
	}
	if err := h.RegisterExporter("csv", nil); err == nil {
		t.Fatal("nil exporter should be rejected")
	}
}

func TestBuiltinJSONExporter(t *testing.T) {
	h := NewHost(nil)
	fn, ok := h.Exporter("json")
	if !ok {
		t.Fatal("json exporter should ship registered")
	}
	out, err := fn(map[string]string{"selector": "#main"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(out), `"selector": "#main"`) {
		t.Fatalf("unexpected export payload: %s", out)
	}
}

func TestFiltersRoundTrip(t *testing.T) {
	h := NewHost(nil)
	_ = h.RegisterFilter("upper", func(data any) (any, error) {
		return strings.ToUpper(data.(string)), nil
	})
	fn, ok := h.Filter("upper")
	if !ok {
		t.Fatal("filter should resolve by name")
	}
	got, err := fn("abc")
	if err != nil || got != "ABC" {
		t.Fatalf("filter result = %v, %v", got, err)
	}
	if _, ok := h.Filter("missing"); ok {
		t.Fatal("unknown filter should miss")
	}
}

func TestFormatsSorted(t *testing.T) {
	h := NewHost(nil)
	_ = h.RegisterExporter("yaml", func(v any) ([]byte, error) { return nil, nil })
	_ = h.RegisterExporter("csv", func(v any) ([]byte, error) { return nil, nil })
	formats := h.Formats()
	want := []string{"csv", "json", "yaml"}
	if len(formats) != len(want) {
		t.Fatalf("formats = %v, want %v", formats, want)
	}
	for i := range want {
		if formats[i] != want[i] {
			t.Fatalf("formats = %v, want %v", formats, want)
		}
	}
}
