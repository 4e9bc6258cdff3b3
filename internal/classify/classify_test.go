package classify

import (
	"math"
	"testing"

	"github.com/csheth/elementscout/internal/markup"
)

func element(tag string, attrs map[string]string) *markup.Element {
	return &markup.Element{Tag: tag, Attrs: attrs}
}

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		tag  string
		want Category
	}{
		{"h2", CategoryText},
		{"p", CategoryText},
		{"a", CategoryLink},
		{"img", CategoryImage},
		{"input", CategoryForm},
		{"button", CategoryForm},
		{"td", CategoryTable},
		{"li", CategoryList},
		{"nav", CategoryContainer},
		{"canvas", CategoryOther},
	}
	for _, tc := range cases {
		if got := Classify(element(tc.tag, nil)); got != tc.want {
			t.Fatalf("Classify(%s) = %s, want %s", tc.tag, got, tc.want)
		}
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	if got := Classify(element("IMG", nil)); got != CategoryImage {
		t.Fatalf("Classify(IMG) = %s, want %s", got, CategoryImage)
	}
}

func TestSelectorPriority(t *testing.T) {
	both := element("div", map[string]string{"id": "hero", "class": "big bold"})
	if got := Selector(both); got != "#hero" {
		t.Fatalf("id must beat classes, got %q", got)
	}

	classed := element("div", map[string]string{"class": "big bold", "data-testid": "card"})
	if got := Selector(classed); got != "div.big.bold" {
		t.Fatalf("classes must beat test ID, got %q", got)
	}

	tested := element("span", map[string]string{"data-testid": "price"})
	if got := Selector(tested); got != "[data-testid='price']" {
		t.Fatalf("test ID selector wrong: %q", got)
	}

	bare := element("span", nil)
	if got := Selector(bare); got != "span" {
		t.Fatalf("bare tag fallback wrong: %q", got)
	}
}

func TestSelectorIgnoresBlankAttributes(t *testing.T) {
	// A whitespace-only id is absent for scoring, so it must not produce a
	// selector either; the next priority takes over.
	blankID := element("div", map[string]string{"id": "   ", "class": "big"})
	if got := Selector(blankID); got != "div.big" {
		t.Fatalf("blank id must fall through to classes, got %q", got)
	}
	if Confidence([]*markup.Element{blankID}) != Confidence([]*markup.Element{element("div", map[string]string{"class": "big"})}) {
		t.Fatal("blank id must score the same as no id")
	}

	blankTestID := element("span", map[string]string{"data-testid": " "})
	if got := Selector(blankTestID); got != "span" {
		t.Fatalf("blank test ID must fall through to the tag, got %q", got)
	}

	padded := element("div", map[string]string{"id": " hero "})
	if got := Selector(padded); got != "#hero" {
		t.Fatalf("padded id not trimmed, got %q", got)
	}
}

func TestAggregateFirstMaximumWins(t *testing.T) {
	elements := []*markup.Element{
		element("a", nil),    // link, encountered first
		element("p", nil),    // text
		element("span", nil), // text
		element("img", nil),  // image
		element("a", nil),    // link ties text at 2
	}
	if got := Aggregate(elements); got != CategoryLink {
		t.Fatalf("Aggregate = %s, want link (earliest-encountered category wins ties)", got)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil); got != CategoryEmpty {
		t.Fatalf("Aggregate(nil) = %s, want empty", got)
	}
}

func TestConfidenceBounds(t *testing.T) {
	if got := Confidence(nil); got != 0.0 {
		t.Fatalf("empty selection confidence = %v, want 0", got)
	}

	plain := []*markup.Element{element("div", nil), element("a", nil)}
	got := Confidence(plain)
	if got < 0.5 || got > 1.0 {
		t.Fatalf("confidence %v out of [0.5, 1.0]", got)
	}
}

func TestConfidenceSaturates(t *testing.T) {
	rich := []*markup.Element{
		element("p", map[string]string{"id": "a", "class": "x"}),
		element("p", map[string]string{"id": "b", "class": "y"}),
	}
	// Raw sum would be 0.5 + 0.3 + 0.2 + 0.2 = 1.2; the score must cap at 1.
	if got := Confidence(rich); got != 1.0 {
		t.Fatalf("saturated confidence = %v, want exactly 1.0", got)
	}
}

func TestConfidenceFractions(t *testing.T) {
	mixed := []*markup.Element{
		element("p", map[string]string{"id": "a"}),
		element("p", nil),
	}
	// 0.5 base + 0.3*(1/2) ids + 0 classes + 0.2 uniform = 0.85
	got := Confidence(mixed)
	if math.Abs(got-0.85) > 1e-9 {
		t.Fatalf("confidence = %v, want 0.85", got)
	}
}
