package markup

import "testing"

const sampleDocument = `<div id="main" class="wrapper content"><h1>Title</h1><a href="/about">About</a><!-- nav --><img src="logo.png"/></div>`

func TestBuildIndexDropsNonElements(t *testing.T) {
	idx := BuildIndex(sampleDocument, nil)

	tags := []string{}
	for _, element := range idx.Elements() {
		tags = append(tags, element.Tag)
	}
	want := []string{"div", "h1", "a", "img"}
	if len(tags) != len(want) {
		t.Fatalf("indexed tags = %v, want %v", tags, want)
	}
	for i, tag := range want {
		if tags[i] != tag {
			t.Fatalf("indexed tags = %v, want %v", tags, want)
		}
	}
}

func TestBuildIndexAssignsDistinctIDs(t *testing.T) {
	idx := BuildIndex(`<p>one</p><p>two</p>`, nil)
	elements := idx.Elements()
	if len(elements) != 2 {
		t.Fatalf("expected 2 indexed elements, got %d", len(elements))
	}
	if elements[0].ID == elements[1].ID {
		t.Fatalf("identical tags must get distinct IDs, both are %d", elements[0].ID)
	}
	first, ok := idx.RangeOf(elements[0].ID)
	if !ok {
		t.Fatal("reverse lookup missing for first element")
	}
	second, ok := idx.RangeOf(elements[1].ID)
	if !ok {
		t.Fatal("reverse lookup missing for second element")
	}
	if first == second {
		t.Fatalf("both occurrences resolved to the same range %+v", first)
	}
}

func TestLookupAtInnermostWins(t *testing.T) {
	idx := BuildIndex(sampleDocument, nil)

	h1Start := 39 // offset of "<h1>"
	element, ok := idx.LookupAt(h1Start + 1)
	if !ok {
		t.Fatal("expected a lookup hit inside the h1 span")
	}
	if element.Tag != "h1" {
		t.Fatalf("lookup resolved %q, want the innermost tag h1", element.Tag)
	}
}

func TestLookupAtMiss(t *testing.T) {
	idx := BuildIndex(`<p>text</p>`, nil)
	if element, ok := idx.LookupAt(4); ok {
		t.Fatalf("offset between tags should miss, resolved %q", element.Tag)
	}
	if _, ok := idx.LookupAt(9999); ok {
		t.Fatal("offset past the document should miss")
	}
}

func TestRangeOfUnknownID(t *testing.T) {
	idx := BuildIndex(`<p>text</p>`, nil)
	if _, ok := idx.RangeOf(ElementID(42)); ok {
		t.Fatal("unknown ID should not resolve to a range")
	}
}

func TestElementAttrHelpers(t *testing.T) {
	idx := BuildIndex(`<div id="hero" class="big bold" data-testid="hero-card">`, nil)
	elements := idx.Elements()
	if len(elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(elements))
	}
	element := elements[0]

	if id, ok := element.Attr("id"); !ok || id != "hero" {
		t.Fatalf("Attr(id) = %q, %v", id, ok)
	}
	if !element.HasAttr("data-testid") {
		t.Fatal("data-testid should be present")
	}
	classes := element.Classes()
	if len(classes) != 2 || classes[0] != "big" || classes[1] != "bold" {
		t.Fatalf("Classes() = %v", classes)
	}
	if element.HasAttr("href") {
		t.Fatal("href should be absent")
	}
}

func TestRangeOverlapsInclusive(t *testing.T) {
	cases := []struct {
		name string
		a, b TextRange
		want bool
	}{
		{"disjoint", TextRange{0, 5}, TextRange{6, 10}, false},
		{"touching endpoints", TextRange{0, 5}, TextRange{5, 10}, true},
		{"nested", TextRange{0, 10}, TextRange{3, 4}, true},
		{"identical", TextRange{2, 7}, TextRange{2, 7}, true},
	}
	for _, tc := range cases {
		if got := tc.a.Overlaps(tc.b); got != tc.want {
			t.Fatalf("%s: Overlaps(%+v, %+v) = %v, want %v", tc.name, tc.a, tc.b, got, tc.want)
		}
		if got := tc.b.Overlaps(tc.a); got != tc.want {
			t.Fatalf("%s: overlap is not symmetric", tc.name)
		}
	}
}

func TestNormalizeReversedRange(t *testing.T) {
	r := NewRange(25, 5)
	if r.Start != 5 || r.End != 25 {
		t.Fatalf("NewRange(25, 5) = %+v, want start 5 end 25", r)
	}
	if !r.Contains(5) || !r.Contains(25) || r.Contains(26) {
		t.Fatalf("containment wrong for %+v", r)
	}
}
