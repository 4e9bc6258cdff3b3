// Package classify derives selectors, semantic categories, and confidence
// scores for selected elements.
package classify

import (
	"fmt"
	"strings"

	"github.com/csheth/elementscout/internal/markup"
)

// Category is the semantic bucket an element falls into.
type Category string

const (
	CategoryEmpty     Category = "empty"
	CategoryText      Category = "text"
	CategoryLink      Category = "link"
	CategoryImage     Category = "image"
	CategoryForm      Category = "form"
	CategoryTable     Category = "table"
	CategoryList      Category = "list"
	CategoryContainer Category = "container"
	CategoryOther     Category = "other"
)

var categoryByTag = map[string]Category{
	"p": CategoryText, "span": CategoryText, "div": CategoryText,
	"h1": CategoryText, "h2": CategoryText, "h3": CategoryText,
	"h4": CategoryText, "h5": CategoryText, "h6": CategoryText,
	"a":   CategoryLink,
	"img": CategoryImage,
	"input": CategoryForm, "textarea": CategoryForm,
	"select": CategoryForm, "button": CategoryForm,
	"table": CategoryTable, "tr": CategoryTable,
	"td": CategoryTable, "th": CategoryTable,
	"ul": CategoryList, "ol": CategoryList, "li": CategoryList,
	"section": CategoryContainer, "article": CategoryContainer,
	"aside": CategoryContainer, "nav": CategoryContainer,
	"header": CategoryContainer, "footer": CategoryContainer,
}

// Classify maps an element's tag name to its category.
func Classify(element *markup.Element) Category {
	if element == nil {
		return CategoryOther
	}
	if category, ok := categoryByTag[strings.ToLower(element.Tag)]; ok {
		return category
	}
	return CategoryOther
}

// Aggregate returns the most common category among the elements. Ties break
// toward the category whose winning count was reached first in input order,
// so the result is stable for a given element sequence.
func Aggregate(elements []*markup.Element) Category {
	if len(elements) == 0 {
		return CategoryEmpty
	}
	counts := map[Category]int{}
	var order []Category
	for _, element := range elements {
		category := Classify(element)
		if counts[category] == 0 {
			order = append(order, category)
		}
		counts[category]++
	}
	best := order[0]
	for _, category := range order[1:] {
		if counts[category] > counts[best] {
			best = category
		}
	}
	return best
}

// Selector generates the strongest identifying selector available for the
// element: id, then class list, then test ID, then the bare tag name. Only
// the highest-priority attribute present contributes.
func Selector(element *markup.Element) string {
	if element == nil {
		return ""
	}
	if element.HasAttr("id") {
		id, _ := element.Attr("id")
		return "#" + strings.TrimSpace(id)
	}
	if classes := element.Classes(); len(classes) > 0 {
		return element.Tag + "." + strings.Join(classes, ".")
	}
	if element.HasAttr("data-testid") {
		testID, _ := element.Attr("data-testid")
		return fmt.Sprintf("[data-testid='%s']", strings.TrimSpace(testID))
	}
	return element.Tag
}

// Selectors generates one selector per element, preserving order.
func Selectors(elements []*markup.Element) []string {
	selectors := make([]string, 0, len(elements))
	for _, element := range elements {
		selectors = append(selectors, Selector(element))
	}
	return selectors
}

// Confidence scores how reliably the selection can be re-identified by its
// selectors. Base 0.5, plus 0.3 scaled by the fraction of elements carrying
// an id, plus 0.2 scaled by the fraction carrying classes, plus a flat 0.2
// when every element shares one category. Clamped to 1.0; empty input is 0.
func Confidence(elements []*markup.Element) float64 {
	if len(elements) == 0 {
		return 0.0
	}

	confidence := 0.5
	withID := 0
	withClasses := 0
	uniform := true
	first := Classify(elements[0])
	for _, element := range elements {
		if element.HasAttr("id") {
			withID++
		}
		if len(element.Classes()) > 0 {
			withClasses++
		}
		if Classify(element) != first {
			uniform = false
		}
	}

	total := float64(len(elements))
	confidence += float64(withID) / total * 0.3
	confidence += float64(withClasses) / total * 0.2
	if uniform {
		confidence += 0.2
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
