// Package analyze summarizes the structure of a loaded page: what kinds of
// content it carries and where its headings sit. The summary feeds the side
// panel and gets attached to exported selections.
package analyze

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Heading is one entry of the document outline.
type Heading struct {
	Level int
	Text  string
}

// Structure is a one-pass summary of a page.
type Structure struct {
	Title    string
	Language string
	Headings []Heading
	Links    int
	Images   int
	Forms    int
	Tables   int
	Lists    int
}

// Page parses the HTML and builds its structure summary.
func Page(htmlText string) (Structure, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return Structure{}, fmt.Errorf("parse page: %w", err)
	}

	structure := Structure{
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Links:  doc.Find("a[href]").Length(),
		Images: doc.Find("img").Length(),
		Forms:  doc.Find("form").Length(),
		Tables: doc.Find("table").Length(),
		Lists:  doc.Find("ul, ol").Length(),
	}
	if lang, ok := doc.Find("html").Attr("lang"); ok {
		structure.Language = strings.TrimSpace(lang)
	}

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		if len(tag) != 2 {
			return
		}
		level := int(tag[1] - '0')
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		structure.Headings = append(structure.Headings, Heading{Level: level, Text: text})
	})

	return structure, nil
}

// Summary renders the structure as short label/count lines for display.
func (s Structure) Summary() []string {
	lines := []string{}
	if s.Title != "" {
		lines = append(lines, "Title: "+s.Title)
	}
	if s.Language != "" {
		lines = append(lines, "Language: "+s.Language)
	}
	lines = append(lines,
		fmt.Sprintf("Headings: %d", len(s.Headings)),
		fmt.Sprintf("Links: %d", s.Links),
		fmt.Sprintf("Images: %d", s.Images),
		fmt.Sprintf("Forms: %d", s.Forms),
		fmt.Sprintf("Tables: %d", s.Tables),
		fmt.Sprintf("Lists: %d", s.Lists),
	)
	return lines
}
