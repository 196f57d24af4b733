package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

type markerKind int

const (
	courseNameMarker markerKind = iota
	courseNumberMarker
	prerequisiteMarker
)

var (
	courseNameMatcher   = cascadia.MustCompile(`[id$="_cnCourse"]`)
	courseNumberMatcher = cascadia.MustCompile(`[id$="_cnCode"]`)
	prerequisiteMatcher = cascadia.MustCompile(`.course-prereq`)

	anyMarkerMatcher = cascadia.MustCompile(`[id$="_cnCourse"], [id$="_cnCode"], .course-prereq`)
)

// marker is one course-name, course-number or prerequisite element
type marker struct {
	kind markerKind
	text string
}

// parseMarkers returns every marker element on a subject page in document order.
// Course name and number text is trimmed; prerequisite text is kept raw.
func parseMarkers(r io.Reader) ([]marker, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	found := doc.FindMatcher(anyMarkerMatcher)
	markers := make([]marker, 0, found.Length())

	found.Each(func(i int, sel *goquery.Selection) {
		kind := classify(sel.Get(0))
		text := sel.Text()
		if kind != prerequisiteMarker {
			text = strings.TrimSpace(text)
		}
		markers = append(markers, marker{kind: kind, text: text})
	})

	return markers, nil
}

func classify(n *html.Node) markerKind {
	switch {
	case courseNameMatcher.Match(n):
		return courseNameMarker
	case courseNumberMatcher.Match(n):
		return courseNumberMarker
	default:
		return prerequisiteMarker
	}
}
