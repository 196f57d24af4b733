package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/calendar-prereqs/internal/catalog"
)

// ExtractSubjects parses the calendar directory page into subject name → page URL.
//
// A link counts as a subject when its href ends in ".html", does not mention
// "course" (those are course-description pages) and its trimmed text is not in
// excluded. Empty link text is never a subject. Hrefs are resolved against the
// directory of directoryURL. No qualifying links yields an empty map.
func ExtractSubjects(r io.Reader, directoryURL string, excluded []string) (*catalog.SubjectMap, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	skip := make(map[string]struct{}, len(excluded)+1)
	skip[""] = struct{}{}
	for _, label := range excluded {
		skip[label] = struct{}{}
	}

	base := directoryBase(directoryURL)
	subjects := catalog.NewSubjectMap()

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := strings.TrimSpace(sel.Text())

		if !strings.HasSuffix(href, ".html") || strings.Contains(href, "course") {
			return
		}
		if _, ok := skip[text]; ok {
			return
		}

		subjects.Set(text, base+"/"+href)
	})

	return subjects, nil
}

// directoryBase strips the last path separator and everything after it
func directoryBase(pageURL string) string {
	if i := strings.LastIndex(pageURL, "/"); i >= 0 {
		return pageURL[:i]
	}
	return pageURL
}
