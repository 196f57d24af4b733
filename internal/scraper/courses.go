package scraper

import (
	"io"

	"github.com/pfrederiksen/calendar-prereqs/internal/catalog"
)

// ExtractCourses parses a subject page into its courses, in the order the
// course numbers appear.
//
// Each course number is paired with the closest course name before it that
// has not already been paired. A number with no such name is skipped. A page
// without markers yields an empty slice and no error.
func ExtractCourses(r io.Reader, subjectURL string) ([]catalog.Course, error) {
	markers, err := parseMarkers(r)
	if err != nil {
		return nil, err
	}

	courses := make([]catalog.Course, 0)
	pending, havePending := "", false

	for _, m := range markers {
		switch m.kind {
		case courseNameMarker:
			pending, havePending = m.text, true
		case courseNumberMarker:
			if !havePending {
				continue
			}
			courses = append(courses, catalog.NewCourse(pending, m.text, subjectURL))
			havePending = false
		}
	}

	return courses, nil
}
