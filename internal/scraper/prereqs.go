package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/calendar-prereqs/internal/catalog"
	"github.com/pfrederiksen/calendar-prereqs/internal/logger"
)

// FindPrerequisiteMatches returns the courses on a subject page whose
// prerequisite text names the course identified by name and number.
//
// A prerequisite block matches when one of its comma or semicolon separated
// clauses contains both name and number. Matching is plain case-sensitive
// substring search, so "31" also matches inside "331". The block is credited
// to the nearest course name and course number before it. Each block yields
// at most one match.
//
// Parse faults are logged and produce no matches.
func FindPrerequisiteMatches(r io.Reader, subjectURL, name, number string) (matches []catalog.PrerequisiteMatch) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Prerequisite scan aborted", logger.Fields{
				"url": subjectURL,
			}, fmt.Errorf("panic: %v", rec))
			matches = nil
		}
	}()

	markers, err := parseMarkers(r)
	if err != nil {
		logger.Warn("Skipping unparseable subject page", logger.Fields{
			"url":   subjectURL,
			"error": err.Error(),
		})
		return nil
	}

	code := catalog.SubjectCode(subjectURL)
	var lastName, lastNumber string
	var haveName, haveNumber bool

	for _, m := range markers {
		switch m.kind {
		case courseNameMarker:
			lastName, haveName = m.text, true
		case courseNumberMarker:
			lastNumber, haveNumber = m.text, true
		case prerequisiteMarker:
			if !haveName || !haveNumber {
				continue
			}
			if !prerequisiteNames(m.text, name, number) {
				continue
			}
			matches = append(matches, catalog.PrerequisiteMatch{
				SubjectCode:      code,
				Name:             lastName,
				Number:           lastNumber,
				PrerequisiteText: strings.TrimSpace(m.text),
			})
		}
	}

	return matches
}

// prerequisiteNames reports whether any clause of text mentions both name and number
func prerequisiteNames(text, name, number string) bool {
	if !strings.Contains(text, name) {
		return false
	}
	for _, clause := range splitClauses(text) {
		if strings.Contains(clause, name) && strings.Contains(clause, number) {
			return true
		}
	}
	return false
}

func splitClauses(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';'
	})
}
