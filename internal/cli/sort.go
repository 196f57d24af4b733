package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/calendar-prereqs/internal/catalog"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortBySubject SortOrder = "subject"
	SortByNumber  SortOrder = "number"
	SortByName    SortOrder = "name"
)

// Valid reports whether o is a known sort order
func (o SortOrder) Valid() bool {
	switch o {
	case SortBySubject, SortByNumber, SortByName:
		return true
	}
	return false
}

// sortMatches sorts matches in place based on the specified sort order
func sortMatches(matches []catalog.PrerequisiteMatch, order SortOrder) {
	switch order {
	case SortBySubject:
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].SubjectCode != matches[j].SubjectCode {
				return matches[i].SubjectCode < matches[j].SubjectCode
			}
			return compareNumbers(matches[i].Number, matches[j].Number)
		})
	case SortByNumber:
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].Number != matches[j].Number {
				return compareNumbers(matches[i].Number, matches[j].Number)
			}
			return matches[i].SubjectCode < matches[j].SubjectCode
		})
	case SortByName:
		sort.SliceStable(matches, func(i, j int) bool {
			a, b := strings.ToLower(matches[i].Name), strings.ToLower(matches[j].Name)
			if a != b {
				return a < b
			}
			return matches[i].SubjectCode < matches[j].SubjectCode
		})
	}
}

// compareNumbers orders course numbers like "231" < "331" < "599.98".
// Shorter leading digit runs sort first so "99" comes before "331".
func compareNumbers(a, b string) bool {
	da, db := leadingDigits(a), leadingDigits(b)
	if da != db {
		return da < db
	}
	return a < b
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
