package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfrederiksen/calendar-prereqs/internal/catalog"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// MatchResult is the output of a prerequisite search
type MatchResult struct {
	CheckedAt  time.Time                   `json:"checked_at"`
	Course     string                      `json:"course"`
	Subject    string                      `json:"subject,omitempty"`
	MatchCount int                         `json:"match_count"`
	Matches    []catalog.PrerequisiteMatch `json:"matches"`
}

func newMatchResult(name, number, subject string, matches []catalog.PrerequisiteMatch) *MatchResult {
	if matches == nil {
		matches = []catalog.PrerequisiteMatch{}
	}
	return &MatchResult{
		CheckedAt:  time.Now().UTC(),
		Course:     name + " " + number,
		Subject:    subject,
		MatchCount: len(matches),
		Matches:    matches,
	}
}

// WriteSubjects writes the subject directory
func WriteSubjects(w io.Writer, subjects *catalog.SubjectMap, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, subjects)
	case FormatText:
		if subjects.Len() == 0 {
			fmt.Fprintln(w, "No subjects found.")
			return nil
		}
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Subjects (%d)", subjects.Len())))
		for _, s := range subjects.Subjects() {
			fmt.Fprintf(w, "  %s\n", s.Name)
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(s.URL))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteCourses writes the courses of one subject page
func WriteCourses(w io.Writer, heading string, courses []catalog.Course, format OutputFormat) error {
	switch format {
	case FormatJSON:
		if courses == nil {
			courses = []catalog.Course{}
		}
		return writeJSON(w, courses)
	case FormatText:
		if len(courses) == 0 {
			fmt.Fprintln(w, "No courses found.")
			return nil
		}
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s (%d courses)", heading, len(courses))))
		for _, c := range courses {
			fmt.Fprintf(w, "  %s  %s\n", codeStyle.Render(c.Number), c.Name)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteMatches writes the result of a prerequisite search
func WriteMatches(w io.Writer, result *MatchResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeMatchesText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeMatchesText(w io.Writer, result *MatchResult) error {
	if result.MatchCount == 0 {
		fmt.Fprintf(w, "No courses require %s.\n", result.Course)
		return nil
	}

	fmt.Fprintln(w, headingStyle.Render("Courses requiring "+result.Course))

	lastCode := ""
	for _, m := range result.Matches {
		if m.SubjectCode != lastCode {
			fmt.Fprintf(w, "\n%s\n", codeStyle.Render(m.SubjectCode))
			lastCode = m.SubjectCode
		}
		fmt.Fprintf(w, "  %s %s\n", m.Number, m.Name)
		fmt.Fprintf(w, "       %s\n", mutedStyle.Render(m.PrerequisiteText))
	}

	fmt.Fprintf(w, "\nTotal: %d courses\n", result.MatchCount)
	return nil
}
