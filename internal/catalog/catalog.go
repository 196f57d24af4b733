package catalog

import (
	"bytes"
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// Subject is a subject listing from the calendar directory page
type Subject struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Course is a single course entry on a subject page
type Course struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	URL    string `json:"url"`
}

// NewCourse creates a Course whose URL anchors the course number on its subject page
func NewCourse(name, number, subjectURL string) Course {
	return Course{
		Name:   name,
		Number: number,
		URL:    subjectURL + "#" + number,
	}
}

// PrerequisiteMatch is a course whose prerequisite text names the searched course
type PrerequisiteMatch struct {
	SubjectCode      string `json:"subject_code"`
	Name             string `json:"name"`
	Number           string `json:"number"`
	PrerequisiteText string `json:"prerequisite_text"`
}

// SubjectCode derives a short subject code from a subject page URL:
// the last path segment without its extension, upper-cased.
func SubjectCode(subjectURL string) string {
	p := subjectURL
	if u, err := url.Parse(subjectURL); err == nil && u.Path != "" {
		p = u.Path
	}

	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.ToUpper(base)
}

// SubjectMap is an insertion-ordered mapping of subject name to Subject
type SubjectMap struct {
	names    []string
	subjects map[string]Subject
}

// NewSubjectMap creates an empty SubjectMap
func NewSubjectMap() *SubjectMap {
	return &SubjectMap{
		subjects: make(map[string]Subject),
	}
}

// Set stores a subject under its name. A repeated name replaces the earlier
// URL but keeps its original position.
func (m *SubjectMap) Set(name, subjectURL string) {
	if _, exists := m.subjects[name]; !exists {
		m.names = append(m.names, name)
	}
	m.subjects[name] = Subject{Name: name, URL: subjectURL}
}

// Get looks up a subject by name
func (m *SubjectMap) Get(name string) (Subject, bool) {
	s, ok := m.subjects[name]
	return s, ok
}

// Len returns the number of subjects
func (m *SubjectMap) Len() int {
	return len(m.names)
}

// Names returns subject names in insertion order
func (m *SubjectMap) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// Subjects returns all subjects in insertion order
func (m *SubjectMap) Subjects() []Subject {
	subjects := make([]Subject, 0, len(m.names))
	for _, name := range m.names {
		subjects = append(subjects, m.subjects[name])
	}
	return subjects
}

// MarshalJSON encodes the map as a JSON object of name → URL in insertion order
func (m *SubjectMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.subjects[name].URL)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
