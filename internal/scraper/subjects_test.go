package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/calendar-prereqs/internal/config"
)

const directoryURL = "https://x/archives/course-desc-main.html"

func TestExtractSubjects(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		excluded []string
		want     map[string]string
	}{
		{
			name: "course pages are filtered",
			html: `<a href="comp-sci.html">Computer Science</a><a href="course-desc.html">Course Descriptions</a>`,
			want: map[string]string{
				"Computer Science": "https://x/archives/comp-sci.html",
			},
		},
		{
			name: "non html links are filtered",
			html: `
				<a href="art.html">Art</a>
				<a href="art.pdf">Art PDF</a>
				<a href="art.htm">Art Old</a>
				<a href="https://x/archives/math.html?print=1">Math Print</a>
			`,
			want: map[string]string{
				"Art": "https://x/archives/art.html",
			},
		},
		{
			name:     "denylisted labels are filtered",
			html:     `<a href="welcome.html">Welcome</a><a href="admissions.html"> Admissions </a><a href="biol.html">Biology</a>`,
			excluded: []string{"Welcome", "Admissions"},
			want: map[string]string{
				"Biology": "https://x/archives/biol.html",
			},
		},
		{
			name: "empty link text is never a subject",
			html: `<a href="logo.html"><img src="logo.png"></a><a href="blank.html">   </a>`,
			want: map[string]string{},
		},
		{
			name: "anchors without href are ignored",
			html: `<a name="top">Top</a><a href="chem.html">Chemistry</a>`,
			want: map[string]string{
				"Chemistry": "https://x/archives/chem.html",
			},
		},
		{
			name: "text is trimmed",
			html: "<a href=\"phys.html\">\n\t Physics \n</a>",
			want: map[string]string{
				"Physics": "https://x/archives/phys.html",
			},
		},
		{
			name: "no links",
			html: `<html><body><p>Nothing here</p></body></html>`,
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subjects, err := ExtractSubjects(strings.NewReader(tt.html), directoryURL, tt.excluded)
			require.NoError(t, err)

			got := make(map[string]string)
			for _, s := range subjects.Subjects() {
				got[s.Name] = s.URL
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractSubjects_RepeatedNameLastWins(t *testing.T) {
	html := `
		<a href="art-2019.html">Art</a>
		<a href="dance.html">Dance</a>
		<a href="art.html">Art</a>
	`

	subjects, err := ExtractSubjects(strings.NewReader(html), directoryURL, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Art", "Dance"}, subjects.Names())
	art, ok := subjects.Get("Art")
	require.True(t, ok)
	assert.Equal(t, "https://x/archives/art.html", art.URL)
}

func TestExtractSubjects_NeverIncludesExcluded(t *testing.T) {
	var b strings.Builder
	for _, label := range config.DefaultExcludedSubjects {
		b.WriteString(`<a href="section.html">` + label + `</a>`)
	}
	b.WriteString(`<a href="courses.html">Courses</a>`)
	b.WriteString(`<a href="math-course.html">Mathematics</a>`)
	b.WriteString(`<a href="math.html">Mathematics</a>`)

	subjects, err := ExtractSubjects(strings.NewReader(b.String()), directoryURL, config.DefaultExcludedSubjects)
	require.NoError(t, err)

	for _, s := range subjects.Subjects() {
		assert.NotContains(t, config.DefaultExcludedSubjects, s.Name)
		assert.NotContains(t, s.URL, "course-")
	}
	assert.Equal(t, []string{"Mathematics"}, subjects.Names())
	math, _ := subjects.Get("Mathematics")
	assert.Equal(t, "https://x/archives/math.html", math.URL)
}

func TestDirectoryBase(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://x/archives/course-desc-main.html", "https://x/archives"},
		{"https://x/index.html", "https://x"},
		{"index.html", "index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, directoryBase(tt.url))
		})
	}
}
