package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourse(t *testing.T) {
	c := NewCourse("Data Structures", "331", "https://x/archives/computer-science.html")

	assert.Equal(t, "Data Structures", c.Name)
	assert.Equal(t, "331", c.Number)
	assert.Equal(t, "https://x/archives/computer-science.html#331", c.URL)
}

func TestSubjectCode(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://x/archives/computer-science.html", "COMPUTER-SCIENCE"},
		{"https://x/archives/cpsc.html", "CPSC"},
		{"https://x/archives/cpsc.html#331", "CPSC"},
		{"https://x/archives/cpsc.html?year=2020", "CPSC"},
		{"https://x/archives/math", "MATH"},
		{"relative/page.htm", "PAGE"},
		{"https://x/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, SubjectCode(tt.url))
		})
	}
}

func TestSubjectMap(t *testing.T) {
	t.Run("empty map", func(t *testing.T) {
		m := NewSubjectMap()
		assert.Equal(t, 0, m.Len())
		assert.Empty(t, m.Names())

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(data))
	})

	t.Run("insertion order", func(t *testing.T) {
		m := NewSubjectMap()
		m.Set("Mathematics", "https://x/math.html")
		m.Set("Art", "https://x/art.html")
		m.Set("Biology", "https://x/biol.html")

		assert.Equal(t, []string{"Mathematics", "Art", "Biology"}, m.Names())

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t,
			`{"Mathematics":"https://x/math.html","Art":"https://x/art.html","Biology":"https://x/biol.html"}`,
			string(data))
	})

	t.Run("repeated name keeps last url", func(t *testing.T) {
		m := NewSubjectMap()
		m.Set("Art", "https://x/art-old.html")
		m.Set("Biology", "https://x/biol.html")
		m.Set("Art", "https://x/art.html")

		assert.Equal(t, 2, m.Len())
		assert.Equal(t, []string{"Art", "Biology"}, m.Names())

		s, ok := m.Get("Art")
		require.True(t, ok)
		assert.Equal(t, "https://x/art.html", s.URL)
	})

	t.Run("missing name", func(t *testing.T) {
		m := NewSubjectMap()
		_, ok := m.Get("Nope")
		assert.False(t, ok)
	})

	t.Run("names is a copy", func(t *testing.T) {
		m := NewSubjectMap()
		m.Set("Art", "https://x/art.html")

		names := m.Names()
		names[0] = "changed"

		assert.Equal(t, []string{"Art"}, m.Names())
		assert.Equal(t, []Subject{{Name: "Art", URL: "https://x/art.html"}}, m.Subjects())
	})
}
