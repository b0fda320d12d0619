package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventQuery_Values(t *testing.T) {
	date := time.Date(2024, 6, 1, 18, 45, 0, 0, time.UTC)
	f := FilterState{
		Genres: []string{"House", "Techno"},
		Themes: []string{"Retro Night (80s/90s)"},
		Date:   &date,
	}

	v := f.Query().Values()

	assert.Equal(t, "House,Techno", v.Get("genre"))
	assert.Equal(t, "Retro Night (80s/90s)", v.Get("theme"))
	assert.Equal(t, "2024-06-01T00:00:00", v.Get("date"))
	assert.False(t, v.Has("type"))
}

func TestEventQuery_Name(t *testing.T) {
	q := FilterState{Types: []string{"Theme Parties"}}.Query()
	q.Name = "  Techno Night "
	v := q.Values()
	assert.Equal(t, "Techno Night", v.Get("name"))
	assert.Equal(t, "Theme Parties", v.Get("type"))

	q.Name = "   "
	assert.False(t, q.Values().Has("name"))
}

func TestEventQuery_EmptyHasNoParams(t *testing.T) {
	assert.Empty(t, FilterState{}.Query().Values())
	assert.True(t, FilterState{}.IsZero())
	assert.False(t, FilterState{Types: []string{"Theme Parties"}}.IsZero())
}

func TestFilterState_QueryCopiesTags(t *testing.T) {
	f := FilterState{Genres: []string{"House"}}
	q := f.Query()
	q.Genres[0] = "Pop"
	assert.Equal(t, "House", f.Genres[0])
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "Korzo 1, Rijeka, PGZ, Croatia", FormatAddress(Placemark{Street: "Korzo 1", City: "Rijeka", Region: "PGZ", Country: "Croatia"}))
	assert.Equal(t, ", , , Croatia", FormatAddress(Placemark{Country: "Croatia"}))
}
