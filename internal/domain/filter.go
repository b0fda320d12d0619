package domain

import (
	"net/url"
	"strings"
	"time"
)

// SearchDateLayout is the date format the search endpoint parses. The client always
// sends midnight of the selected day.
const SearchDateLayout = "2006-01-02T15:04:05"

// FilterState is the user's active search filters. Tag lists behave as sets.
// swagger:model FilterState
type FilterState struct {
	Genres []string   `json:"selectedGenres"`
	Types  []string   `json:"selectedTypes"`
	Themes []string   `json:"selectedThemes"`
	Date   *time.Time `json:"selectedDate"`
}

// IsZero reports whether no filter is active.
func (f FilterState) IsZero() bool {
	return len(f.Genres) == 0 && len(f.Types) == 0 && len(f.Themes) == 0 && f.Date == nil
}

// Query converts the filter state to a search query.
func (f FilterState) Query() EventQuery {
	q := EventQuery{
		Genres: append([]string(nil), f.Genres...),
		Types:  append([]string(nil), f.Types...),
		Themes: append([]string(nil), f.Themes...),
	}
	if f.Date != nil {
		y, m, d := f.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		q.Date = &day
	}
	return q
}

// EventQuery is the parameter set of the event search endpoint.
type EventQuery struct {
	// Name matches event titles on the API side.
	Name   string
	Genres []string
	Types  []string
	Themes []string
	Date   *time.Time
}

// Values encodes the query: tag lists comma-joined, date truncated to the day.
// Empty facets are omitted.
func (q EventQuery) Values() url.Values {
	v := url.Values{}
	if name := strings.TrimSpace(q.Name); name != "" {
		v.Set("name", name)
	}
	if len(q.Genres) > 0 {
		v.Set("genre", strings.Join(q.Genres, ","))
	}
	if len(q.Types) > 0 {
		v.Set("type", strings.Join(q.Types, ","))
	}
	if len(q.Themes) > 0 {
		v.Set("theme", strings.Join(q.Themes, ","))
	}
	if q.Date != nil {
		y, m, d := q.Date.Date()
		v.Set("date", time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(SearchDateLayout))
	}
	return v
}

// FilterCatalog lists the tags offered by the filters screen.
// swagger:model FilterCatalog
type FilterCatalog struct {
	Genres []string `json:"genres" yaml:"genres"`
	Types  []string `json:"types" yaml:"types"`
	Themes []string `json:"themes" yaml:"themes"`
}

// FilterPatch changes individual facets of a filter state. A nil facet is left as it
// is; a non-nil empty list clears that facet.
type FilterPatch struct {
	Genres *[]string
	Types  *[]string
	Themes *[]string
	// SetDate applies Date, which may be nil to clear the date filter.
	SetDate bool
	Date    *time.Time
}

// FilterService validates and stores the filter state of one user.
type FilterService interface {
	Catalog() FilterCatalog
	Get(user string) FilterState
	Replace(user string, f FilterState) (FilterState, error)
	Update(user string, p FilterPatch) (FilterState, error)
	Clear(user string)
}
