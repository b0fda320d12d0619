package services

import (
	"fmt"
	"strings"

	"riconnect/internal/domain"
)

type filterService struct {
	catalog domain.FilterCatalog
	states  domain.ClientStateRegistry
}

// NewFilterService validates filter tags against catalog. A facet with an empty catalog
// list accepts any tag.
func NewFilterService(catalog domain.FilterCatalog, states domain.ClientStateRegistry) domain.FilterService {
	return &filterService{catalog: catalog, states: states}
}

func (s *filterService) Catalog() domain.FilterCatalog {
	return domain.FilterCatalog{
		Genres: append([]string{}, s.catalog.Genres...),
		Types:  append([]string{}, s.catalog.Types...),
		Themes: append([]string{}, s.catalog.Themes...),
	}
}

func (s *filterService) Get(user string) domain.FilterState {
	return s.states.For(user).Filters().Get()
}

// Replace validates every tag and stores f. Tags are matched case-insensitively and
// stored with the catalog's spelling.
func (s *filterService) Replace(user string, f domain.FilterState) (domain.FilterState, error) {
	var err error
	if f.Genres, err = canonical("genre", f.Genres, s.catalog.Genres); err != nil {
		return domain.FilterState{}, err
	}
	if f.Types, err = canonical("type", f.Types, s.catalog.Types); err != nil {
		return domain.FilterState{}, err
	}
	if f.Themes, err = canonical("theme", f.Themes, s.catalog.Themes); err != nil {
		return domain.FilterState{}, err
	}
	store := s.states.For(user).Filters()
	store.Replace(f)
	return store.Get(), nil
}

// Update validates the facets present in p before touching the stored state, then
// sets each of them.
func (s *filterService) Update(user string, p domain.FilterPatch) (domain.FilterState, error) {
	var genres, types, themes []string
	var err error
	if p.Genres != nil {
		if genres, err = canonical("genre", *p.Genres, s.catalog.Genres); err != nil {
			return domain.FilterState{}, err
		}
	}
	if p.Types != nil {
		if types, err = canonical("type", *p.Types, s.catalog.Types); err != nil {
			return domain.FilterState{}, err
		}
	}
	if p.Themes != nil {
		if themes, err = canonical("theme", *p.Themes, s.catalog.Themes); err != nil {
			return domain.FilterState{}, err
		}
	}

	store := s.states.For(user).Filters()
	if p.Genres != nil {
		store.SetGenres(genres)
	}
	if p.Types != nil {
		store.SetTypes(types)
	}
	if p.Themes != nil {
		store.SetThemes(themes)
	}
	if p.SetDate {
		store.SetDate(p.Date)
	}
	return store.Get(), nil
}

func (s *filterService) Clear(user string) {
	s.states.For(user).Filters().Clear()
}

func canonical(facet string, tags, allowed []string) ([]string, error) {
	if len(allowed) == 0 {
		return tags, nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		match := ""
		for _, a := range allowed {
			if strings.EqualFold(a, tag) {
				match = a
				break
			}
		}
		if match == "" {
			return nil, fmt.Errorf("unknown %s %q: %w", facet, tag, domain.ErrInvalidFilter)
		}
		out = append(out, match)
	}
	return out, nil
}
