// Package state holds the client-owned state of each user: active filters and
// joined events. Every mutation replaces a whole value under a lock; readers get copies.
package state

import (
	"sync"
	"time"

	"riconnect/internal/domain"
)

// Filters is a domain.FilterStore.
type Filters struct {
	mu sync.RWMutex
	v  domain.FilterState
}

var _ domain.FilterStore = (*Filters)(nil)

func (f *Filters) Get() domain.FilterState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return copyFilters(f.v)
}

func (f *Filters) SetGenres(genres []string) {
	f.mu.Lock()
	f.v.Genres = dedupe(genres)
	f.mu.Unlock()
}

func (f *Filters) SetTypes(types []string) {
	f.mu.Lock()
	f.v.Types = dedupe(types)
	f.mu.Unlock()
}

func (f *Filters) SetThemes(themes []string) {
	f.mu.Lock()
	f.v.Themes = dedupe(themes)
	f.mu.Unlock()
}

func (f *Filters) SetDate(date *time.Time) {
	f.mu.Lock()
	if date == nil {
		f.v.Date = nil
	} else {
		d := *date
		f.v.Date = &d
	}
	f.mu.Unlock()
}

// Replace swaps the whole filter state.
func (f *Filters) Replace(v domain.FilterState) {
	v = copyFilters(v)
	v.Genres = dedupe(v.Genres)
	v.Types = dedupe(v.Types)
	v.Themes = dedupe(v.Themes)
	f.mu.Lock()
	f.v = v
	f.mu.Unlock()
}

func (f *Filters) Clear() {
	f.mu.Lock()
	f.v = domain.FilterState{}
	f.mu.Unlock()
}

// JoinedEvents is a domain.JoinedEventsStore. Ids keep join order.
type JoinedEvents struct {
	mu  sync.RWMutex
	ids []string
}

var _ domain.JoinedEventsStore = (*JoinedEvents)(nil)

func (j *JoinedEvents) IDs() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]string{}, j.ids...)
}

func (j *JoinedEvents) Contains(id string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return indexOf(j.ids, id) >= 0
}

// Add appends id unless it is already present. It reports whether the set changed.
func (j *JoinedEvents) Add(id string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if indexOf(j.ids, id) >= 0 {
		return false
	}
	next := make([]string, 0, len(j.ids)+1)
	next = append(next, j.ids...)
	j.ids = append(next, id)
	return true
}

// Remove drops id. It reports whether the set changed.
func (j *JoinedEvents) Remove(id string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	i := indexOf(j.ids, id)
	if i < 0 {
		return false
	}
	next := make([]string, 0, len(j.ids)-1)
	next = append(next, j.ids[:i]...)
	j.ids = append(next, j.ids[i+1:]...)
	return true
}

func (j *JoinedEvents) Replace(ids []string) {
	next := dedupe(ids)
	j.mu.Lock()
	j.ids = next
	j.mu.Unlock()
}

// AppState is the state of one user.
type AppState struct {
	filters *Filters
	joined  *JoinedEvents
}

// NewAppState returns an empty state.
func NewAppState() *AppState {
	return &AppState{filters: &Filters{}, joined: &JoinedEvents{}}
}

func (s *AppState) Filters() domain.FilterStore     { return s.filters }
func (s *AppState) Joined() domain.JoinedEventsStore { return s.joined }

// Registry keys AppState by user (the token's email). The empty user is the
// anonymous state used by the CLI before login.
type Registry struct {
	mu     sync.Mutex
	byUser map[string]*AppState
}

var _ domain.ClientStateRegistry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]*AppState)}
}

func (r *Registry) For(user string) domain.ClientState {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byUser[user]
	if !ok {
		s = NewAppState()
		r.byUser[user] = s
	}
	return s
}

func copyFilters(v domain.FilterState) domain.FilterState {
	out := domain.FilterState{
		Genres: append([]string{}, v.Genres...),
		Types:  append([]string{}, v.Types...),
		Themes: append([]string{}, v.Themes...),
	}
	if v.Date != nil {
		d := *v.Date
		out.Date = &d
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
