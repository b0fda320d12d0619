package domain

import "time"

// FilterStore holds one user's filter state. Every mutation replaces a whole slice of the state.
type FilterStore interface {
	Get() FilterState
	SetGenres(genres []string)
	SetTypes(types []string)
	SetThemes(themes []string)
	SetDate(date *time.Time)
	Replace(f FilterState)
	Clear()
}

// JoinedEventsStore holds the ids of the events one user attends.
type JoinedEventsStore interface {
	IDs() []string
	Contains(id string) bool
	Add(id string) bool
	Remove(id string) bool
	Replace(ids []string)
}

// ClientState is the client-owned state of one user.
type ClientState interface {
	Filters() FilterStore
	Joined() JoinedEventsStore
}

// ClientStateRegistry hands out the client state of each user, creating it on first use.
type ClientStateRegistry interface {
	For(user string) ClientState
}
