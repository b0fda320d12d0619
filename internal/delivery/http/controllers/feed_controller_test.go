package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riconnect/internal/delivery/http/helpers"
	"riconnect/internal/domain"
)

func newFeedController(feed *fakeFeed, filters *fakeFilters, snap domain.FeedSnapshot, cal *fakeCalendar) *FeedController {
	c := NewFeedController(testLogger, feed, filters, snap, cal, fakeTranslator{}, testErrors)
	c.Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestFeedController_Home(t *testing.T) {
	live := []domain.EnrichedEvent{{Event: domain.Event{ID: "live"}}}
	cached := []domain.EnrichedEvent{{Event: domain.Event{ID: "cached"}}}
	taken := time.Date(2024, 6, 1, 11, 55, 0, 0, time.UTC)

	tests := []struct {
		name          string
		filters       domain.FilterState
		snapshot      domain.FeedSnapshot
		feed          []domain.EnrichedEvent
		wantIDs       []string
		wantFromCache bool
		wantMessage   string
		wantCalls     int
	}{
		{
			name:          "no filters uses snapshot",
			snapshot:      &fakeSnapshot{events: cached, takenAt: taken, ok: true},
			feed:          live,
			wantIDs:       []string{"cached"},
			wantFromCache: true,
		},
		{
			name:      "snapshot not ready falls back to fetch",
			snapshot:  &fakeSnapshot{},
			feed:      live,
			wantIDs:   []string{"live"},
			wantCalls: 1,
		},
		{
			name:      "active filters bypass snapshot",
			filters:   domain.FilterState{Genres: []string{"Techno"}},
			snapshot:  &fakeSnapshot{events: cached, ok: true},
			feed:      live,
			wantIDs:   []string{"live"},
			wantCalls: 1,
		},
		{
			name:        "empty feed carries message",
			feed:        nil,
			wantIDs:     []string{},
			wantMessage: "hr:no_events_found",
			wantCalls:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := &fakeFeed{home: tt.feed}
			filters := newFakeFilters()
			filters.state["ana@example.com"] = tt.filters
			c := newFeedController(feed, filters, tt.snapshot, &fakeCalendar{})

			req := httptest.NewRequest(http.MethodGet, "/feed/home", nil)
			req.Header.Set("Accept-Language", "hr")
			rr := httptest.NewRecorder()
			c.Home(rr, withUser(req, "ana@example.com", "tok"))

			require.Equal(t, http.StatusOK, rr.Code)
			var resp FeedResponse
			require.Nil(t, envelope(t, rr, &resp))
			ids := []string{}
			for _, e := range resp.Events {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantFromCache, resp.FromCache)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, tt.wantCalls, feed.homeCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, tt.filters, feed.lastHome)
			}
			if tt.wantFromCache {
				require.NotNil(t, resp.TakenAt)
				assert.True(t, taken.Equal(*resp.TakenAt))
			}
		})
	}
}

func TestFeedController_HomeSearchByName(t *testing.T) {
	feed := &fakeFeed{home: []domain.EnrichedEvent{{Event: domain.Event{ID: "named"}}}}
	filters := newFakeFilters()
	filters.state["ana@example.com"] = domain.FilterState{Genres: []string{"Techno"}}
	snap := &fakeSnapshot{events: []domain.EnrichedEvent{{Event: domain.Event{ID: "cached"}}}, ok: true}
	c := newFeedController(feed, filters, snap, &fakeCalendar{})

	req := httptest.NewRequest(http.MethodGet, "/feed/home?q=+Techno+Night+", nil)
	rr := httptest.NewRecorder()
	c.Home(rr, withUser(req, "ana@example.com", "tok"))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp FeedResponse
	require.Nil(t, envelope(t, rr, &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "named", resp.Events[0].ID)
	assert.False(t, resp.FromCache)
	require.NotNil(t, feed.lastQuery)
	assert.Equal(t, "Techno Night", feed.lastQuery.Name)
	assert.Equal(t, []string{"Techno"}, feed.lastQuery.Genres)

	// No filters and a name still skips the snapshot.
	filters.state["ana@example.com"] = domain.FilterState{}
	rr = httptest.NewRecorder()
	c.Home(rr, withUser(httptest.NewRequest(http.MethodGet, "/feed/home?q=rave", nil), "ana@example.com", "tok"))
	require.Nil(t, envelope(t, rr, &resp))
	assert.False(t, resp.FromCache)
	assert.Equal(t, "rave", feed.lastQuery.Name)
	assert.Equal(t, 2, feed.homeCalls)
}

func TestFeedController_RequiresUser(t *testing.T) {
	c := newFeedController(&fakeFeed{}, newFakeFilters(), nil, &fakeCalendar{})
	for name, handler := range map[string]http.HandlerFunc{
		"home": c.Home, "mine": c.Mine, "calendar": c.MineCalendar,
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler(rr, httptest.NewRequest(http.MethodGet, "/feed", nil))
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestFeedController_Mine(t *testing.T) {
	buckets := domain.Buckets{
		Live:     []domain.EnrichedEvent{{Event: domain.Event{ID: "a"}}},
		Upcoming: []domain.EnrichedEvent{},
		Past:     []domain.EnrichedEvent{{Event: domain.Event{ID: "b"}}},
	}
	feed := &fakeFeed{mine: buckets}
	c := newFeedController(feed, newFakeFilters(), nil, &fakeCalendar{})

	rr := httptest.NewRecorder()
	c.Mine(rr, withUser(httptest.NewRequest(http.MethodGet, "/feed/mine", nil), "ana@example.com", "tok"))

	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.Buckets
	require.Nil(t, envelope(t, rr, &got))
	assert.Equal(t, "a", got.Live[0].ID)
	assert.Empty(t, got.Upcoming)
	assert.Equal(t, "b", got.Past[0].ID)
	assert.Equal(t, "tok", feed.lastToken)
	assert.Equal(t, c.Now(), feed.mineNow)
}

func TestFeedController_MineCalendar(t *testing.T) {
	events := []domain.EnrichedEvent{{Event: domain.Event{ID: "a"}}}
	cal := &fakeCalendar{out: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")}
	c := newFeedController(&fakeFeed{mineList: events}, newFakeFilters(), nil, cal)

	rr := httptest.NewRecorder()
	c.MineCalendar(rr, withUser(httptest.NewRequest(http.MethodGet, "/feed/mine.ics", nil), "ana@example.com", "tok"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, string(cal.out), rr.Body.String())
	assert.Equal(t, events, cal.got)

	cal.err = errors.New("render failed")
	rr = httptest.NewRecorder()
	c.MineCalendar(rr, withUser(httptest.NewRequest(http.MethodGet, "/feed/mine.ics", nil), "ana@example.com", "tok"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestFeedController_Club(t *testing.T) {
	feed := &fakeFeed{club: []domain.EnrichedEvent{{Event: domain.Event{ID: "c1"}}}}
	c := newFeedController(feed, newFakeFilters(), nil, &fakeCalendar{})

	req := httptest.NewRequest(http.MethodGet, "/clubs/k1/events", nil)
	req.SetPathValue("clubID", "k1")
	rr := httptest.NewRecorder()
	c.Club(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp FeedResponse
	require.Nil(t, envelope(t, rr, &resp))
	assert.Len(t, resp.Events, 1)
	assert.Equal(t, "k1", feed.lastClub)

	rr = httptest.NewRecorder()
	c.Club(rr, httptest.NewRequest(http.MethodGet, "/clubs//events", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := envelope(t, rr, nil)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeBadRequest, apiErr.Code)
}
