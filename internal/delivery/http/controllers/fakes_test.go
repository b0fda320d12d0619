package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"riconnect/internal/delivery/http/helpers"
	"riconnect/internal/delivery/http/middleware"
	"riconnect/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testErrors = helpers.ErrorWriter{Logger: testLogger, Translator: fakeTranslator{}}

func withUser(r *http.Request, email, token string) *http.Request {
	return r.WithContext(middleware.SetUser(r.Context(), email, token))
}

// envelope decodes the response into an APIResponse whose Data is decoded into data.
func envelope(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if data != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Error
}

type fakeTranslator struct{}

func (fakeTranslator) T(locale, key string, data map[string]any) string {
	if len(data) == 0 {
		return locale + ":" + key
	}
	return fmt.Sprintf("%s:%s:%v", locale, key, data)
}

type fakeFeed struct {
	home      []domain.EnrichedEvent
	homeCalls int
	lastHome  domain.FilterState
	lastQuery *domain.EventQuery
	mine      domain.Buckets
	mineNow   time.Time
	mineList  []domain.EnrichedEvent
	club      []domain.EnrichedEvent
	lastClub  string
	lastToken string
	details   *domain.EventDetails
	detailErr error
}

func (f *fakeFeed) Home(_ context.Context, filters domain.FilterState) []domain.EnrichedEvent {
	f.homeCalls++
	f.lastHome = filters
	return f.home
}

func (f *fakeFeed) Search(_ context.Context, q domain.EventQuery) []domain.EnrichedEvent {
	f.homeCalls++
	f.lastQuery = &q
	return f.home
}

func (f *fakeFeed) Mine(_ context.Context, token string, now time.Time) domain.Buckets {
	f.lastToken = token
	f.mineNow = now
	return f.mine
}

func (f *fakeFeed) MineList(_ context.Context, token string) []domain.EnrichedEvent {
	f.lastToken = token
	return f.mineList
}

func (f *fakeFeed) Club(_ context.Context, clubID string) []domain.EnrichedEvent {
	f.lastClub = clubID
	return f.club
}

func (f *fakeFeed) Details(_ context.Context, token, eventID string) (*domain.EventDetails, error) {
	f.lastToken = token
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.details, nil
}

type fakeSnapshot struct {
	events  []domain.EnrichedEvent
	takenAt time.Time
	ok      bool
}

func (f *fakeSnapshot) Latest() ([]domain.EnrichedEvent, time.Time, bool) {
	return f.events, f.takenAt, f.ok
}

type fakeCalendar struct {
	got  []domain.EnrichedEvent
	out  []byte
	err  error
	name string
}

func (f *fakeCalendar) Export(name string, events []domain.EnrichedEvent) ([]byte, error) {
	f.name = name
	f.got = events
	return f.out, f.err
}

type fakeFilters struct {
	state      map[string]domain.FilterState
	replaceErr error
	catalog    domain.FilterCatalog
	lastPatch  domain.FilterPatch
}

func newFakeFilters() *fakeFilters {
	return &fakeFilters{state: map[string]domain.FilterState{}}
}

func (f *fakeFilters) Catalog() domain.FilterCatalog { return f.catalog }

func (f *fakeFilters) Get(user string) domain.FilterState { return f.state[user] }

func (f *fakeFilters) Replace(user string, s domain.FilterState) (domain.FilterState, error) {
	if f.replaceErr != nil {
		return domain.FilterState{}, f.replaceErr
	}
	f.state[user] = s
	return s, nil
}

func (f *fakeFilters) Update(user string, p domain.FilterPatch) (domain.FilterState, error) {
	if f.replaceErr != nil {
		return domain.FilterState{}, f.replaceErr
	}
	f.lastPatch = p
	s := f.state[user]
	if p.Genres != nil {
		s.Genres = *p.Genres
	}
	if p.Types != nil {
		s.Types = *p.Types
	}
	if p.Themes != nil {
		s.Themes = *p.Themes
	}
	if p.SetDate {
		s.Date = p.Date
	}
	f.state[user] = s
	return s, nil
}

func (f *fakeFilters) Clear(user string) { delete(f.state, user) }

type fakeAttendance struct {
	joinRes  *domain.AttendanceResult
	joinErr  error
	leaveRes *domain.AttendanceResult
	joined   []string
	card     *domain.ShareCard
	shareErr error
	photoRes *domain.PhotoResult
	photoErr error
	lastSub  domain.PhotoSubmission
	lastUser string
	lastTok  string
	lastID   string
}

func (f *fakeAttendance) Join(_ context.Context, user, token, eventID string) (*domain.AttendanceResult, error) {
	f.lastUser, f.lastTok, f.lastID = user, token, eventID
	return f.joinRes, f.joinErr
}

func (f *fakeAttendance) Leave(_ context.Context, user, token, eventID string) (*domain.AttendanceResult, error) {
	f.lastUser, f.lastTok, f.lastID = user, token, eventID
	return f.leaveRes, nil
}

func (f *fakeAttendance) Joined(user string) []string {
	f.lastUser = user
	return f.joined
}

func (f *fakeAttendance) Share(_ context.Context, token, eventID string) (*domain.ShareCard, error) {
	f.lastTok, f.lastID = token, eventID
	return f.card, f.shareErr
}

func (f *fakeAttendance) SubmitPhoto(_ context.Context, token string, sub domain.PhotoSubmission) (*domain.PhotoResult, error) {
	f.lastTok = token
	f.lastSub = sub
	return f.photoRes, f.photoErr
}

type fakeClubs struct {
	clubs  []domain.EnrichedClub
	lastAt domain.Coordinates
}

func (f *fakeClubs) Nearby(_ context.Context, _ string, at domain.Coordinates) []domain.EnrichedClub {
	f.lastAt = at
	return f.clubs
}

type fakeLeaderboard struct {
	entries []domain.LeaderboardEntry
	err     error
}

func (f *fakeLeaderboard) Leaderboard(context.Context, string) ([]domain.LeaderboardEntry, error) {
	return f.entries, f.err
}

type fakeAuth struct {
	err        error
	loginRes   *domain.LoginResult
	token      string
	firstTime  bool
	onboarded  bool
	loggedOut  bool
	lastEmail  string
	lastCode   string
	lastPass   string
	registered domain.RegisterRequest
}

func (f *fakeAuth) Register(_ context.Context, req domain.RegisterRequest) error {
	f.registered = req
	return f.err
}

func (f *fakeAuth) RequestLogin(_ context.Context, email, password string) error {
	f.lastEmail, f.lastPass = email, password
	return f.err
}

func (f *fakeAuth) VerifyLogin(_ context.Context, email, code string) (*domain.LoginResult, error) {
	f.lastEmail, f.lastCode = email, code
	return f.loginRes, f.err
}

func (f *fakeAuth) AccessToken(context.Context) (string, error) { return f.token, f.err }

func (f *fakeAuth) Logout(context.Context) error {
	f.loggedOut = true
	return f.err
}

func (f *fakeAuth) FirstTime() (bool, error) { return f.firstTime, f.err }

func (f *fakeAuth) MarkOnboarded() error {
	f.onboarded = true
	return f.err
}

func (f *fakeAuth) RequestPasswordChange(_ context.Context, email string) error {
	f.lastEmail = email
	return f.err
}

func (f *fakeAuth) ValidatePasswordChange(_ context.Context, email, code string) error {
	f.lastEmail, f.lastCode = email, code
	return f.err
}

func (f *fakeAuth) ConfirmPasswordChange(_ context.Context, email, newPassword string) error {
	f.lastEmail, f.lastPass = email, newPassword
	return f.err
}
