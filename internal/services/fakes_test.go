package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"riconnect/internal/domain"
	"riconnect/internal/state"
)

// fakeGeocoder resolves coordinates from a table keyed by latitude. Unknown latitudes
// return no placemark; latitudes in fail return an error.
type fakeGeocoder struct {
	mu       sync.Mutex
	byLat    map[float64]domain.Placemark
	fail     map[float64]bool
	calls    int
	inFlight int
	peak     int
	delay    time.Duration
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{byLat: map[float64]domain.Placemark{}, fail: map[float64]bool{}}
}

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinates) ([]domain.Placemark, error) {
	g.mu.Lock()
	g.calls++
	g.inFlight++
	if g.inFlight > g.peak {
		g.peak = g.inFlight
	}
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.inFlight--
		g.mu.Unlock()
	}()

	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail[c.Latitude] {
		return nil, errors.New("geocoder exploded")
	}
	if p, ok := g.byLat[c.Latitude]; ok {
		return []domain.Placemark{p}, nil
	}
	return nil, nil
}

// fakeEventSource is an in-memory EventSource.
type fakeEventSource struct {
	search    []domain.Event
	searchErr error
	lastQuery domain.EventQuery

	user    []domain.Event
	userErr error

	club    map[string][]domain.Event
	clubErr error

	info    map[string]*domain.EventDetails
	joinErr error
	// joinDelay holds each JoinEvent call open, widening the window for concurrent joins.
	joinDelay time.Duration

	mu        sync.Mutex
	joined    []string
	left      []string
	submitted map[string]domain.UploadedImage
}

func newFakeEventSource() *fakeEventSource {
	return &fakeEventSource{
		club:      map[string][]domain.Event{},
		info:      map[string]*domain.EventDetails{},
		submitted: map[string]domain.UploadedImage{},
	}
}

func (f *fakeEventSource) SearchEvents(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	f.lastQuery = q
	return f.search, f.searchErr
}

func (f *fakeEventSource) ListUserEvents(ctx context.Context, token string) ([]domain.Event, error) {
	return f.user, f.userErr
}

func (f *fakeEventSource) ListClubEvents(ctx context.Context, clubID string) ([]domain.Event, error) {
	return f.club[clubID], f.clubErr
}

func (f *fakeEventSource) EventInfo(ctx context.Context, token, eventID string) (*domain.EventDetails, error) {
	if d, ok := f.info[eventID]; ok {
		return d, nil
	}
	return nil, &domain.StatusError{Op: "event info", StatusCode: 404}
}

func (f *fakeEventSource) JoinEvent(ctx context.Context, token, eventID string) error {
	if f.joinDelay > 0 {
		time.Sleep(f.joinDelay)
	}
	if f.joinErr != nil {
		return f.joinErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, eventID)
	return nil
}

func (f *fakeEventSource) LeaveEvent(ctx context.Context, token, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.left = append(f.left, eventID)
	return nil
}

func (f *fakeEventSource) SubmitEventImage(ctx context.Context, token, eventID string, image domain.UploadedImage) error {
	f.submitted[eventID] = image
	return nil
}

type fakeProfile struct {
	mu     sync.Mutex
	deltas []int
	err    error
}

func (f *fakeProfile) AwardPoints(ctx context.Context, token string, delta int) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deltas = append(f.deltas, delta)
	return nil
}

type fakeImages struct{ err error }

func (f fakeImages) Prepare(raw []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte("jpeg:"), raw...), nil
}

type fakeUploader struct {
	names   []string
	uploads [][]byte
}

func (f *fakeUploader) Upload(ctx context.Context, name string, data []byte) (domain.UploadedImage, error) {
	f.names = append(f.names, name)
	f.uploads = append(f.uploads, data)
	return domain.UploadedImage{UUID: "u-1", CDNURL: "https://cdn.test/u-1/"}, nil
}

type fakeQR struct{ payloads []string }

func (f *fakeQR) EncodePNG(payload string) ([]byte, error) {
	f.payloads = append(f.payloads, payload)
	return []byte("png"), nil
}

// passthroughEnricher wraps events without any address.
type passthroughEnricher struct{}

func (passthroughEnricher) EnrichEvents(ctx context.Context, events []domain.Event) []domain.EnrichedEvent {
	out := make([]domain.EnrichedEvent, len(events))
	for i, e := range events {
		out[i] = domain.EnrichedEvent{Event: e}
	}
	return out
}

func (passthroughEnricher) EnrichClubs(ctx context.Context, clubs []domain.Club) []domain.EnrichedClub {
	out := make([]domain.EnrichedClub, len(clubs))
	for i, c := range clubs {
		out[i] = domain.EnrichedClub{Club: c}
	}
	return out
}

func newRegistry() domain.ClientStateRegistry { return state.NewRegistry() }

func strPtr(s string) *string { return &s }
