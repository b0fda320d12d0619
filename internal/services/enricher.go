package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"riconnect/internal/domain"
)

// DefaultGeocodeConcurrency bounds the reverse-geocoding lookups in flight per batch.
const DefaultGeocodeConcurrency = 8

type enricher struct {
	geocoder domain.Geocoder
	limit    int
	logger   *slog.Logger
}

// NewEnricher returns an Enricher that resolves addresses with geocoder, running at most
// limit lookups at once. A limit below 1 uses DefaultGeocodeConcurrency.
func NewEnricher(geocoder domain.Geocoder, limit int, logger *slog.Logger) domain.Enricher {
	if limit < 1 {
		limit = DefaultGeocodeConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &enricher{geocoder: geocoder, limit: limit, logger: logger}
}

func (e *enricher) EnrichEvents(ctx context.Context, events []domain.Event) []domain.EnrichedEvent {
	addrs := e.resolveAll(ctx, "event", len(events), func(i int) (string, domain.Degrees, domain.Degrees) {
		return events[i].ID, events[i].Latitude, events[i].Longitude
	})
	out := make([]domain.EnrichedEvent, len(events))
	for i, ev := range events {
		out[i] = domain.EnrichedEvent{Event: ev, Address: addrs[i]}
	}
	return out
}

func (e *enricher) EnrichClubs(ctx context.Context, clubs []domain.Club) []domain.EnrichedClub {
	addrs := e.resolveAll(ctx, "club", len(clubs), func(i int) (string, domain.Degrees, domain.Degrees) {
		return clubs[i].ID, clubs[i].Latitude, clubs[i].Longitude
	})
	out := make([]domain.EnrichedClub, len(clubs))
	for i, c := range clubs {
		out[i] = domain.EnrichedClub{Club: c, Address: addrs[i]}
	}
	return out
}

// resolveAll looks up n locations concurrently. The result has one slot per input, in
// input order; a slot stays nil when its lookup failed, found nothing or was cancelled.
func (e *enricher) resolveAll(ctx context.Context, kind string, n int, at func(i int) (id string, lat, lng domain.Degrees)) []*string {
	addrs := make([]*string, n)
	if n == 0 {
		return addrs
	}

	var g errgroup.Group
	g.SetLimit(e.limit)
	for i := range n {
		g.Go(func() error {
			id, lat, lng := at(i)
			addr, err := e.resolve(ctx, lat, lng)
			if err != nil {
				e.logger.WarnContext(ctx, "reverse geocoding failed", "kind", kind, "id", id, "err", err)
				return nil
			}
			addrs[i] = addr
			return nil
		})
	}
	// Tasks never return an error; per-item failures only leave their slot nil.
	_ = g.Wait()
	return addrs
}

func (e *enricher) resolve(ctx context.Context, lat, lng domain.Degrees) (*string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeocode, err)
	}
	c, err := domain.ParseCoordinates(lat, lng)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeocode, err)
	}
	placemarks, err := e.geocoder.ReverseGeocode(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeocode, err)
	}
	if len(placemarks) == 0 {
		return nil, nil
	}
	addr := domain.FormatAddress(placemarks[0])
	return &addr, nil
}
