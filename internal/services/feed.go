package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"riconnect/internal/domain"
)

// DefaultRequestTimeout bounds a single API call when no timeout is configured.
const DefaultRequestTimeout = 15 * time.Second

func orDefaultTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}

type feedService struct {
	source         domain.EventSource
	enricher       domain.Enricher
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewFeedService builds the event feeds from source, enriching every list with addresses.
// timeout bounds each API call; enrichment runs on the caller's context.
func NewFeedService(source domain.EventSource, enricher domain.Enricher, logger *slog.Logger, timeout time.Duration) domain.FeedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &feedService{
		source:         source,
		enricher:       enricher,
		logger:         logger,
		contextTimeout: orDefaultTimeout(timeout),
	}
}

func (s *feedService) Home(ctx context.Context, filters domain.FilterState) []domain.EnrichedEvent {
	return s.Search(ctx, filters.Query())
}

func (s *feedService) Search(ctx context.Context, q domain.EventQuery) []domain.EnrichedEvent {
	events, err := s.fetch(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.source.SearchEvents(ctx, q)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "search events failed", "err", err)
		return []domain.EnrichedEvent{}
	}
	return s.enricher.EnrichEvents(ctx, events)
}

func (s *feedService) MineList(ctx context.Context, token string) []domain.EnrichedEvent {
	events, err := s.fetch(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.source.ListUserEvents(ctx, token)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "list user events failed", "err", err)
		return []domain.EnrichedEvent{}
	}
	return s.enricher.EnrichEvents(ctx, events)
}

func (s *feedService) Mine(ctx context.Context, token string, now time.Time) domain.Buckets {
	events := s.MineList(ctx, token)
	b := Classify(now, events)
	if dropped := len(events) - b.Len(); dropped > 0 {
		s.logger.DebugContext(ctx, "events with unparsable dates left out of classification", "count", dropped)
	}
	return b
}

func (s *feedService) Club(ctx context.Context, clubID string) []domain.EnrichedEvent {
	events, err := s.fetch(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.source.ListClubEvents(ctx, clubID)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "list club events failed", "club_id", clubID, "err", err)
		return []domain.EnrichedEvent{}
	}
	return s.enricher.EnrichEvents(ctx, events)
}

func (s *feedService) Details(ctx context.Context, token, eventID string) (*domain.EventDetails, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required: %w", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.source.EventInfo(ctx, token, eventID)
}

func (s *feedService) fetch(ctx context.Context, call func(context.Context) ([]domain.Event, error)) ([]domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	events, err := call(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}
