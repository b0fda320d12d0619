package services

import (
	"context"
	"log/slog"
	"time"

	"riconnect/internal/domain"
)

type clubService struct {
	source         domain.ClubSource
	enricher       domain.Enricher
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewClubService lists clubs near a position with their addresses.
func NewClubService(source domain.ClubSource, enricher domain.Enricher, logger *slog.Logger, timeout time.Duration) domain.ClubService {
	if logger == nil {
		logger = slog.Default()
	}
	return &clubService{source: source, enricher: enricher, logger: logger, contextTimeout: orDefaultTimeout(timeout)}
}

func (s *clubService) Nearby(ctx context.Context, token string, at domain.Coordinates) []domain.EnrichedClub {
	fetchCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	clubs, err := s.source.NearbyClubs(fetchCtx, token, at)
	cancel()
	if err != nil {
		s.logger.ErrorContext(ctx, "nearby clubs failed", "err", err)
		return []domain.EnrichedClub{}
	}
	return s.enricher.EnrichClubs(ctx, clubs)
}
