package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riconnect/internal/domain"
)

func TestClubService_Nearby(t *testing.T) {
	clubs := &fakeClubSource{clubs: []domain.Club{{ID: "c1", Name: "Boogaloo"}}}
	svc := NewClubService(clubs, passthroughEnricher{}, nil, time.Second)

	got := svc.Nearby(context.Background(), "tok", domain.Coordinates{Latitude: 45.3, Longitude: 14.4})
	require.Len(t, got, 1)
	assert.Equal(t, "Boogaloo", got[0].Name)
	assert.Equal(t, 45.3, clubs.at.Latitude)

	clubs.err = domain.ErrNetwork
	got = svc.Nearby(context.Background(), "tok", domain.Coordinates{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

type fakeClubSource struct {
	clubs []domain.Club
	err   error
	at    domain.Coordinates
}

func (f *fakeClubSource) NearbyClubs(ctx context.Context, token string, at domain.Coordinates) ([]domain.Club, error) {
	f.at = at
	return f.clubs, f.err
}
