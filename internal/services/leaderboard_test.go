package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riconnect/internal/domain"
)

type fakeDirectory struct {
	users []domain.UserPoints
	err   error
}

func (f fakeDirectory) ListUsers(ctx context.Context, token string) ([]domain.UserPoints, error) {
	return append([]domain.UserPoints(nil), f.users...), f.err
}

func TestLeaderboardService_Leaderboard(t *testing.T) {
	dir := fakeDirectory{users: []domain.UserPoints{
		{Email: "c@x.hr", FirstName: "Marko", LastName: "Horvat", Points: 12},
		{Email: "a@x.hr", FirstName: "Ana", LastName: "Kovač", Points: 40.5},
		{Email: "b@x.hr", FirstName: "Ivo", LastName: "Babić", Points: 12},
		{Email: "d@x.hr", FirstName: "Ivo", LastName: "Babić", Points: 12},
		{Email: "e@x.hr", FirstName: "Luka", LastName: "Perić", Points: 0},
	}}

	got, err := NewLeaderboardService(dir, time.Second).Leaderboard(context.Background(), "tok")
	require.NoError(t, err)

	var emails []string
	for i, e := range got {
		assert.Equal(t, i+1, e.Rank)
		emails = append(emails, e.Email)
	}
	assert.Equal(t, []string{"a@x.hr", "b@x.hr", "d@x.hr", "c@x.hr", "e@x.hr"}, emails)
}

func TestLeaderboardService_Error(t *testing.T) {
	_, err := NewLeaderboardService(fakeDirectory{err: &domain.StatusError{Op: "list users", StatusCode: 401}}, 0).
		Leaderboard(context.Background(), "tok")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
