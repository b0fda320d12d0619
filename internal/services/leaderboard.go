package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"riconnect/internal/domain"
)

type leaderboardService struct {
	users          domain.UserDirectory
	contextTimeout time.Duration
}

func NewLeaderboardService(users domain.UserDirectory, timeout time.Duration) domain.LeaderboardService {
	return &leaderboardService{users: users, contextTimeout: orDefaultTimeout(timeout)}
}

// Leaderboard orders users by points, highest first. Ties are broken by full name and
// then email, so ranks are stable between calls. Ranks start at 1.
func (s *leaderboardService) Leaderboard(ctx context.Context, token string) ([]domain.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.users.ListUsers(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if na, nb := fullName(a), fullName(b); na != nb {
			return na < nb
		}
		return a.Email < b.Email
	})

	out := make([]domain.LeaderboardEntry, len(users))
	for i, u := range users {
		out[i] = domain.LeaderboardEntry{Rank: i + 1, UserPoints: u}
	}
	return out, nil
}

func fullName(u domain.UserPoints) string {
	return strings.ToLower(strings.TrimSpace(u.FirstName + " " + u.LastName))
}
