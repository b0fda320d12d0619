package riconnect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"riconnect/internal/domain"
)

func (c *Client) NearbyClubs(ctx context.Context, token string, at domain.Coordinates) ([]domain.Club, error) {
	const op = "nearby clubs"
	var resp struct {
		Clubs *[]domain.Club `json:"clubs"`
	}
	err := c.call(ctx, request{
		op:     op,
		method: http.MethodGet,
		url:    c.endpoints.Clubs + "/club/get",
		token:  token,
		query: url.Values{
			"latitude":  {strconv.FormatFloat(at.Latitude, 'f', -1, 64)},
			"longitude": {strconv.FormatFloat(at.Longitude, 'f', -1, 64)},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Clubs == nil {
		return nil, fmt.Errorf("%s: response has no clubs array: %w", op, domain.ErrInvalidResponse)
	}
	if *resp.Clubs == nil {
		return []domain.Club{}, nil
	}
	return *resp.Clubs, nil
}

// AwardPoints submits a signed point delta to the user's private profile.
func (c *Client) AwardPoints(ctx context.Context, token string, delta int) error {
	return c.call(ctx, request{
		op:     "award points",
		method: http.MethodPut,
		url:    c.endpoints.Users + "/profile/info/private",
		token:  token,
		body:   map[string]int{"points": delta},
	}, nil)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.UserPoints, error) {
	const op = "list users"
	var resp struct {
		Users *[]domain.UserPoints `json:"users"`
	}
	err := c.call(ctx, request{op: op, method: http.MethodGet, url: c.endpoints.Users + "/user/all", token: token}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Users == nil {
		return nil, fmt.Errorf("%s: response has no users array: %w", op, domain.ErrInvalidResponse)
	}
	return *resp.Users, nil
}
