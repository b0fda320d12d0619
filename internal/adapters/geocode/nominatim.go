// Package geocode resolves coordinates to street addresses.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"riconnect/internal/domain"
)

type nominatim struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

// NewNominatim returns a Geocoder backed by a Nominatim-compatible reverse endpoint,
// sending at most rps requests per second across all callers.
func NewNominatim(client *http.Client, baseURL, userAgent string, rps float64) domain.Geocoder {
	if client == nil {
		client = http.DefaultClient
	}
	if rps <= 0 {
		rps = 1
	}
	return &nominatim{
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type reverseResponse struct {
	Error   string `json:"error"`
	Address *struct {
		Road         string `json:"road"`
		Pedestrian   string `json:"pedestrian"`
		HouseNumber  string `json:"house_number"`
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		State        string `json:"state"`
		County       string `json:"county"`
		Country      string `json:"country"`
	} `json:"address"`
}

func (n *nominatim) ReverseGeocode(ctx context.Context, c domain.Coordinates) ([]domain.Placemark, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("reverse geocode: %w", err)
	}

	q := url.Values{
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
		"lat":            {strconv.FormatFloat(c.Latitude, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(c.Longitude, 'f', -1, 64)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode: %w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.StatusError{Op: "reverse geocode", StatusCode: resp.StatusCode}
	}

	var data reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode reverse geocode response: %w: %w", domain.ErrInvalidResponse, err)
	}
	// Nominatim answers 200 with an error message for points it cannot place (open sea).
	if data.Error != "" || data.Address == nil {
		return nil, nil
	}

	a := data.Address
	street := firstNonEmpty(a.Road, a.Pedestrian)
	if street != "" && a.HouseNumber != "" {
		street += " " + a.HouseNumber
	}
	return []domain.Placemark{{
		Street:  street,
		City:    firstNonEmpty(a.City, a.Town, a.Village, a.Municipality),
		Region:  firstNonEmpty(a.State, a.County),
		Country: a.Country,
	}}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
