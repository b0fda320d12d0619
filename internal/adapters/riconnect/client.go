// Package riconnect is the HTTP client for the RiConnect API gateways (events, clubs, users).
package riconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"riconnect/internal/domain"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// Endpoints are the base URLs of the three API gateways.
type Endpoints struct {
	Events string
	Users  string
	Clubs  string
}

// Client calls the RiConnect API. It implements domain.EventSource, domain.ClubSource,
// domain.ProfileUpdater, domain.UserDirectory and domain.AuthAPI.
type Client struct {
	client    *http.Client
	endpoints Endpoints
}

// NewClient returns a client for the given gateways.
func NewClient(client *http.Client, endpoints Endpoints) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	endpoints.Events = strings.TrimSuffix(endpoints.Events, "/")
	endpoints.Users = strings.TrimSuffix(endpoints.Users, "/")
	endpoints.Clubs = strings.TrimSuffix(endpoints.Clubs, "/")
	return &Client{client: client, endpoints: endpoints}
}

var (
	_ domain.EventSource    = (*Client)(nil)
	_ domain.ClubSource     = (*Client)(nil)
	_ domain.ProfileUpdater = (*Client)(nil)
	_ domain.UserDirectory  = (*Client)(nil)
	_ domain.AuthAPI        = (*Client)(nil)
)

type request struct {
	op     string
	method string
	url    string
	query  url.Values
	token  string
	body   any
}

// send performs the request and returns the body of a 2xx response. Transport failures
// wrap domain.ErrNetwork; other statuses are returned as *domain.StatusError.
func (c *Client) send(ctx context.Context, r request) (int, []byte, error) {
	target := r.url
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: failed to encode request: %w", r.op, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: failed to create request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w: %w", r.op, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s: failed to read response: %w: %w", r.op, domain.ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, data, &domain.StatusError{Op: r.op, StatusCode: resp.StatusCode, Message: apiMessage(data)}
	}
	return resp.StatusCode, data, nil
}

// call sends the request and decodes a JSON response into out (when out is non-nil).
func (c *Client) call(ctx context.Context, r request, out any) error {
	_, data, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(r.op, data, out)
}

func decode(op string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w: %w", op, domain.ErrInvalidResponse, err)
	}
	return nil
}

// apiMessage extracts the {"message": "..."} the gateways put in error bodies.
func apiMessage(data []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &m) == nil && m.Message != "" {
		return m.Message
	}
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
