package riconnect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"riconnect/internal/domain"
)

type eventsEnvelope struct {
	Events *[]domain.Event `json:"events"`
}

func (e eventsEnvelope) list(op string) ([]domain.Event, error) {
	if e.Events == nil {
		return nil, fmt.Errorf("%s: response has no events array: %w", op, domain.ErrInvalidResponse)
	}
	if *e.Events == nil {
		return []domain.Event{}, nil
	}
	return *e.Events, nil
}

func (c *Client) SearchEvents(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	const op = "search events"
	var env eventsEnvelope
	err := c.call(ctx, request{op: op, method: http.MethodGet, url: c.endpoints.Events + "/event/search", query: q.Values()}, &env)
	if err != nil {
		return nil, err
	}
	return env.list(op)
}

// ListUserEvents returns the events the token's user has joined. The endpoint answers
// 500 when the user has none, and older deployments return a bare array.
func (c *Client) ListUserEvents(ctx context.Context, token string) ([]domain.Event, error) {
	const op = "list user events"
	_, data, err := c.send(ctx, request{op: op, method: http.MethodGet, url: c.endpoints.Events + "/events/user", token: token})
	if err != nil {
		var se *domain.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusInternalServerError {
			return []domain.Event{}, nil
		}
		return nil, err
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var events []domain.Event
		if err := decode(op, trimmed, &events); err != nil {
			return nil, err
		}
		if events == nil {
			events = []domain.Event{}
		}
		return events, nil
	}
	var env eventsEnvelope
	if err := decode(op, data, &env); err != nil {
		return nil, err
	}
	return env.list(op)
}

func (c *Client) ListClubEvents(ctx context.Context, clubID string) ([]domain.Event, error) {
	const op = "list club events"
	var env eventsEnvelope
	err := c.call(ctx, request{
		op:     op,
		method: http.MethodGet,
		url:    c.endpoints.Events + "/events/club",
		query:  url.Values{"club_id": {clubID}},
	}, &env)
	if err != nil {
		return nil, err
	}
	return env.list(op)
}

type eventIDBody struct {
	EventID string `json:"event_id"`
}

type eventInfoResponse struct {
	EventInfo   *domain.Event `json:"event_info"`
	EventImages []struct {
		EventID   string `json:"event_id"`
		ImageLink struct {
			CDNURL string `json:"cdnUrl"`
		} `json:"image_link"`
	} `json:"event_images"`
}

func (c *Client) EventInfo(ctx context.Context, token, eventID string) (*domain.EventDetails, error) {
	const op = "event info"
	var resp eventInfoResponse
	err := c.call(ctx, request{
		op:     op,
		method: http.MethodPost,
		url:    c.endpoints.Events + "/event/info",
		token:  token,
		body:   eventIDBody{EventID: eventID},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.EventInfo == nil {
		return nil, fmt.Errorf("%s: response has no event_info: %w", op, domain.ErrInvalidResponse)
	}

	details := &domain.EventDetails{Event: *resp.EventInfo, Images: []domain.EventImage{}}
	for _, img := range resp.EventImages {
		if img.ImageLink.CDNURL == "" {
			continue
		}
		details.Images = append(details.Images, domain.EventImage{EventID: eventID, CDNURL: img.ImageLink.CDNURL})
	}
	return details, nil
}

func (c *Client) JoinEvent(ctx context.Context, token, eventID string) error {
	return c.call(ctx, request{
		op:     "join event",
		method: http.MethodPost,
		url:    c.endpoints.Events + "/event/join",
		token:  token,
		body:   eventIDBody{EventID: eventID},
	}, nil)
}

func (c *Client) LeaveEvent(ctx context.Context, token, eventID string) error {
	return c.call(ctx, request{
		op:     "leave event",
		method: http.MethodPost,
		url:    c.endpoints.Events + "/event/leave",
		token:  token,
		body:   eventIDBody{EventID: eventID},
	}, nil)
}

func (c *Client) SubmitEventImage(ctx context.Context, token, eventID string, image domain.UploadedImage) error {
	body := struct {
		EventID   string               `json:"event_id"`
		ImageLink domain.UploadedImage `json:"image_link"`
	}{EventID: eventID, ImageLink: image}
	return c.call(ctx, request{
		op:     "submit event image",
		method: http.MethodPost,
		url:    c.endpoints.Events + "/event/image",
		token:  token,
		body:   body,
	}, nil)
}
