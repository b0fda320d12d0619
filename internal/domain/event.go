package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Degrees is a decimal-degree coordinate as sent by the API. The events service
// encodes coordinates as strings, the clubs service as numbers; both decode here
// and keep the raw text until Float is called.
type Degrees string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (d *Degrees) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Degrees(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("coordinate must be a string or number: %w", err)
	}
	*d = Degrees(n.String())
	return nil
}

// Float parses the coordinate.
func (d Degrees) Float() (float64, error) {
	if d == "" {
		return 0, fmt.Errorf("empty coordinate: %w", ErrInvalidInput)
	}
	f, err := strconv.ParseFloat(string(d), 64)
	if err != nil {
		return 0, fmt.Errorf("parse coordinate %q: %w", string(d), ErrInvalidInput)
	}
	return f, nil
}

// Event is a club event as returned by the RiConnect events API. It is read-only on the client.
// swagger:model Event
type Event struct {
	ID           string  `json:"event_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	StartingAt   string  `json:"startingAt"`
	EndingAt     string  `json:"endingAt"`
	Genre        string  `json:"genre"`
	Type         string  `json:"type"`
	Theme        string  `json:"theme"`
	Latitude     Degrees `json:"latitude"`
	Longitude    Degrees `json:"longitude"`
	ClubID       string  `json:"club_id,omitempty"`
	Participants *int    `json:"participants,omitempty"`
}

// Coordinates parses the event location.
func (e Event) Coordinates() (Coordinates, error) {
	return ParseCoordinates(e.Latitude, e.Longitude)
}

// EnrichedEvent is an Event decorated with its reverse-geocoded address.
// Address is nil when the lookup failed or returned no result.
// swagger:model EnrichedEvent
type EnrichedEvent struct {
	Event
	Address *string `json:"address"`
}

// Buckets is the temporal classification of a list of events.
// swagger:model Buckets
type Buckets struct {
	Live     []EnrichedEvent `json:"live"`
	Upcoming []EnrichedEvent `json:"upcoming"`
	Past     []EnrichedEvent `json:"past"`
}

// Len returns the number of classified events across all buckets.
func (b Buckets) Len() int {
	return len(b.Live) + len(b.Upcoming) + len(b.Past)
}

// timestampLayouts are the layouts accepted for startingAt/endingAt. Offset-less
// layouts are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an event timestamp in any of the accepted ISO-8601 forms.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp: %w", ErrInvalidInput)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q: %w", s, ErrInvalidInput)
}

// EventImage is a photo submitted for an event.
type EventImage struct {
	EventID string `json:"event_id"`
	CDNURL  string `json:"cdn_url"`
}

// EventDetails is the response of the event info endpoint.
// swagger:model EventDetails
type EventDetails struct {
	Event  Event        `json:"event"`
	Images []EventImage `json:"images"`
}

// UploadedImage is the reference to a photo stored on the CDN, as sent to the image endpoint.
type UploadedImage struct {
	UUID   string `json:"uuid"`
	CDNURL string `json:"cdnUrl"`
}

// EventSource is the events side of the RiConnect API.
type EventSource interface {
	SearchEvents(ctx context.Context, q EventQuery) ([]Event, error)
	ListUserEvents(ctx context.Context, token string) ([]Event, error)
	ListClubEvents(ctx context.Context, clubID string) ([]Event, error)
	EventInfo(ctx context.Context, token, eventID string) (*EventDetails, error)
	JoinEvent(ctx context.Context, token, eventID string) error
	LeaveEvent(ctx context.Context, token, eventID string) error
	SubmitEventImage(ctx context.Context, token, eventID string, image UploadedImage) error
}

// Enricher attaches addresses to events. It never fails: lookups that error leave Address nil.
type Enricher interface {
	EnrichEvents(ctx context.Context, events []Event) []EnrichedEvent
	EnrichClubs(ctx context.Context, clubs []Club) []EnrichedClub
}

// FeedService builds the event lists shown by the client. Fetch failures are logged
// and degrade to empty lists.
type FeedService interface {
	// Home returns the search feed for the given filters.
	Home(ctx context.Context, filters FilterState) []EnrichedEvent
	// Search returns the enriched results of an arbitrary search query.
	Search(ctx context.Context, q EventQuery) []EnrichedEvent
	// Mine returns the user's events classified at now.
	Mine(ctx context.Context, token string, now time.Time) Buckets
	// MineList returns the user's enriched events without classification.
	MineList(ctx context.Context, token string) []EnrichedEvent
	// Club returns the events of a club.
	Club(ctx context.Context, clubID string) []EnrichedEvent
	// Details returns the event info with its photos.
	Details(ctx context.Context, token, eventID string) (*EventDetails, error)
}

// FeedSnapshot is the most recent unfiltered home feed kept by the background refresher.
type FeedSnapshot interface {
	// Latest returns the snapshot and when it was taken; ok is false before the first refresh.
	Latest() (events []EnrichedEvent, takenAt time.Time, ok bool)
}
