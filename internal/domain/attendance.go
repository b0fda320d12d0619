package domain

import (
	"context"
)

// PointsSchedule is the signed point delta submitted for each user action.
type PointsSchedule struct {
	Join   int
	Unjoin int
	Share  int
	Photo  int
}

// DefaultPointsSchedule returns the schedule the mobile app applies.
func DefaultPointsSchedule() PointsSchedule {
	return PointsSchedule{Join: 1, Unjoin: -1, Share: 5, Photo: 10}
}

// DefaultJoinLimit is the number of events a user may attend at once for point purposes.
const DefaultJoinLimit = 3

// ProfileUpdater submits point deltas to the user's private profile.
type ProfileUpdater interface {
	AwardPoints(ctx context.Context, token string, delta int) error
}

// AttendanceResult describes the outcome of a join or leave.
// swagger:model AttendanceResult
type AttendanceResult struct {
	EventID       string   `json:"event_id"`
	Attending     bool     `json:"attending"`
	JoinedEvents  []string `json:"joined_events"`
	PointsAwarded int      `json:"points_awarded"`
}

// ShareCard is what the client shows when the user shares an event.
// swagger:model ShareCard
type ShareCard struct {
	EventID       string `json:"event_id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	QRCodePNG     []byte `json:"qr_code_png"`
	PointsAwarded int    `json:"points_awarded"`
}

// PhotoSubmission is a photo taken at an event. UserLocation is nil when the
// location permission was denied.
type PhotoSubmission struct {
	EventID      string
	UserLocation *Coordinates
	Photo        []byte
}

// PhotoResult is the outcome of an accepted photo submission.
// swagger:model PhotoResult
type PhotoResult struct {
	EventID        string  `json:"event_id"`
	ImageURL       string  `json:"image_url"`
	DistanceMeters float64 `json:"distance_meters"`
	PointsAwarded  int     `json:"points_awarded"`
}

// AttendanceService handles join/unjoin, sharing and photo submission for one user.
type AttendanceService interface {
	Join(ctx context.Context, user, token, eventID string) (*AttendanceResult, error)
	Leave(ctx context.Context, user, token, eventID string) (*AttendanceResult, error)
	Joined(user string) []string
	Share(ctx context.Context, token, eventID string) (*ShareCard, error)
	SubmitPhoto(ctx context.Context, token string, sub PhotoSubmission) (*PhotoResult, error)
}
