package domain

import "context"

// ImageProcessor normalizes a photo before upload.
type ImageProcessor interface {
	Prepare(raw []byte) ([]byte, error)
}

// ImageUploader stores a photo on the CDN.
type ImageUploader interface {
	Upload(ctx context.Context, name string, data []byte) (UploadedImage, error)
}

// QREncoder renders a payload as a PNG QR code.
type QREncoder interface {
	EncodePNG(payload string) ([]byte, error)
}

// CalendarExporter renders events as an iCalendar document.
type CalendarExporter interface {
	Export(name string, events []EnrichedEvent) ([]byte, error)
}

// Translator renders user-facing messages for a locale.
type Translator interface {
	T(locale, key string, data map[string]any) string
}

// Message keys for user-facing alerts.
const (
	MsgNoEventsFound    = "no_events_found"
	MsgTooFar           = "too_far_from_event"
	MsgJoinLimit        = "join_limit_reached"
	MsgPermissionDenied = "location_permission_denied"
	MsgJoined           = "event_joined"
	MsgLeft             = "event_left"
	MsgShared           = "event_shared"
	MsgPhotoSubmitted   = "photo_submitted"
)
