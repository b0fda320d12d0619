package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"riconnect/internal/domain"
)

// AttendanceConfig holds the tunables of the attendance service.
type AttendanceConfig struct {
	JoinLimit    int
	Points       domain.PointsSchedule
	ShareBaseURL string
	Timeout      time.Duration
}

type attendanceService struct {
	events   domain.EventSource
	profile  domain.ProfileUpdater
	states   domain.ClientStateRegistry
	gate     domain.ProximityGate
	images   domain.ImageProcessor
	uploader domain.ImageUploader
	qr       domain.QREncoder
	cfg      AttendanceConfig
	logger   *slog.Logger

	// users maps a user to the mutex serializing their join and leave calls.
	users sync.Map
}

// NewAttendanceService handles joining, sharing and photo submission. Point awards are
// best effort: a failed profile update is logged and does not fail the action.
func NewAttendanceService(
	events domain.EventSource,
	profile domain.ProfileUpdater,
	states domain.ClientStateRegistry,
	gate domain.ProximityGate,
	images domain.ImageProcessor,
	uploader domain.ImageUploader,
	qr domain.QREncoder,
	cfg AttendanceConfig,
	logger *slog.Logger,
) domain.AttendanceService {
	if cfg.JoinLimit < 1 {
		cfg.JoinLimit = domain.DefaultJoinLimit
	}
	cfg.Timeout = orDefaultTimeout(cfg.Timeout)
	cfg.ShareBaseURL = strings.TrimSuffix(cfg.ShareBaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}
	return &attendanceService{
		events:   events,
		profile:  profile,
		states:   states,
		gate:     gate,
		images:   images,
		uploader: uploader,
		qr:       qr,
		cfg:      cfg,
		logger:   logger,
	}
}

// lockUser serializes membership changes of one user, so the join limit holds
// across concurrent requests.
func (s *attendanceService) lockUser(user string) func() {
	mu, _ := s.users.LoadOrStore(user, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (s *attendanceService) Join(ctx context.Context, user, token, eventID string) (*domain.AttendanceResult, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required: %w", domain.ErrInvalidInput)
	}
	unlock := s.lockUser(user)
	joined := s.states.For(user).Joined()
	if joined.Contains(eventID) {
		unlock()
		return &domain.AttendanceResult{EventID: eventID, Attending: true, JoinedEvents: joined.IDs()}, nil
	}
	if len(joined.IDs()) >= s.cfg.JoinLimit {
		unlock()
		return nil, fmt.Errorf("already attending %d events: %w", s.cfg.JoinLimit, domain.ErrJoinLimit)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	if err := s.events.JoinEvent(callCtx, token, eventID); err != nil {
		unlock()
		return nil, fmt.Errorf("join event %s: %w", eventID, err)
	}
	joined.Add(eventID)
	ids := joined.IDs()
	unlock()

	return &domain.AttendanceResult{
		EventID:       eventID,
		Attending:     true,
		JoinedEvents:  ids,
		PointsAwarded: s.award(callCtx, token, s.cfg.Points.Join),
	}, nil
}

func (s *attendanceService) Leave(ctx context.Context, user, token, eventID string) (*domain.AttendanceResult, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required: %w", domain.ErrInvalidInput)
	}
	unlock := s.lockUser(user)
	joined := s.states.For(user).Joined()
	if !joined.Contains(eventID) {
		unlock()
		return &domain.AttendanceResult{EventID: eventID, Attending: false, JoinedEvents: joined.IDs()}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	if err := s.events.LeaveEvent(callCtx, token, eventID); err != nil {
		unlock()
		return nil, fmt.Errorf("leave event %s: %w", eventID, err)
	}
	joined.Remove(eventID)
	ids := joined.IDs()
	unlock()

	return &domain.AttendanceResult{
		EventID:       eventID,
		Attending:     false,
		JoinedEvents:  ids,
		PointsAwarded: s.award(callCtx, token, s.cfg.Points.Unjoin),
	}, nil
}

func (s *attendanceService) Joined(user string) []string {
	return s.states.For(user).Joined().IDs()
}

func (s *attendanceService) Share(ctx context.Context, token, eventID string) (*domain.ShareCard, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required: %w", domain.ErrInvalidInput)
	}
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	details, err := s.events.EventInfo(callCtx, token, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", eventID, err)
	}
	link := s.cfg.ShareBaseURL + "/events/" + url.PathEscape(eventID)
	png, err := s.qr.EncodePNG(link)
	if err != nil {
		return nil, fmt.Errorf("encode share code: %w", err)
	}

	return &domain.ShareCard{
		EventID:       eventID,
		Title:         details.Event.Title,
		URL:           link,
		QRCodePNG:     png,
		PointsAwarded: s.award(callCtx, token, s.cfg.Points.Share),
	}, nil
}

// SubmitPhoto runs the photo flow: location check, proximity gate, resize, upload,
// attach to the event and award points. Nothing is uploaded when the gate refuses.
func (s *attendanceService) SubmitPhoto(ctx context.Context, token string, sub domain.PhotoSubmission) (*domain.PhotoResult, error) {
	if sub.EventID == "" {
		return nil, fmt.Errorf("event id is required: %w", domain.ErrInvalidInput)
	}
	if sub.UserLocation == nil {
		return nil, fmt.Errorf("user location unavailable: %w", domain.ErrPermissionDenied)
	}
	if !sub.UserLocation.Valid() {
		return nil, fmt.Errorf("user location out of range: %w", domain.ErrInvalidInput)
	}
	if len(sub.Photo) == 0 {
		return nil, fmt.Errorf("photo is required: %w", domain.ErrInvalidInput)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	details, err := s.events.EventInfo(callCtx, token, sub.EventID)
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", sub.EventID, err)
	}
	eventAt, err := details.Event.Coordinates()
	if err != nil {
		return nil, fmt.Errorf("event %s location: %w", sub.EventID, err)
	}
	distance, ok := s.gate.Check(*sub.UserLocation, eventAt)
	if !ok {
		return nil, &domain.TooFarError{DistanceMeters: distance, RadiusMeters: s.gate.Radius()}
	}

	prepared, err := s.images.Prepare(sub.Photo)
	if err != nil {
		return nil, fmt.Errorf("prepare photo: %w", err)
	}
	name := fmt.Sprintf("%s-%s.jpg", sub.EventID, uuid.NewString())
	uploaded, err := s.uploader.Upload(callCtx, name, prepared)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	if err := s.events.SubmitEventImage(callCtx, token, sub.EventID, uploaded); err != nil {
		return nil, fmt.Errorf("attach photo to event %s: %w", sub.EventID, err)
	}

	return &domain.PhotoResult{
		EventID:        sub.EventID,
		ImageURL:       uploaded.CDNURL,
		DistanceMeters: distance,
		PointsAwarded:  s.award(callCtx, token, s.cfg.Points.Photo),
	}, nil
}

// award submits delta and returns the points actually credited.
func (s *attendanceService) award(ctx context.Context, token string, delta int) int {
	if delta == 0 {
		return 0
	}
	if err := s.profile.AwardPoints(ctx, token, delta); err != nil {
		s.logger.WarnContext(ctx, "award points failed", "delta", delta, "err", err)
		return 0
	}
	return delta
}
