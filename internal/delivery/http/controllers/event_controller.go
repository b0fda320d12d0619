package controllers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"riconnect/internal/delivery/http/helpers"
	"riconnect/internal/delivery/http/middleware"
	"riconnect/internal/domain"
)

// maxPhotoBytes caps the multipart body of a photo submission.
const maxPhotoBytes = 16 << 20

// AttendanceResponse is the data of a join or leave.
type AttendanceResponse struct {
	domain.AttendanceResult
	Message string `json:"message"`
}

// ShareResponse is the data of a share.
type ShareResponse struct {
	domain.ShareCard
	Message string `json:"message"`
}

// PhotoResponse is the data of an accepted photo.
type PhotoResponse struct {
	domain.PhotoResult
	Message string `json:"message"`
}

// EventDetailsSuccessResponse is the success envelope for GET /events/{eventID} (200).
type EventDetailsSuccessResponse struct {
	Data  domain.EventDetails `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type EventController struct {
	Logger     *slog.Logger
	Attendance domain.AttendanceService
	Feed       domain.FeedService
	Translator domain.Translator
	Errors     helpers.ErrorWriter
}

func NewEventController(logger *slog.Logger, attendance domain.AttendanceService, feed domain.FeedService, tr domain.Translator, errs helpers.ErrorWriter) *EventController {
	return &EventController{
		Logger:     logger,
		Attendance: attendance,
		Feed:       feed,
		Translator: tr,
		Errors:     errs,
	}
}

// Details godoc
// @Summary Event details
// @Description Event info with the CDN urls of submitted photos.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventDetailsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /events/{eventID} [get]
func (c *EventController) Details(w http.ResponseWriter, r *http.Request) {
	_, token, eventID, ok := c.target(w, r)
	if !ok {
		return
	}
	details, err := c.Feed.Details(r.Context(), token, eventID)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// Joined godoc
// @Summary Joined event ids
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse{data=[]string}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /events/joined [get]
func (c *EventController) Joined(w http.ResponseWriter, r *http.Request) {
	email, _, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Attendance.Joined(email))
}

// Join godoc
// @Summary Join an event
// @Description Registers attendance and awards join points. Joining an event twice is a no-op.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.AttendanceResponse}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: join_limit_reached"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /events/{eventID}/join [post]
func (c *EventController) Join(w http.ResponseWriter, r *http.Request) {
	email, token, eventID, ok := c.target(w, r)
	if !ok {
		return
	}
	res, err := c.Attendance.Join(r.Context(), email, token, eventID)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	msg := c.t(r, domain.MsgJoined, map[string]any{"Points": res.PointsAwarded})
	helpers.WriteJSONSuccess(w, http.StatusOK, AttendanceResponse{AttendanceResult: *res, Message: msg})
}

// Leave godoc
// @Summary Leave an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.AttendanceResponse}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /events/{eventID}/leave [post]
func (c *EventController) Leave(w http.ResponseWriter, r *http.Request) {
	email, token, eventID, ok := c.target(w, r)
	if !ok {
		return
	}
	res, err := c.Attendance.Leave(r.Context(), email, token, eventID)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AttendanceResponse{AttendanceResult: *res, Message: c.t(r, domain.MsgLeft, nil)})
}

// Share godoc
// @Summary Share an event
// @Description Returns the share link with a PNG QR code and awards share points.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.ShareResponse}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/share [post]
func (c *EventController) Share(w http.ResponseWriter, r *http.Request) {
	_, token, eventID, ok := c.target(w, r)
	if !ok {
		return
	}
	card, err := c.Attendance.Share(r.Context(), token, eventID)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	msg := c.t(r, domain.MsgShared, map[string]any{"Points": card.PointsAwarded})
	helpers.WriteJSONSuccess(w, http.StatusOK, ShareResponse{ShareCard: *card, Message: msg})
}

// SubmitPhoto godoc
// @Summary Submit an event photo
// @Description Multipart form with the photo and the user's position. The user must be within the proximity radius of the event. Omitting the position means location permission was denied.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param photo formData file true "Photo"
// @Param latitude formData number false "User latitude"
// @Param longitude formData number false "User longitude"
// @Success 201 {object} helpers.APIResponse{data=controllers.PhotoResponse}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: permission_denied"
// @Failure 422 {object} helpers.APIResponse "error.code: too_far"
// @Router /events/{eventID}/photo [post]
func (c *EventController) SubmitPhoto(w http.ResponseWriter, r *http.Request) {
	_, token, eventID, ok := c.target(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("photo")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "photo is required")
		return
	}
	defer file.Close()
	photo, err := io.ReadAll(file)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "read photo: "+err.Error())
		return
	}

	location, err := formLocation(r)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}

	res, err := c.Attendance.SubmitPhoto(r.Context(), token, domain.PhotoSubmission{
		EventID:      eventID,
		UserLocation: location,
		Photo:        photo,
	})
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	msg := c.t(r, domain.MsgPhotoSubmitted, map[string]any{"Points": res.PointsAwarded})
	helpers.WriteJSONSuccess(w, http.StatusCreated, PhotoResponse{PhotoResult: *res, Message: msg})
}

// formLocation reads latitude/longitude. Both absent means the position is unknown.
func formLocation(r *http.Request) (*domain.Coordinates, error) {
	lat := strings.TrimSpace(r.FormValue("latitude"))
	lng := strings.TrimSpace(r.FormValue("longitude"))
	if lat == "" && lng == "" {
		return nil, nil
	}
	c, err := domain.ParseCoordinates(domain.Degrees(lat), domain.Degrees(lng))
	if err != nil {
		return nil, fmt.Errorf("user location: %w", err)
	}
	return &c, nil
}

func (c *EventController) target(w http.ResponseWriter, r *http.Request) (email, token, eventID string, ok bool) {
	email, token, ok = middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", "", "", false
	}
	eventID = r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return "", "", "", false
	}
	return email, token, eventID, true
}

func (c *EventController) t(r *http.Request, key string, data map[string]any) string {
	if c.Translator == nil {
		return ""
	}
	return c.Translator.T(r.Header.Get("Accept-Language"), key, data)
}
