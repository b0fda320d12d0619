package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"riconnect/internal/delivery/http/helpers"
	"riconnect/internal/delivery/http/middleware"
	"riconnect/internal/domain"
)

// FeedResponse is the data of a feed list. Message is set (localized) when the list is empty.
type FeedResponse struct {
	Events    []domain.EnrichedEvent `json:"events"`
	Message   string                 `json:"message,omitempty"`
	FromCache bool                   `json:"from_cache"`
	TakenAt   *time.Time             `json:"taken_at,omitempty"`
}

// FeedSuccessResponse is the success envelope for feed lists (200).
type FeedSuccessResponse struct {
	Data  FeedResponse      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// BucketsSuccessResponse is the success envelope for GET /feed/mine (200).
type BucketsSuccessResponse struct {
	Data  domain.Buckets    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type FeedController struct {
	Logger     *slog.Logger
	Feed       domain.FeedService
	Filters    domain.FilterService
	Snapshot   domain.FeedSnapshot
	Calendar   domain.CalendarExporter
	Translator domain.Translator
	Errors     helpers.ErrorWriter
	Now        func() time.Time
}

// NewFeedController wires the feed endpoints. snapshot may be nil.
func NewFeedController(
	logger *slog.Logger,
	feed domain.FeedService,
	filters domain.FilterService,
	snapshot domain.FeedSnapshot,
	calendar domain.CalendarExporter,
	tr domain.Translator,
	errs helpers.ErrorWriter,
) *FeedController {
	return &FeedController{
		Logger:     logger,
		Feed:       feed,
		Filters:    filters,
		Snapshot:   snapshot,
		Calendar:   calendar,
		Translator: tr,
		Errors:     errs,
		Now:        time.Now,
	}
}

// Home godoc
// @Summary Home feed
// @Description Events matching the user's stored filters, with addresses. q narrows by event name. With no active filter and no q the background snapshot is served when available. Fetch failures yield an empty list.
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param q query string false "Event name"
// @Success 200 {object} controllers.FeedSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /feed/home [get]
func (c *FeedController) Home(w http.ResponseWriter, r *http.Request) {
	email, _, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	filters := c.Filters.Get(email)

	if name := strings.TrimSpace(r.URL.Query().Get("q")); name != "" {
		q := filters.Query()
		q.Name = name
		helpers.WriteJSONSuccess(w, http.StatusOK, c.feedResponse(r, c.Feed.Search(r.Context(), q)))
		return
	}
	if filters.IsZero() && c.Snapshot != nil {
		if events, takenAt, ok := c.Snapshot.Latest(); ok {
			resp := c.feedResponse(r, events)
			resp.FromCache = true
			resp.TakenAt = &takenAt
			helpers.WriteJSONSuccess(w, http.StatusOK, resp)
			return
		}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.feedResponse(r, c.Feed.Home(r.Context(), filters)))
}

// Mine godoc
// @Summary My events
// @Description The user's events classified into live, upcoming and past at request time.
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.BucketsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /feed/mine [get]
func (c *FeedController) Mine(w http.ResponseWriter, r *http.Request) {
	_, token, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Feed.Mine(r.Context(), token, c.Now()))
}

// MineCalendar godoc
// @Summary My events as iCalendar
// @Tags feed
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {string} string "VCALENDAR document"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /feed/mine.ics [get]
func (c *FeedController) MineCalendar(w http.ResponseWriter, r *http.Request) {
	_, token, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	out, err := c.Calendar.Export("RiConnect", c.Feed.MineList(r.Context(), token))
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="riconnect.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// Club godoc
// @Summary Club events
// @Tags feed
// @Produce json
// @Param clubID path string true "Club ID"
// @Success 200 {object} controllers.FeedSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /clubs/{clubID}/events [get]
func (c *FeedController) Club(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubID")
	if clubID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing clubID")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.feedResponse(r, c.Feed.Club(r.Context(), clubID)))
}

func (c *FeedController) feedResponse(r *http.Request, events []domain.EnrichedEvent) FeedResponse {
	if events == nil {
		events = []domain.EnrichedEvent{}
	}
	resp := FeedResponse{Events: events}
	if len(events) == 0 && c.Translator != nil {
		resp.Message = c.Translator.T(r.Header.Get("Accept-Language"), domain.MsgNoEventsFound, nil)
	}
	return resp
}
