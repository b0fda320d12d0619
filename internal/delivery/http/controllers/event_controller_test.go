package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riconnect/internal/delivery/http/helpers"
	"riconnect/internal/domain"
)

func eventRequest(method, path, eventID string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.SetPathValue("eventID", eventID)
	req.Header.Set("Accept-Language", "en")
	return withUser(req, "ana@example.com", "tok")
}

func TestEventController_Join(t *testing.T) {
	att := &fakeAttendance{joinRes: &domain.AttendanceResult{EventID: "e1", Attending: true, JoinedEvents: []string{"e1"}, PointsAwarded: 1}}
	c := NewEventController(testLogger, att, &fakeFeed{}, fakeTranslator{}, testErrors)

	rr := httptest.NewRecorder()
	c.Join(rr, eventRequest(http.MethodPost, "/events/e1/join", "e1"))

	require.Equal(t, http.StatusOK, rr.Code)
	var got AttendanceResponse
	require.Nil(t, envelope(t, rr, &got))
	assert.True(t, got.Attending)
	assert.Equal(t, []string{"e1"}, got.JoinedEvents)
	assert.Equal(t, "en:event_joined:map[Points:1]", got.Message)
	assert.Equal(t, "ana@example.com", att.lastUser)
	assert.Equal(t, "tok", att.lastTok)
	assert.Equal(t, "e1", att.lastID)
}

func TestEventController_JoinLimit(t *testing.T) {
	att := &fakeAttendance{joinErr: domain.ErrJoinLimit}
	c := NewEventController(testLogger, att, &fakeFeed{}, fakeTranslator{}, testErrors)

	rr := httptest.NewRecorder()
	c.Join(rr, eventRequest(http.MethodPost, "/events/e4/join", "e4"))

	assert.Equal(t, http.StatusConflict, rr.Code)
	apiErr := envelope(t, rr, nil)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeJoinLimit, apiErr.Code)
	assert.Equal(t, "en:join_limit_reached:map[Limit:3]", apiErr.Message)
}

func TestEventController_LeaveShareJoinedDetails(t *testing.T) {
	att := &fakeAttendance{
		leaveRes: &domain.AttendanceResult{EventID: "e1", JoinedEvents: []string{}},
		card:     &domain.ShareCard{EventID: "e1", URL: "https://riconnect.app/events/e1", QRCodePNG: []byte{1, 2}, PointsAwarded: 5},
		joined:   []string{"e2"},
	}
	feed := &fakeFeed{details: &domain.EventDetails{Event: domain.Event{ID: "e1", Title: "Techno"}}}
	c := NewEventController(testLogger, att, feed, fakeTranslator{}, testErrors)

	rr := httptest.NewRecorder()
	c.Leave(rr, eventRequest(http.MethodPost, "/events/e1/leave", "e1"))
	var left AttendanceResponse
	require.Nil(t, envelope(t, rr, &left))
	assert.False(t, left.Attending)
	assert.Equal(t, "en:event_left", left.Message)

	rr = httptest.NewRecorder()
	c.Share(rr, eventRequest(http.MethodPost, "/events/e1/share", "e1"))
	var shared ShareResponse
	require.Nil(t, envelope(t, rr, &shared))
	assert.Equal(t, "https://riconnect.app/events/e1", shared.URL)
	assert.Equal(t, []byte{1, 2}, shared.QRCodePNG)
	assert.Equal(t, "en:event_shared:map[Points:5]", shared.Message)

	rr = httptest.NewRecorder()
	c.Joined(rr, eventRequest(http.MethodGet, "/events/joined", ""))
	var ids []string
	require.Nil(t, envelope(t, rr, &ids))
	assert.Equal(t, []string{"e2"}, ids)

	rr = httptest.NewRecorder()
	c.Details(rr, eventRequest(http.MethodGet, "/events/e1", "e1"))
	var details domain.EventDetails
	require.Nil(t, envelope(t, rr, &details))
	assert.Equal(t, "Techno", details.Event.Title)

	feed.detailErr = &domain.StatusError{Op: "event info", StatusCode: 404}
	rr = httptest.NewRecorder()
	c.Details(rr, eventRequest(http.MethodGet, "/events/nope", "nope"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	c.Details(rr, eventRequest(http.MethodGet, "/events/", ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func photoRequest(t *testing.T, eventID string, fields map[string]string, photo []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photo != nil {
		part, err := mw.CreateFormFile("photo", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/events/"+eventID+"/photo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetPathValue("eventID", eventID)
	req.Header.Set("Accept-Language", "en")
	return withUser(req, "ana@example.com", "tok")
}

func TestEventController_SubmitPhoto(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		photo      []byte
		photoErr   error
		wantStatus int
		wantCode   string
		wantLoc    *domain.Coordinates
	}{
		{
			name:       "accepted",
			fields:     map[string]string{"latitude": "45.3271", "longitude": "14.4422"},
			photo:      []byte("jpeg"),
			wantStatus: http.StatusCreated,
			wantLoc:    &domain.Coordinates{Latitude: 45.3271, Longitude: 14.4422},
		},
		{
			name:       "no location is passed as nil",
			photo:      []byte("jpeg"),
			photoErr:   domain.ErrPermissionDenied,
			wantStatus: http.StatusForbidden,
			wantCode:   helpers.ErrCodeForbidden,
		},
		{
			name:       "too far",
			fields:     map[string]string{"latitude": "45.0", "longitude": "14.0"},
			photo:      []byte("jpeg"),
			photoErr:   &domain.TooFarError{DistanceMeters: 250, RadiusMeters: 100},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   helpers.ErrCodeTooFar,
			wantLoc:    &domain.Coordinates{Latitude: 45, Longitude: 14},
		},
		{
			name:       "bad latitude",
			fields:     map[string]string{"latitude": "north", "longitude": "14.0"},
			photo:      []byte("jpeg"),
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "missing photo",
			fields:     map[string]string{"latitude": "45.0", "longitude": "14.0"},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att := &fakeAttendance{
				photoRes: &domain.PhotoResult{EventID: "e1", ImageURL: "https://cdn/x/", DistanceMeters: 12, PointsAwarded: 10},
				photoErr: tt.photoErr,
			}
			c := NewEventController(testLogger, att, &fakeFeed{}, fakeTranslator{}, testErrors)

			rr := httptest.NewRecorder()
			c.SubmitPhoto(rr, photoRequest(t, "e1", tt.fields, tt.photo))

			require.Equal(t, tt.wantStatus, rr.Code)
			var got PhotoResponse
			apiErr := envelope(t, rr, &got)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
			} else {
				require.Nil(t, apiErr)
				assert.Equal(t, "https://cdn/x/", got.ImageURL)
				assert.Equal(t, "en:photo_submitted:map[Points:10]", got.Message)
			}
			if tt.wantCode == helpers.ErrCodeBadRequest {
				return
			}
			assert.Equal(t, "e1", att.lastSub.EventID)
			assert.Equal(t, tt.photo, att.lastSub.Photo)
			assert.Equal(t, tt.wantLoc, att.lastSub.UserLocation)
		})
	}
}
