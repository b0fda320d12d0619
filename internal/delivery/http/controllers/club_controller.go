package controllers

import (
	"net/http"

	"riconnect/internal/delivery/http/helpers"
	"riconnect/internal/delivery/http/middleware"
	"riconnect/internal/domain"
)

type ClubController struct {
	Service domain.ClubService
	Errors  helpers.ErrorWriter
}

func NewClubController(svc domain.ClubService, errs helpers.ErrorWriter) *ClubController {
	return &ClubController{Service: svc, Errors: errs}
}

// Nearby godoc
// @Summary Clubs near a position
// @Description Clubs around the given coordinates with their addresses. Fetch failures yield an empty list.
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Success 200 {object} helpers.APIResponse{data=[]domain.EnrichedClub}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /clubs/nearby [get]
func (c *ClubController) Nearby(w http.ResponseWriter, r *http.Request) {
	_, token, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	q := r.URL.Query()
	at, err := domain.ParseCoordinates(domain.Degrees(q.Get("latitude")), domain.Degrees(q.Get("longitude")))
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.Nearby(r.Context(), token, at))
}
