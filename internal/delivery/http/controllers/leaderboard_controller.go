package controllers

import (
	"net/http"

	"riconnect/internal/delivery/http/helpers"
	"riconnect/internal/delivery/http/middleware"
	"riconnect/internal/domain"
)

// LeaderboardResponse is one page of the leaderboard.
type LeaderboardResponse struct {
	Items      []domain.LeaderboardEntry `json:"items"`
	Pagination helpers.PageMeta          `json:"pagination"`
}

// LeaderboardSuccessResponse is the success envelope for GET /leaderboard (200).
type LeaderboardSuccessResponse struct {
	Data  LeaderboardResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type LeaderboardController struct {
	Service domain.LeaderboardService
	Errors  helpers.ErrorWriter
}

func NewLeaderboardController(svc domain.LeaderboardService, errs helpers.ErrorWriter) *LeaderboardController {
	return &LeaderboardController{Service: svc, Errors: errs}
}

// List godoc
// @Summary Leaderboard
// @Description Users ranked by points (ties by name). Paginated.
// @Tags leaderboard
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.LeaderboardSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /leaderboard [get]
func (c *LeaderboardController) List(w http.ResponseWriter, r *http.Request) {
	_, token, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	entries, err := c.Service.Leaderboard(r.Context(), token)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	items, meta := helpers.Paginate(entries, helpers.ParsePageRequest(r))
	helpers.WriteJSONSuccess(w, http.StatusOK, LeaderboardResponse{Items: items, Pagination: meta})
}
