package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"riconnect/internal/delivery/http/helpers"
	"riconnect/internal/delivery/http/middleware"
	"riconnect/internal/domain"
)

// UpdateFiltersRequest is the request body for PUT /filters. It replaces the whole filter state.
type UpdateFiltersRequest struct {
	Genres []string `json:"selectedGenres"`
	Types  []string `json:"selectedTypes"`
	Themes []string `json:"selectedThemes"`
	// Date is a day in YYYY-MM-DD form; empty clears the date filter.
	Date string `json:"selectedDate"`
}

// Validate implements Validator.
func (u UpdateFiltersRequest) Validate() []string {
	var errs []string
	if u.Date != "" {
		if _, err := time.Parse(time.DateOnly, u.Date); err != nil {
			errs = append(errs, "selectedDate must be YYYY-MM-DD")
		}
	}
	return errs
}

func (u UpdateFiltersRequest) state() domain.FilterState {
	f := domain.FilterState{Genres: u.Genres, Types: u.Types, Themes: u.Themes}
	if u.Date != "" {
		d, _ := time.Parse(time.DateOnly, u.Date)
		f.Date = &d
	}
	return f
}

// PatchFiltersRequest is the request body for PATCH /filters. Omitted facets keep their
// value; an empty list clears a facet.
type PatchFiltersRequest struct {
	Genres *[]string `json:"selectedGenres,omitempty"`
	Types  *[]string `json:"selectedTypes,omitempty"`
	Themes *[]string `json:"selectedThemes,omitempty"`
	// Date is a day in YYYY-MM-DD form; null or "" clears the date filter.
	Date json.RawMessage `json:"selectedDate,omitempty" swaggertype:"string"`
}

// Validate implements Validator.
func (p PatchFiltersRequest) Validate() []string {
	if _, _, err := p.date(); err != nil {
		return []string{"selectedDate must be YYYY-MM-DD, empty or null"}
	}
	return nil
}

// date reports whether the date is present and, if so, its new value.
func (p PatchFiltersRequest) date() (set bool, d *time.Time, err error) {
	if len(p.Date) == 0 {
		return false, nil, nil
	}
	if string(p.Date) == "null" {
		return true, nil, nil
	}
	var raw string
	if err := json.Unmarshal(p.Date, &raw); err != nil {
		return false, nil, err
	}
	if raw == "" {
		return true, nil, nil
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return false, nil, err
	}
	return true, &day, nil
}

func (p PatchFiltersRequest) patch() domain.FilterPatch {
	set, d, _ := p.date()
	return domain.FilterPatch{Genres: p.Genres, Types: p.Types, Themes: p.Themes, SetDate: set, Date: d}
}

// FiltersSuccessResponse is the success envelope for the filter endpoints (200).
type FiltersSuccessResponse struct {
	Data  domain.FilterState `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type FilterController struct {
	Service domain.FilterService
	Errors  helpers.ErrorWriter
}

func NewFilterController(svc domain.FilterService, errs helpers.ErrorWriter) *FilterController {
	return &FilterController{Service: svc, Errors: errs}
}

// Catalog godoc
// @Summary Filter catalog
// @Description Genres, types and themes offered by the filters screen.
// @Tags filters
// @Produce json
// @Success 200 {object} helpers.APIResponse{data=domain.FilterCatalog}
// @Router /filters/catalog [get]
func (c *FilterController) Catalog(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.Catalog())
}

// Get godoc
// @Summary Current filters
// @Tags filters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.FiltersSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /filters [get]
func (c *FilterController) Get(w http.ResponseWriter, r *http.Request) {
	email, _, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.Get(email))
}

// Replace godoc
// @Summary Replace filters
// @Description Tags must belong to the catalog (matched case-insensitively) and are de-duplicated.
// @Tags filters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateFiltersRequest true "New filter state"
// @Success 200 {object} controllers.FiltersSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_filter"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /filters [put]
func (c *FilterController) Replace(w http.ResponseWriter, r *http.Request) {
	email, _, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateFiltersRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	f, err := c.Service.Replace(email, req.state())
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, f)
}

// Update godoc
// @Summary Update filters
// @Description Changes only the facets present in the body. Tags must belong to the catalog.
// @Tags filters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PatchFiltersRequest true "Facets to change"
// @Success 200 {object} controllers.FiltersSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_filter"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /filters [patch]
func (c *FilterController) Update(w http.ResponseWriter, r *http.Request) {
	email, _, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req PatchFiltersRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	f, err := c.Service.Update(email, req.patch())
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, f)
}

// Clear godoc
// @Summary Clear filters
// @Tags filters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.FiltersSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /filters [delete]
func (c *FilterController) Clear(w http.ResponseWriter, r *http.Request) {
	email, _, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	c.Service.Clear(email)
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.Get(email))
}
