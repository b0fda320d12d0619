package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "riconnect/internal/delivery/http/helpers"
	"riconnect/internal/domain"
)

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate implements Validator.
func (s RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(s.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(s.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login/request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// CodeRequest is the request body for the endpoints that validate an emailed code.
type CodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate implements Validator.
func (c CodeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(c.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// EmailRequest is the request body for POST /auth/password/request.
type EmailRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (e EmailRequest) Validate() []string {
	if strings.TrimSpace(e.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// NewPasswordRequest is the request body for POST /auth/password/confirm.
type NewPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// Validate implements Validator.
func (n NewPasswordRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(n.Email) == "" {
		errs = append(errs, "email is required")
	}
	if n.NewPassword == "" {
		errs = append(errs, "new_password is required")
	}
	return errs
}

// TokenResponse is the data of POST /auth/token.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// OnboardingResponse is the data of the onboarding endpoints.
type OnboardingResponse struct {
	FirstTime bool `json:"first_time"`
}

// StatusResponse acknowledges an action with no other result.
type StatusResponse struct {
	Status string `json:"status"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
	Errors  h.ErrorWriter
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, errs h.ErrorWriter) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
		Errors:  errs,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Sign-up data"
// @Success 201 {object} h.APIResponse{data=controllers.StatusResponse}
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 502 {object} h.APIResponse "error.code: upstream_error"
// @Router /auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	err := c.Service.Register(r.Context(), domain.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, StatusResponse{Status: "registered"})
}

// RequestLogin godoc
// @Summary Request a login code
// @Description Checks the credentials; the API emails a 6-digit code.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 202 {object} h.APIResponse{data=controllers.StatusResponse}
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Router /auth/login/request [post]
func (c *AuthController) RequestLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestLogin(r.Context(), req.Email, req.Password); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, StatusResponse{Status: "code_sent"})
}

// ValidateLogin godoc
// @Summary Validate a login code
// @Description Exchanges the emailed code for tokens and stores them in secure storage.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body CodeRequest true "Email and code"
// @Success 200 {object} h.APIResponse{data=domain.LoginResult}
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Param X-Device-Key header string true "Device key printed by serve"
// @Failure 403 {object} h.APIResponse "error.code: permission_denied"
// @Router /auth/login/validate [post]
func (c *AuthController) ValidateLogin(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.VerifyLogin(r.Context(), req.Email, req.Code)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, res)
}

// Token godoc
// @Summary Current access token
// @Description Returns the stored access token, refreshing it first when it expires within a minute.
// @Tags auth
// @Produce json
// @Success 200 {object} h.APIResponse{data=controllers.TokenResponse}
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Param X-Device-Key header string true "Device key printed by serve"
// @Failure 403 {object} h.APIResponse "error.code: permission_denied"
// @Router /auth/token [post]
func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	token, err := c.Service.AccessToken(r.Context())
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, TokenResponse{Token: token, TokenType: "Bearer"})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the session on the API (best effort) and clears the stored tokens.
// @Tags auth
// @Produce json
// @Success 200 {object} h.APIResponse{data=controllers.StatusResponse}
// @Param X-Device-Key header string true "Device key printed by serve"
// @Failure 403 {object} h.APIResponse "error.code: permission_denied"
// @Router /auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Logout(r.Context()); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "logged_out"})
}

// Onboarding godoc
// @Summary Onboarding state
// @Tags auth
// @Produce json
// @Success 200 {object} h.APIResponse{data=controllers.OnboardingResponse}
// @Param X-Device-Key header string true "Device key printed by serve"
// @Failure 403 {object} h.APIResponse "error.code: permission_denied"
// @Router /auth/onboarding [get]
func (c *AuthController) Onboarding(w http.ResponseWriter, r *http.Request) {
	first, err := c.Service.FirstTime()
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, OnboardingResponse{FirstTime: first})
}

// CompleteOnboarding godoc
// @Summary Mark onboarding as done
// @Tags auth
// @Produce json
// @Success 200 {object} h.APIResponse{data=controllers.OnboardingResponse}
// @Param X-Device-Key header string true "Device key printed by serve"
// @Failure 403 {object} h.APIResponse "error.code: permission_denied"
// @Router /auth/onboarding [post]
func (c *AuthController) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.MarkOnboarded(); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, OnboardingResponse{FirstTime: false})
}

// RequestPasswordChange godoc
// @Summary Request a password change code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Email"
// @Success 202 {object} h.APIResponse{data=controllers.StatusResponse}
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Router /auth/password/request [post]
func (c *AuthController) RequestPasswordChange(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestPasswordChange(r.Context(), req.Email); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, StatusResponse{Status: "code_sent"})
}

// ValidatePasswordChange godoc
// @Summary Validate a password change code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body CodeRequest true "Email and code"
// @Success 200 {object} h.APIResponse{data=controllers.StatusResponse}
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Router /auth/password/validate [post]
func (c *AuthController) ValidatePasswordChange(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ValidatePasswordChange(r.Context(), req.Email, req.Code); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "code_valid"})
}

// ConfirmPasswordChange godoc
// @Summary Set the new password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body NewPasswordRequest true "Email and new password"
// @Success 200 {object} h.APIResponse{data=controllers.StatusResponse}
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Router /auth/password/confirm [post]
func (c *AuthController) ConfirmPasswordChange(w http.ResponseWriter, r *http.Request) {
	var req NewPasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ConfirmPasswordChange(r.Context(), req.Email, req.NewPassword); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "password_changed"})
}
