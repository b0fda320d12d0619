package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"riconnect/internal/domain"
)

const (
	minPasswordLen = 8
	// tokenRefreshSkew is how close to expiry a stored access token is refreshed.
	tokenRefreshSkew = 60 * time.Second
)

var (
	emailRegexp     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	loginCodeRegexp = regexp.MustCompile(`^\d{6}$`)
)

type authService struct {
	api            domain.AuthAPI
	store          domain.SecureStore
	verifier       domain.TokenVerifier
	states         domain.ClientStateRegistry
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time

	// refreshMu serialises refreshes so concurrent callers do not spend the refresh token twice.
	refreshMu sync.Mutex
}

// NewAuthService manages the session of the device user. Tokens live in store; the
// joined-events list returned at login seeds the user's client state.
func NewAuthService(api domain.AuthAPI, store domain.SecureStore, verifier domain.TokenVerifier, states domain.ClientStateRegistry, logger *slog.Logger, timeout time.Duration) domain.AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		api:            api,
		store:          store,
		verifier:       verifier,
		states:         states,
		logger:         logger,
		contextTimeout: orDefaultTimeout(timeout),
		now:            time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) error {
	req.Email = normalizeEmail(req.Email)
	if !emailRegexp.MatchString(req.Email) {
		return fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrInvalidInput)
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return fmt.Errorf("first and last name are required: %w", domain.ErrInvalidInput)
	}
	if req.Age <= 0 {
		return fmt.Errorf("age must be positive: %w", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.api.Register(ctx, req)
}

func (s *authService) RequestLogin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("password is required: %w", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.api.RequestLogin(ctx, email, password)
}

func (s *authService) VerifyLogin(ctx context.Context, email, code string) (*domain.LoginResult, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	if !loginCodeRegexp.MatchString(code) {
		return nil, fmt.Errorf("login code must be 6 digits: %w", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	res, err := s.api.ValidateLogin(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, fmt.Errorf("validate login: empty token: %w", domain.ErrInvalidResponse)
	}

	if res.EventIDs != nil {
		s.states.For(email).Joined().Replace(res.EventIDs)
	}
	if s.store != nil {
		if err := s.store.Set(domain.KeyJWTToken, res.Token); err != nil {
			return nil, fmt.Errorf("store access token: %w", err)
		}
		if err := s.store.Set(domain.KeyRefreshToken, res.RefreshToken); err != nil {
			return nil, fmt.Errorf("store refresh token: %w", err)
		}
	}
	return res, nil
}

func (s *authService) AccessToken(ctx context.Context) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	token, err := s.stored(domain.KeyJWTToken)
	if err != nil {
		return "", err
	}
	claims, err := s.verifier.Claims(token)
	if err != nil {
		return "", fmt.Errorf("stored access token: %w: %w", domain.ErrUnauthorized, err)
	}
	if claims.ExpiresAt.IsZero() || claims.ExpiresAt.Sub(s.now()) > tokenRefreshSkew {
		return token, nil
	}

	refresh, err := s.stored(domain.KeyRefreshToken)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	fresh, err := s.api.RefreshToken(ctx, claims.Email, refresh)
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	if err := s.store.Set(domain.KeyJWTToken, fresh); err != nil {
		return "", fmt.Errorf("store access token: %w", err)
	}
	s.logger.DebugContext(ctx, "access token refreshed", "email", claims.Email)
	return fresh, nil
}

// Logout revokes the session on the API (best effort) and forgets the stored tokens.
func (s *authService) Logout(ctx context.Context) error {
	token, err := s.stored(domain.KeyJWTToken)
	if err != nil {
		return err
	}
	callCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	if err := s.api.Logout(callCtx, token); err != nil {
		s.logger.WarnContext(ctx, "logout request failed", "err", err)
	}
	if claims, err := s.verifier.Claims(token); err == nil {
		s.states.For(claims.Email).Joined().Replace(nil)
	}
	for _, key := range []string{domain.KeyJWTToken, domain.KeyRefreshToken} {
		if err := s.store.Delete(key); err != nil {
			return fmt.Errorf("forget %s: %w", key, err)
		}
	}
	return nil
}

// FirstTime reports whether the onboarding screens have not been completed on this device.
func (s *authService) FirstTime() (bool, error) {
	if s.store == nil {
		return true, nil
	}
	_, ok, err := s.store.Get(domain.KeyFirstTime)
	if err != nil {
		return false, fmt.Errorf("read onboarding flag: %w", err)
	}
	return !ok, nil
}

func (s *authService) MarkOnboarded() error {
	if s.store == nil {
		return fmt.Errorf("no secure store configured: %w", domain.ErrInvalidInput)
	}
	return s.store.Set(domain.KeyFirstTime, "false")
}

func (s *authService) RequestPasswordChange(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.api.RequestPasswordChange(ctx, email)
}

func (s *authService) ValidatePasswordChange(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	if !loginCodeRegexp.MatchString(code) {
		return fmt.Errorf("code must be 6 digits: %w", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.api.ValidatePasswordChange(ctx, email, code)
}

func (s *authService) ConfirmPasswordChange(ctx context.Context, email, newPassword string) error {
	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.api.ConfirmPasswordChange(ctx, email, newPassword)
}

// stored reads a token from the secure store. Values written by older app versions are
// JSON-quoted strings and are unquoted here.
func (s *authService) stored(key string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("no secure store configured: %w", domain.ErrUnauthorized)
	}
	v, ok, err := s.store.Get(key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || v == "" {
		return "", fmt.Errorf("no %s stored: %w", key, domain.ErrUnauthorized)
	}
	if strings.HasPrefix(v, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(v), &unquoted); err == nil {
			v = unquoted
		}
	}
	return v, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
