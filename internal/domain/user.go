package domain

import (
	"context"
	"time"
)

// Secure storage keys.
const (
	KeyJWTToken     = "jwtToken"
	KeyRefreshToken = "refreshToken"
	KeyFirstTime    = "firstTime"
)

// SecureStore is on-device secret storage holding string values by key.
type SecureStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// TokenClaims are the fields the client reads from an access token.
type TokenClaims struct {
	Email     string
	ExpiresAt time.Time
}

// TokenVerifier checks an access token's shape and expiry and returns the user's email.
// The client has no signing secret; the API remains the authority on signatures.
type TokenVerifier interface {
	Verify(token string) (email string, err error)
	Claims(token string) (TokenClaims, error)
}

// RegisterRequest is the sign-up payload.
// swagger:model RegisterRequest
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginResult is returned when a login code is validated.
// swagger:model LoginResult
type LoginResult struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	EventIDs     []string `json:"event_ids,omitempty"`
}

// AuthAPI is the authentication side of the RiConnect API.
type AuthAPI interface {
	Register(ctx context.Context, req RegisterRequest) error
	RequestLogin(ctx context.Context, email, password string) error
	ValidateLogin(ctx context.Context, email, code string) (*LoginResult, error)
	RefreshToken(ctx context.Context, email, refreshToken string) (string, error)
	Logout(ctx context.Context, token string) error
	RequestPasswordChange(ctx context.Context, email string) error
	ValidatePasswordChange(ctx context.Context, email, code string) error
	ConfirmPasswordChange(ctx context.Context, email, newPassword string) error
}

// AuthService manages the login session.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) error
	RequestLogin(ctx context.Context, email, password string) error
	VerifyLogin(ctx context.Context, email, code string) (*LoginResult, error)
	// AccessToken returns the stored access token, refreshing it when it is about to expire.
	AccessToken(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	FirstTime() (bool, error)
	MarkOnboarded() error
	RequestPasswordChange(ctx context.Context, email string) error
	ValidatePasswordChange(ctx context.Context, email, code string) error
	ConfirmPasswordChange(ctx context.Context, email, newPassword string) error
}

// UserPoints is one user as listed by the users endpoint.
type UserPoints struct {
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Points    float64 `json:"points"`
}

// LeaderboardEntry is a ranked user.
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	UserPoints
}

// UserDirectory lists users with their points.
type UserDirectory interface {
	ListUsers(ctx context.Context, token string) ([]UserPoints, error)
}

// LeaderboardService ranks users by points.
type LeaderboardService interface {
	Leaderboard(ctx context.Context, token string) ([]LeaderboardEntry, error)
}
