package riconnect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"riconnect/internal/domain"
)

func (c *Client) authURL(path string) string {
	return c.endpoints.Users + "/authentication" + path
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) error {
	return c.call(ctx, request{op: "register", method: http.MethodPost, url: c.authURL("/register"), body: req}, nil)
}

func (c *Client) RequestLogin(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.call(ctx, request{op: "request login", method: http.MethodPost, url: c.authURL("/login/request"), body: body}, nil)
}

func (c *Client) ValidateLogin(ctx context.Context, email, code string) (*domain.LoginResult, error) {
	body := map[string]string{"email": email, "six_digit_code": code}
	var res domain.LoginResult
	if err := c.call(ctx, request{op: "validate login", method: http.MethodPost, url: c.authURL("/login/validate"), body: body}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) RefreshToken(ctx context.Context, email, refreshToken string) (string, error) {
	const op = "refresh token"
	var resp struct {
		Token string `json:"token"`
	}
	err := c.call(ctx, request{
		op:     op,
		method: http.MethodGet,
		url:    c.authURL("/refresh-token"),
		query:  url.Values{"user_email": {email}, "refresh_token": {refreshToken}},
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%s: response has no token: %w", op, domain.ErrInvalidResponse)
	}
	return resp.Token, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.call(ctx, request{op: "logout", method: http.MethodPost, url: c.authURL("/logout"), token: token}, nil)
}

func (c *Client) RequestPasswordChange(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.call(ctx, request{op: "request password change", method: http.MethodPost, url: c.authURL("/change-password/request"), body: body}, nil)
}

func (c *Client) ValidatePasswordChange(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "six_digit_code": code}
	return c.call(ctx, request{op: "validate password change", method: http.MethodPost, url: c.authURL("/change-password/validate"), body: body}, nil)
}

func (c *Client) ConfirmPasswordChange(ctx context.Context, email, newPassword string) error {
	body := map[string]string{"email": email, "new_password": newPassword}
	return c.call(ctx, request{op: "confirm password change", method: http.MethodPost, url: c.authURL("/change-password/confirm"), body: body}, nil)
}
