package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/zahrabeauty/storefront/internal/models"
)

// The token, refresh and logout endpoints opt out of the 401 retry: a failed
// login must not trigger a refresh of the session it is trying to establish.

func (c *httpClient) Login(ctx context.Context, req *models.LoginRequest) error {

	payload := &models.LoginRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: strings.TrimSpace(req.Password),
	}

	_, err := c.do(ctx, http.MethodPost, "/api/v1/auth/token", payload, requestOptions{skipRefreshRetry: true})

	return err
}

func (c *httpClient) Register(ctx context.Context, req *models.RegisterRequest) error {

	_, err := c.do(ctx, http.MethodPost, "/api/v1/users/clients", req, requestOptions{skipRefreshRetry: true})

	return err
}

func (c *httpClient) Logout(ctx context.Context) error {

	_, err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, requestOptions{skipRefreshRetry: true})

	return err
}

// Me probes the session cookie and normalizes whatever profile envelope the
// backend answers with. A payload without a usable email yields an
// unauthenticated nil user together with a nil error.
func (c *httpClient) Me(ctx context.Context) (*models.AuthUser, error) {

	raw, err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, requestOptions{})
	if err != nil {
		return nil, err
	}

	return models.NormalizeAuthUser(raw), nil
}

func (c *httpClient) Refresh(ctx context.Context) error {

	_, err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, requestOptions{skipRefreshRetry: true})

	return err
}

func (c *httpClient) SendEmailVerification(ctx context.Context) error {

	_, err := c.do(ctx, http.MethodPost, "/api/v1/auth/send-email-verification", nil, requestOptions{})

	return err
}

func (c *httpClient) VerifyEmail(ctx context.Context, token string) error {

	_, err := c.do(ctx, http.MethodPost, "/api/v1/auth/verify-email?token="+url.QueryEscape(token), nil, requestOptions{skipRefreshRetry: true})

	return err
}
