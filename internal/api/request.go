package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/zahrabeauty/storefront/internal/errors"
)

// TerminalOriginHeader identifies whether a request originates from the web
// ("WP") or mobile ("MP") storefront terminal.
const TerminalOriginHeader = "x-request-terminal-origin"

const fallbackErrorMessage = "Request failed"

type requestOptions struct {
	// skipRefreshRetry disables the 401 refresh-and-retry for requests that
	// are themselves part of the session lifecycle.
	skipRefreshRetry bool
}

func (c *httpClient) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {

	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.InternalError("Failed to encode request payload").WithError(err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, apperrors.InternalError("Failed to build request").WithError(err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(TerminalOriginHeader, c.origin)
	req.Header.Set("X-Request-ID", uuid.NewString())

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do issues one request, replaying it at most once after a shared session
// refresh when the first attempt comes back 401. It returns the raw response
// body for 2xx responses and an AppError carrying status and parsed body
// otherwise.
func (c *httpClient) do(ctx context.Context, method, path string, payload any, opts requestOptions) ([]byte, error) {

	send := func() (*http.Response, error) {
		req, err := c.newRequest(ctx, method, path, payload)
		if err != nil {
			return nil, err
		}

		return c.client.Do(req)
	}

	resp, err := send()
	if err != nil {
		return nil, apperrors.NetworkError("Failed to reach the commerce API").WithError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !opts.skipRefreshRetry {

		drainAndClose(resp)

		if c.refreshOnceShared(ctx) {
			resp, err = send()
			if err != nil {
				return nil, apperrors.NetworkError("Failed to reach the commerce API").WithError(err)
			}
		} else {
			return nil, apperrors.UnauthorizedError("Session expired").
				WithDetail(method + " " + path)
		}
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NetworkError("Failed to read response body").WithError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {

		parsed := safeJSONParse(raw)

		message := fallbackErrorMessage
		if m, ok := parsed["message"].(string); ok && m != "" {
			message = m
		}

		return nil, apperrors.APIError(message, resp.StatusCode).WithBody(parsed)
	}

	return raw, nil
}

// refreshOnceShared coordinates the 401 recovery: however many requests hit
// a 401 around the same moment, exactly one refresh call goes out and every
// waiter shares its outcome.
func (c *httpClient) refreshOnceShared(ctx context.Context) bool {

	c.mu.Lock()

	if c.refreshing != nil {
		ch := c.refreshing
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return false
		}

		c.mu.Lock()
		ok := c.lastRefreshOK
		c.mu.Unlock()

		return ok
	}

	ch := make(chan struct{})
	c.refreshing = ch
	c.mu.Unlock()

	ok := c.Refresh(ctx) == nil

	c.mu.Lock()
	c.lastRefreshOK = ok
	c.refreshing = nil
	c.mu.Unlock()

	close(ch)

	return ok
}

func safeJSONParse(raw []byte) map[string]any {
	var parsed map[string]any

	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}

	return parsed
}

func drainAndClose(resp *http.Response) {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		slog.Debug("Failed to drain response body", slog.String("error", err.Error()))
	}

	resp.Body.Close()
}
