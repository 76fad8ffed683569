package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// NewJSONServer spins up an httptest server whose shutdown is tied to the
// test lifetime.
func NewJSONServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

// WriteJSON encodes v with the given status, failing the test on encode
// errors instead of silently sending a truncated body.
func WriteJSON(t *testing.T, w http.ResponseWriter, statusCode int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode test response: %v", err)
	}
}

// DecodeBody reads a request body into dest for handler-side assertions.
func DecodeBody(t *testing.T, r *http.Request, dest any) {
	t.Helper()

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		t.Errorf("failed to decode test request body: %v", err)
	}
}
