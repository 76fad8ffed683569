package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zahrabeauty/storefront/internal/models"
)

func (c *httpClient) SubmitOrder(ctx context.Context, order *models.CheckoutOrder) error {

	_, err := c.do(ctx, http.MethodPost, "/api/v1/selling-orders/client-initialization", order, requestOptions{})

	return err
}

type versionRequest struct {
	Version string `json:"version"`
}

type versionResponse struct {
	Valid        *bool `json:"valid"`
	UpdateNeeded bool  `json:"update_needed"`
	ForcedUpdate bool  `json:"forced_update"`
}

// ValidateClientVersion asks the update gate whether this client build is
// still allowed to talk to the API.
func (c *httpClient) ValidateClientVersion(ctx context.Context, version string) (bool, error) {

	raw, err := c.do(ctx, http.MethodPost, "/api/v1/auth/client-version/validate", &versionRequest{Version: version}, requestOptions{})
	if err != nil {
		return false, err
	}

	var resp versionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		// An unreadable gate response must not lock clients out.
		return true, nil
	}

	if resp.Valid != nil {
		return *resp.Valid, nil
	}

	return !resp.ForcedUpdate, nil
}
