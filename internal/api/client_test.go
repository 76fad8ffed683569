package api_test

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahrabeauty/storefront/internal/api"
	"github.com/zahrabeauty/storefront/internal/config"
	apperrors "github.com/zahrabeauty/storefront/internal/errors"
	"github.com/zahrabeauty/storefront/internal/models"
	"github.com/zahrabeauty/storefront/internal/testutils"
)

func newClient(t *testing.T, serverURL string) api.Client {
	t.Helper()

	client, err := api.New(&config.CommerceAPI{
		BaseURL:        serverURL + "/", // trailing slash must be tolerated
		TerminalOrigin: "WP",
	})
	require.NoError(t, err)

	return client
}

func TestRequestHeaders(t *testing.T) {
	ctx := t.Context()

	var captured http.Header

	server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		testutils.WriteJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	})

	client := newClient(t, server.URL)

	_, err := client.FetchBrands(ctx)
	require.NoError(t, err)

	assert.Equal(t, "application/json", captured.Get("Accept"))
	assert.Equal(t, "WP", captured.Get(api.TerminalOriginHeader))
	assert.NotEmpty(t, captured.Get("X-Request-ID"))
}

func TestFetchProducts(t *testing.T) {
	ctx := t.Context()

	t.Run("Current Envelope", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "lipstick", r.URL.Query().Get("keyword"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))

			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{
				"success":    true,
				"has_more":   true,
				"total_rows": 120,
				"data": []map[string]any{
					{"id": 1, "name_ar": "أحمر شفاه", "price": "9.90"},
					{"id": 2, "name_en": "Lip Liner", "price": 4},
					{"name_en": "no id, dropped", "price": 1},
				},
			})
		})

		client := newClient(t, server.URL)

		page, err := client.FetchProducts(ctx, models.ProductQuery{Page: 2, Keyword: "lipstick"})
		require.NoError(t, err)

		require.Len(t, page.Products, 2)
		assert.True(t, page.HasMore)
		assert.Equal(t, 120, page.TotalRows)
		assert.Equal(t, "أحمر شفاه", page.Products[0].Name)
		assert.InDelta(t, 9.9, page.Products[0].Price, 0.001)
	})

	t.Run("Meta Envelope", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{
				"data": []map[string]any{{"id": 5, "name_en": "Serum", "price": 25}},
				"meta": map[string]any{"total": 33},
			})
		})

		client := newClient(t, server.URL)

		page, err := client.FetchProducts(ctx, models.ProductQuery{})
		require.NoError(t, err)

		require.Len(t, page.Products, 1)
		assert.Equal(t, 33, page.TotalRows)
	})

	t.Run("Malformed Payload Degrades To Empty Page", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{"success": false})
		})

		client := newClient(t, server.URL)

		page, err := client.FetchProducts(ctx, models.ProductQuery{})
		require.NoError(t, err)
		assert.Empty(t, page.Products)
		assert.False(t, page.HasMore)
	})

	t.Run("Server Error Surfaces As AppError", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			testutils.WriteJSON(t, w, http.StatusBadGateway, map[string]any{"message": "upstream down"})
		})

		client := newClient(t, server.URL)

		_, err := client.FetchProducts(ctx, models.ProductQuery{})
		require.Error(t, err)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
		assert.Equal(t, "upstream down", appErr.Message)
	})
}

func TestFetchProduct(t *testing.T) {
	ctx := t.Context()

	t.Run("Single Document", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "42", r.URL.Query().Get("product"))
			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"id": 42, "name_en": "Toner", "price": 10},
			})
		})

		client := newClient(t, server.URL)

		product, err := client.FetchProduct(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "42", product.ID)
	})

	t.Run("One Element List", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{
				"success": true,
				"data":    []map[string]any{{"id": 42, "name_en": "Toner", "price": 10}},
			})
		})

		client := newClient(t, server.URL)

		product, err := client.FetchProduct(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "42", product.ID)
	})

	t.Run("Empty Data Is Not Found", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
		})

		client := newClient(t, server.URL)

		_, err := client.FetchProduct(ctx, "42")
		require.Error(t, err)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestFetchSellingPoints(t *testing.T) {
	ctx := t.Context()

	t.Run("Filters Applied Server Side", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.URL.Query().Get("is_active"))
			assert.Equal(t, "true", r.URL.Query().Get("is_sales_enabled"))

			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{
				"data": []map[string]any{{"id": 1, "name_ar": "فرع"}},
			})
		})

		client := newClient(t, server.URL)

		points, err := client.FetchSellingPoints(ctx)
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, "1", points[0].ID)
	})

	t.Run("HTTP Failure Degrades To Empty List", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		client := newClient(t, server.URL)

		points, err := client.FetchSellingPoints(ctx)
		require.NoError(t, err)
		assert.Empty(t, points)
	})

	t.Run("Non List Payload Degrades To Empty List", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{"data": "maintenance"})
		})

		client := newClient(t, server.URL)

		points, err := client.FetchSellingPoints(ctx)
		require.NoError(t, err)
		assert.Empty(t, points)
	})
}

func TestLogin(t *testing.T) {
	ctx := t.Context()

	t.Run("Wrong Credentials Do Not Trigger Refresh", func(t *testing.T) {
		var refreshCalls atomic.Int32

		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/v1/auth/token":
				testutils.WriteJSON(t, w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
			case "/api/v1/auth/refresh":
				refreshCalls.Add(1)
				w.WriteHeader(http.StatusOK)
			default:
				t.Errorf("unexpected request to %s", r.URL.Path)
			}
		})

		client := newClient(t, server.URL)

		err := client.Login(ctx, &models.LoginRequest{Email: "a@b.co", Password: "nope"})
		require.Error(t, err)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
		assert.Equal(t, "Invalid credentials", appErr.Message)
		assert.Zero(t, refreshCalls.Load(), "login opts out of the 401 retry")
	})

	t.Run("Credentials Are Trimmed", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			var req models.LoginRequest
			testutils.DecodeBody(t, r, &req)

			assert.Equal(t, "a@b.co", req.Email)
			assert.Equal(t, "secret", req.Password)

			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{"success": true})
		})

		client := newClient(t, server.URL)

		require.NoError(t, client.Login(ctx, &models.LoginRequest{Email: "  a@b.co ", Password: " secret "}))
	})
}

func TestMe(t *testing.T) {
	ctx := t.Context()

	t.Run("Profile Normalized", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{
				"data": map[string]any{"first_name": "Layla", "last_name": "Hassan", "email": "layla@example.com"},
			})
		})

		client := newClient(t, server.URL)

		user, err := client.Me(ctx)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Layla Hassan", user.Name)
	})

	t.Run("Profile Without Email Is Nil User", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{"data": map[string]any{"id": 1}})
		})

		client := newClient(t, server.URL)

		user, err := client.Me(ctx)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

// Concurrent 401s must share a single in-flight refresh call.
func TestSharedRefreshOn401(t *testing.T) {
	ctx := t.Context()

	const callers = 5

	var (
		refreshCalls  atomic.Int32
		unauthorized  atomic.Int32
		allUnauthOnce = make(chan struct{})
		gateOnce      sync.Once
	)

	server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/me":
			if _, err := r.Cookie("session"); err == nil {
				testutils.WriteJSON(t, w, http.StatusOK, map[string]any{"email": "layla@example.com"})

				return
			}

			if unauthorized.Add(1) == callers {
				gateOnce.Do(func() { close(allUnauthOnce) })
			}

			w.WriteHeader(http.StatusUnauthorized)

		case "/api/v1/auth/refresh":
			// Hold the refresh until every caller has seen its 401 and had
			// time to join the in-flight call.
			<-allUnauthOnce
			time.Sleep(100 * time.Millisecond)

			refreshCalls.Add(1)
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "fresh"})
			w.WriteHeader(http.StatusOK)

		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	})

	client := newClient(t, server.URL)

	var wg sync.WaitGroup

	for range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			user, err := client.Me(ctx)
			assert.NoError(t, err)
			assert.NotNil(t, user)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), refreshCalls.Load(), "exactly one refresh for all concurrent 401s")
}

func TestRefreshFailureSurfacesUnauthorized(t *testing.T) {
	ctx := t.Context()

	server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := newClient(t, server.URL)

	_, err := client.Me(ctx)
	require.Error(t, err)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUnauthorized, appErr.Code)
}

func TestSubmitOrder(t *testing.T) {
	ctx := t.Context()

	t.Run("Payload Shape", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/selling-orders/client-initialization", r.URL.Path)

			var payload map[string]any
			testutils.DecodeBody(t, r, &payload)

			assert.Equal(t, "sp-1", payload["selling_point"])
			assert.NotEmpty(t, payload["client_reference"])

			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{"success": true})
		})

		client := newClient(t, server.URL)

		order := &models.CheckoutOrder{
			Reference:    "ref-1",
			SellingPoint: "sp-1",
			Customer:     models.CustomerInfo{Name: "Layla", Email: "a@b.co", Telephone: "05", Address: "Riyadh"},
		}

		require.NoError(t, client.SubmitOrder(ctx, order))
	})

	t.Run("Failure Carries Server Message", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			testutils.WriteJSON(t, w, http.StatusUnprocessableEntity, map[string]any{"message": "selling point closed"})
		})

		client := newClient(t, server.URL)

		err := client.SubmitOrder(ctx, &models.CheckoutOrder{})
		require.Error(t, err)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "selling point closed", appErr.Message)
	})
}

func TestValidateClientVersion(t *testing.T) {
	ctx := t.Context()

	t.Run("Explicit Valid Flag", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			testutils.DecodeBody(t, r, &req)
			assert.Equal(t, "2.4.0", req["version"])

			testutils.WriteJSON(t, w, http.StatusOK, map[string]any{"valid": false})
		})

		client := newClient(t, server.URL)

		valid, err := client.ValidateClientVersion(ctx, "2.4.0")
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("Unreadable Gate Response Does Not Lock Out", func(t *testing.T) {
		server := testutils.NewJSONServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)

			if _, err := w.Write([]byte("not json")); err != nil {
				t.Errorf("failed to write response: %v", err)
			}
		})

		client := newClient(t, server.URL)

		valid, err := client.ValidateClientVersion(ctx, "2.4.0")
		require.NoError(t, err)
		assert.True(t, valid)
	})
}
