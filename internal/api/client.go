package api

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zahrabeauty/storefront/internal/config"
	"github.com/zahrabeauty/storefront/internal/metrics"
	"github.com/zahrabeauty/storefront/internal/models"
)

// Client defines every call the storefront makes against the commerce API.
// It is the sole network boundary of the application.
type Client interface {
	FetchProducts(ctx context.Context, query models.ProductQuery) (*models.ProductPage, error)
	FetchProduct(ctx context.Context, productID string) (*models.Product, error)
	FetchBrands(ctx context.Context) ([]models.Brand, error)
	FetchCategories(ctx context.Context) ([]models.Category, error)
	FetchSellingPoints(ctx context.Context) ([]models.SellingPoint, error)
	SubmitOrder(ctx context.Context, order *models.CheckoutOrder) error
	Login(ctx context.Context, req *models.LoginRequest) error
	Register(ctx context.Context, req *models.RegisterRequest) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.AuthUser, error)
	Refresh(ctx context.Context) error
	SendEmailVerification(ctx context.Context) error
	VerifyEmail(ctx context.Context, token string) error
	ValidateClientVersion(ctx context.Context, version string) (bool, error)
}

type httpClient struct {
	base   string
	origin string
	client *http.Client

	// refresh single-flight state; see refreshOnceShared.
	mu            sync.Mutex
	refreshing    chan struct{}
	lastRefreshOK bool
}

// New builds the commerce API client: cookie-jar session, metrics and
// tracing on the transport, base URL and terminal origin from config.
func New(cfg *config.CommerceAPI) (Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	transport := metrics.RoundTripper(otelhttp.NewTransport(http.DefaultTransport))

	return &httpClient{
		base:   cfg.APIBase(),
		origin: cfg.TerminalOrigin,
		client: &http.Client{
			Jar:       jar,
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}, nil
}
