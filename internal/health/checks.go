package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"

	"github.com/zahrabeauty/storefront/internal/api"
	"github.com/zahrabeauty/storefront/internal/config"
)

// NewHealthHandler reports on the two collaborators the storefront cannot
// run without: the local Redis state store and the commerce API.
func NewHealthHandler(cfg *config.Config) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "storefront-client",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
			health.Config{
				Name:      "commerce-api",
				Timeout:   5 * time.Second,
				SkipOnErr: true,
				Check: func(ctx context.Context) error {

					url := cfg.CommerceAPI.APIBase() + "/api/v1/selling-points?is_active=true&is_sales_enabled=true"

					req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
					if err != nil {
						return fmt.Errorf("failed to build commerce api probe: %w", err)
					}

					req.Header.Set("Accept", "application/json")
					req.Header.Set(api.TerminalOriginHeader, cfg.CommerceAPI.TerminalOrigin)

					resp, err := http.DefaultClient.Do(req)
					if err != nil {
						return fmt.Errorf("failed to reach commerce api: %w", err)
					}

					defer resp.Body.Close()

					if resp.StatusCode >= 500 {
						return fmt.Errorf("commerce api unhealthy: status %d", resp.StatusCode)
					}

					return nil
				},
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build health handler: %w", err)
	}

	return h, nil
}
