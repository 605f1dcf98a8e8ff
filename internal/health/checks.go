package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthHttp "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const booksPath = "/api/books"

// NewHealthHandler reports the backend and, when cart or admin state lives
// in Redis, the Redis connection.
func NewHealthHandler(cfg *config.Config) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "backend",
			Timeout:   5 * time.Second,
			SkipOnErr: false,
			Check: healthHttp.New(healthHttp.Config{
				URL:            strings.TrimRight(cfg.Backend.BaseURL, "/") + booksPath,
				RequestTimeout: 3 * time.Second,
			}),
		},
	}

	if cfg.Storage.Driver == "redis" {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.Storage.Redis.GetDSN(),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "bookstore-storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
