package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/platewise/foodscan-cli/internal/history"
	"github.com/platewise/foodscan-cli/internal/store"
	"github.com/platewise/foodscan-cli/pkg/foodapi"
)

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite", "":
		path := cfg.Store.Path
		if path == "" {
			path = "foodscan.db"
		}
		st, err = store.NewSQLite(path)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "memory":
		st = store.NewMem()
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// initRepository opens the configured store and wraps it in a history
// repository. The caller owns the returned store and must close it.
func initRepository(ctx context.Context) (*history.Repository, store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return history.New(st), st, nil
}

func newBackendClient() foodapi.Client {
	timeout := time.Duration(cfg.Backend.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	perSec := cfg.Backend.RatePerSec
	if perSec <= 0 {
		perSec = 2
	}
	return foodapi.NewClient(
		foodapi.WithBaseURL(cfg.Backend.BaseURL),
		foodapi.WithHTTPClient(&http.Client{Timeout: timeout}),
		foodapi.WithRateLimiter(rate.NewLimiter(rate.Limit(perSec), 1)),
	)
}
