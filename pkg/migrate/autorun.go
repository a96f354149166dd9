package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
)

// SQLProvider yields the raw handle goose runs against.
type SQLProvider interface {
	SQL() (*sql.DB, error)
}

var runUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return Run(ctx, db, dir, "up")
}

// MaybeRunDev applies pending migrations when running in dev with auto-migrate enabled.
// It reports whether migrations ran.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, provider SQLProvider) (bool, error) {
	if cfg == nil || !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return false, nil
	}

	sqlDB, err := provider.SQL()
	if err != nil {
		return false, fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := runUp(ctx, sqlDB, DefaultDir); err != nil {
		return false, fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return true, nil
}
