package rowstore

import (
	"context"
	"fmt"

	"storytrain_landing/migrations"
	"storytrain_landing/platform/config"
	"storytrain_landing/platform/db"
	"storytrain_landing/platform/logger"
)

// Open builds the store selected by cfg. Missing settings never fail here:
// the store comes back unconfigured and every write reports ErrNotConfigured.
// Errors are returned only when a configured backend cannot be reached.
func Open(ctx context.Context, cfg config.RowStoreConfig, log *logger.Logger) (Store, error) {
	if !cfg.IsRowStoreConfigured() {
		missing := missingSettings(cfg)
		log.Warn("row store is not configured; lead and tracking writes will fail",
			"driver", cfg.GetRowStoreDriver(),
			"missing", missing,
		)
		return NewUnconfigured(missing...), nil
	}

	switch cfg.GetRowStoreDriver() {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres row store: %w", err)
		}
		if cfg.GetMigrationsEnabled() {
			if err := db.RunMigrations(ctx, pool, migrations.FS); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate postgres row store: %w", err)
			}
			log.Info("row store migrations complete")
		}
		return NewPostgresStore(pool), nil
	case config.DriverSQLite:
		store, err := OpenSQLite(cfg.GetSQLitePath())
		if err != nil {
			return nil, fmt.Errorf("open sqlite row store: %w", err)
		}
		return store, nil
	default:
		return NewRESTStore(cfg.GetRowStoreURL(), cfg.GetRowStoreAnonKey(), cfg.GetRowStoreTimeout()), nil
	}
}

func missingSettings(cfg config.RowStoreConfig) []string {
	var missing []string
	switch cfg.GetRowStoreDriver() {
	case config.DriverPostgres:
		missing = append(missing, "DATABASE_URL")
	case config.DriverSQLite:
		missing = append(missing, "SQLITE_PATH")
	default:
		if cfg.GetRowStoreURL() == "" {
			missing = append(missing, "ROWSTORE_URL")
		}
		if cfg.GetRowStoreAnonKey() == "" {
			missing = append(missing, "ROWSTORE_ANON_KEY")
		}
	}
	return missing
}
