// Package bootstrap opens the configured store and object storage for the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"docarchive/internal/config"
	"docarchive/internal/database"
	"docarchive/internal/database/migration"
	"docarchive/internal/repository"
	"docarchive/internal/repository/gormstore"
	"docarchive/internal/repository/postgres"
	"docarchive/internal/repository/realtime"
	"docarchive/internal/storage"
)

// OpenStore connects the backend selected by cfg.StoreBackend. With migrate set,
// the schema is created or updated before the store is returned.
func OpenStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger, migrate bool) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if migrate {
			if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return postgres.NewStore(db), nil

	case config.BackendGorm:
		db, err := database.NewSQLite(cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("connect sqlite: %w", err)
		}
		store := gormstore.NewStore(db)
		if migrate {
			if err := gormstore.Migrate(db); err != nil {
				_ = store.Close()
				return nil, err
			}
			logger.Info("db_migration_success", "component", "database", "backend", config.BackendGorm)
		}
		return store, nil

	case config.BackendRealtime:
		return realtime.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// OpenStorage connects the driver selected by cfg.StorageDriver.
// The "none" driver yields a nil Storage: metadata-only documents still work.
func OpenStorage(ctx context.Context, cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMinIO:
		return storage.NewMinIO(cfg.MinIO)
	case config.StorageS3:
		return storage.NewS3(ctx, cfg.S3)
	case config.StorageNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
