package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/config"
)

func NewFileRepositories(profileFile, daysFile, activitiesFile string, logger internal.Logger) (DataSource, error) {
	return NewFileStorage(profileFile, daysFile, activitiesFile, logger)
}

func NewPostgresRepositories(ctx context.Context, dsn string, logger internal.Logger) (DataSource, error) {
	storage, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx); err != nil {
		storage.Close()
		return nil, err
	}
	return storage, nil
}

func NewSQLiteRepositories(ctx context.Context, path string, logger internal.Logger) (DataSource, error) {
	storage, err := NewSQLiteStorage(path, logger)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx); err != nil {
		storage.Close()
		return nil, err
	}
	return storage, nil
}

// Open builds the configured backend and wraps it in a Switch whose demo side
// serves fixture data anchored at now.
func Open(ctx context.Context, cfg *config.Config, now time.Time, logger internal.Logger) (*Switch, error) {
	var (
		primary DataSource
		err  error
	)
	switch cfg.DBType {
	case "postgres":
		primary, err = NewPostgresRepositories(ctx, cfg.DBDSN, logger)
	case "sqlite":
		primary, err = NewSQLiteRepositories(ctx, cfg.SQLitePath, logger)
	case "file":
		primary, err = NewFileRepositories(cfg.FileProfile, cfg.FileDays, cfg.FileActivities, logger)
	case "memory":
		primary = NewMemoryStorage()
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.DBType)
	}
	if err != nil {
		return nil, err
	}
	logger.Infof("storage: using %s backend (demo=%t)", cfg.DBType, cfg.DemoMode)
	return NewSwitch(primary, NewDemoStorage(now, cfg.Location()), cfg.DemoMode), nil
}
