package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	config "github.com/cognitive-shield/sentinel/configs"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/db"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/health"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/redis"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/storage"
)

// openStore builds the key-value backend selected by STORE_DRIVER along with its
// health checkers. The returned func releases the underlying connection.
func openStore(cfg *config.Config, logger *logrus.Logger) (ports.KVStore, []ports.HealthChecker, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		logger.Warn("Using in-memory store; results and visit log are lost on restart")
		return storage.NewMemory(), nil, func() {}, nil

	case "redis":
		client, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Connected to Redis successfully")
		return redis.NewRedisStore(client, cfg.Redis.Prefix),
			[]ports.HealthChecker{health.NewRedisHealthChecker(client)},
			func() { _ = client.Close() }, nil

	case "sqlite", "postgres":
		var (
			database *db.Database
			err      error
		)
		if cfg.Store.Driver == "sqlite" {
			database, err = db.NewSQLite(cfg.Store.SQLitePath)
		} else {
			database, err = db.NewPostgresWithConfig(&cfg.Database)
		}
		if err != nil {
			return nil, nil, nil, err
		}
		logger.WithField("dialect", database.Dialect).Info("Connected to database successfully")

		if err := database.Migrate(); err != nil {
			_ = database.Close()
			return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return db.NewSQLStore(database),
			[]ports.HealthChecker{health.NewDBHealthChecker(database)},
			func() { _ = database.Close() }, nil
	}
	return nil, nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
