package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/oliviakdata/data-jobs-postings/internal/config"
	"github.com/oliviakdata/data-jobs-postings/internal/store"
	"github.com/oliviakdata/data-jobs-postings/internal/store/migrations"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	conn, err := store.Connect(ctx, store.Options{
		DSN:             cfg.ClickHouseDSN,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to ClickHouse", zap.Error(err))
	}
	defer conn.Close()

	migrator := store.NewMigrator(conn, logger)

	if err := migrator.CreateMigrationsTable(ctx); err != nil {
		logger.Fatal("Failed to create migrations table", zap.Error(err))
	}

	applied, err := migrator.GetAppliedMigrations(ctx)
	if err != nil {
		logger.Fatal("Failed to get applied migrations", zap.Error(err))
	}

	for _, migration := range migrations.All {
		if _, ok := applied[migration.Version]; ok {
			logger.Info("Migration already applied",
				zap.Int("version", migration.Version),
				zap.String("description", migration.Description),
			)
			continue
		}

		logger.Info("Applying migration",
			zap.Int("version", migration.Version),
			zap.String("description", migration.Description),
		)

		if err := migrator.ApplyMigration(ctx, migration); err != nil {
			logger.Fatal("Failed to apply migration",
				zap.Int("version", migration.Version),
				zap.Error(err),
			)
		}

		logger.Info("Successfully applied migration",
			zap.Int("version", migration.Version),
		)
	}

	logger.Info("All migrations completed successfully")
}
