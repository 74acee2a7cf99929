package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/oliviakdata/data-jobs-postings/internal/cache"
	cacheredis "github.com/oliviakdata/data-jobs-postings/internal/cache/redis"
	"github.com/oliviakdata/data-jobs-postings/internal/config"
	"github.com/oliviakdata/data-jobs-postings/internal/dataset"
	"github.com/oliviakdata/data-jobs-postings/internal/events"
	"github.com/oliviakdata/data-jobs-postings/internal/insights"
	"github.com/oliviakdata/data-jobs-postings/internal/render"
	"github.com/oliviakdata/data-jobs-postings/internal/store"
	"github.com/oliviakdata/data-jobs-postings/internal/telemetry"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return zap.NewProduction()
}

func newClickHouse(cfg *config.Config, logger *zap.Logger) (clickhouse.Conn, error) {
	if !cfg.ClickHouseEnabled {
		return nil, nil
	}
	return store.Connect(context.Background(), store.Options{
		DSN:             cfg.ClickHouseDSN,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
}

func newSource(cfg *config.Config, conn clickhouse.Conn, logger *zap.Logger) (dataset.Source, error) {
	if cfg.DatasetSource == "clickhouse" {
		if conn == nil {
			return nil, fmt.Errorf("DATASET_SOURCE=clickhouse requires CLICKHOUSE_ENABLED=true")
		}
		return store.NewPostingSource(conn, logger), nil
	}
	return dataset.NewFileLoader(cfg.DatasetPath, logger), nil
}

func newRenderer(cfg *config.Config, logger *zap.Logger) (render.Renderer, error) {
	return render.NewPlotRenderer(cfg.ChartsDir, logger)
}

func newCache(cfg *config.Config) cache.Cache {
	if !cfg.RedisEnabled {
		return nil
	}
	return cacheredis.New(cache.Options{
		RedisURL:      cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DefaultTTL:    cfg.CacheTTL,
	})
}

func newSink(conn clickhouse.Conn, logger *zap.Logger) *store.SummarySink {
	if conn == nil {
		return nil
	}
	return store.NewSummarySink(conn, logger)
}

func newPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if !cfg.NATSEnabled {
		return nil, nil
	}
	return events.NewPublisher(logger, cfg)
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newClickHouse,
			newSource,
			newRenderer,
			newCache,
			newSink,
			newPublisher,
			insights.NewService,
		),
		fx.Invoke(
			registerTracing,
			registerCleanup,
			runInsights,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func registerTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.OTLPCollectorURL == "" {
		return nil
	}
	cleanup, err := telemetry.InitTracer(context.Background(), "data-jobs-insights", cfg.OTLPCollectorURL)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cleanup()
			return nil
		},
	})
	return nil
}

func registerCleanup(lc fx.Lifecycle, conn clickhouse.Conn, c cache.Cache, publisher events.Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if publisher != nil {
				publisher.Close()
			}
			if c != nil {
				if err := c.Close(); err != nil {
					return err
				}
			}
			if conn != nil {
				return conn.Close()
			}
			return nil
		},
	})
}

func runInsights(lc fx.Lifecycle, shutdowner fx.Shutdowner, svc *insights.Service, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := svc.Run(context.Background()); err != nil {
					logger.Error("insights run failed", zap.Error(err))
				}
				if err := shutdowner.Shutdown(); err != nil {
					logger.Error("failed to shut down", zap.Error(err))
				}
			}()
			return nil
		},
	})
}
