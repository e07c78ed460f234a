package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/data"
	"github.com/KotFed0t/carteira_acoes/data/cache"
	"github.com/KotFed0t/carteira_acoes/data/locker"
	"github.com/KotFed0t/carteira_acoes/data/repository/postgres"
	"github.com/KotFed0t/carteira_acoes/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/carteira_acoes/internal/externalApi/finnhubApi"
	"github.com/KotFed0t/carteira_acoes/internal/notifier/telegramNotifier"
	"github.com/KotFed0t/carteira_acoes/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/carteira_acoes/internal/service/alertService"
	"github.com/KotFed0t/carteira_acoes/internal/service/quoteService"
	"github.com/KotFed0t/carteira_acoes/internal/service/walletService"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// app holds the wired services shared by all commands.
type app struct {
	cfg    *config.Config
	db     *sqlx.DB
	redis  *redis.Client
	locker *locker.RedisLocker
	drive  *googleDriveApi.GoogleDriveApi // nil when report sharing is disabled

	quotes *quoteService.QuoteService
	wallet *walletService.WalletService
	alerts *alertService.AlertService
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	db, err := data.NewPostgresClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.db = db
	pgRepo := postgres.NewPostgres(cfg, a.db)

	rdb, err := data.NewRedisClient(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.redis = rdb
	redisCache := cache.NewRedisCache(a.redis, cfg.Cache.QuotesExpiration)
	a.locker = locker.NewRedisLocker(a.redis, cfg.Jobs.AlertEvaluationLockTTL)

	a.quotes = quoteService.New(finnhubApi.New(cfg), redisCache)

	var cloudStorage walletService.CloudStorage
	if cfg.GoogleDrive.CredentialsFile != "" {
		drive, err := googleDriveApi.New(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("google drive: %w", err)
		}
		a.drive = drive
		cloudStorage = drive
	} else {
		slog.Info("report sharing disabled: GOOGLE_DRIVE_CREDENTIALS_FILE is empty")
	}

	var notifier alertService.Notifier
	if cfg.Telegram.Token != "" {
		tg, err := telegramNotifier.New(cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("telegram notifier: %w", err)
		}
		notifier = tg
	} else {
		slog.Info("alert notifications disabled: TELEGRAM_TOKEN is empty")
	}

	a.wallet = walletService.New(cfg, pgRepo, a.quotes, xslsxGenerator.New(), cloudStorage)
	a.alerts = alertService.New(cfg, pgRepo, a.quotes, notifier)

	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Error("redis close error", slog.String("err", err.Error()))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Error("postgres close error", slog.String("err", err.Error()))
		}
	}
}
