package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
)

const (
	defaultConnAttempts = 10
	connRetryDelay      = time.Second
)

// NewPostgresClient connects with retries, applies the pool settings and runs pending migrations.
func NewPostgresClient(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := connectPostgres(ctx, postgresDSN(cfg), defaultConnAttempts)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxIdleTime(time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second)
	slog.Info("Postgres connected", slog.String("db", cfg.Postgres.DbName))

	if err = migratePostgres(db, cfg.Postgres.MigrationDir); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("postgres migrated successfully")

	return db, nil
}

func postgresDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable password=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.DbName,
		cfg.Postgres.Password,
	)
}

func connectPostgres(ctx context.Context, dsn string, attempts int) (*sqlx.DB, error) {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var db *sqlx.DB
		db, err = sqlx.ConnectContext(ctx, "pgx", dsn)
		if err == nil {
			return db, nil
		}

		slog.Info("Postgres is trying to connect", slog.Int("attempts left", attempts-attempt), slog.String("err", err.Error()))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("postgres connect: %w", ctx.Err())
		case <-time.After(connRetryDelay):
		}
	}

	return nil, fmt.Errorf("postgres connect after %d attempts: %w", attempts, err)
}

func migratePostgres(db *sqlx.DB, migrationDir string) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationDir), "postgres", driver)
	if err != nil {
		return fmt.Errorf("postgres migration source %s: %w", migrationDir, err)
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres migration up: %w", err)
	}

	return nil
}
