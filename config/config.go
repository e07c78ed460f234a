package config

import (
	"log"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	Postgres           Postgres
	Redis              Redis
	HTTP               HTTP
	Auth               Auth
	API                API
	Cache              Cache
	Jobs               Jobs
	Telegram           Telegram
	GoogleDrive        GoogleDrive
	OperationsPageSize int `env:"OPERATIONS_PAGE_SIZE" envDefault:"100"`
}

type Postgres struct {
	Host            string `env:"PG_HOST"`
	Port            int    `env:"PG_PORT"`
	DbName          string `env:"PG_DB_NAME"`
	Password        string `env:"PG_PASSWORD"`
	User            string `env:"PG_USER"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"20"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"migrations"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type HTTP struct {
	Port            int           `env:"HTTP_PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"HTTP_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

type Auth struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
}

type API struct {
	Debug      bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	FinnhubApi FinnhubApi
}

type FinnhubApi struct {
	Url            string `env:"FINNHUB_API_URL" envDefault:"https://finnhub.io/api/v1"`
	Token          string `env:"FINNHUB_API_TOKEN"`
	MaxConcurrency int    `env:"FINNHUB_MAX_CONCURRENCY" envDefault:"8"`
}

type Cache struct {
	QuotesExpiration time.Duration `env:"CACHE_QUOTES_EXPIRATION" envDefault:"1m"`
}

type Jobs struct {
	AlertEvaluationInterval time.Duration `env:"ALERT_EVALUATION_INTERVAL" envDefault:"60s"`
	AlertEvaluationLockTTL  time.Duration `env:"ALERT_EVALUATION_LOCK_TTL" envDefault:"2m"`
	// quote budget of one pass; zero derives it from API_TIMEOUT and FINNHUB_MAX_CONCURRENCY
	AlertEvaluationTimeout  time.Duration `env:"ALERT_EVALUATION_TIMEOUT" envDefault:"0s"`
	// six-field crontab, seconds first
	DriveCleanupCrontab     string        `env:"DRIVE_CLEANUP_CRONTAB" envDefault:"0 0 * * * *"`
}

// Telegram notifications are disabled when Token is empty.
type Telegram struct {
	Token  string `env:"TELEGRAM_TOKEN" envDefault:""`
	ChatID int64  `env:"TELEGRAM_CHAT_ID" envDefault:"0"`
}

// Report sharing is disabled when CredentialsFile is empty.
type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

const redacted = "***"

// LogValue hides credentials when the config is logged.
func (c Config) LogValue() slog.Value {
	type plain Config
	p := plain(c)
	redact(&p.Postgres.Password)
	redact(&p.Redis.Password)
	redact(&p.Auth.JWTSecret)
	redact(&p.API.FinnhubApi.Token)
	redact(&p.Telegram.Token)
	return slog.AnyValue(p)
}

func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg, err := Load()
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	return cfg, nil
}
