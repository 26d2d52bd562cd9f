package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	BotDebug      bool   `env:"BOT_DEBUG" envDefault:"false"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	Port          int    `env:"PORT" envDefault:"10000"`

	CatalogRevision string `env:"CATALOG_REVISION" envDefault:"v2"`
	Workers         int    `env:"WORKERS" envDefault:"8"`

	// Empty RedisAddr keeps sessions in memory.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"REDIS_TTL" envDefault:"0s"`

	Database Database `envPrefix:"DB_"`

	AdminIDs   []int64 `env:"ADMIN_IDS" envSeparator:","`
	ReportsDir string  `env:"REPORTS_DIR" envDefault:"reports"`
}

// Database is optional; an empty Host disables estimate history.
type Database struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

func (d Database) Enabled() bool {
	return d.Host != ""
}

func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("WORKERS must be at least 1, got %d", cfg.Workers)
	}
	if cfg.RedisTTL < 0 {
		return nil, fmt.Errorf("REDIS_TTL must not be negative, got %s", cfg.RedisTTL)
	}
	if cfg.Database.Enabled() && cfg.Database.Name == "" {
		return nil, fmt.Errorf("DB_NAME is required when DB_HOST is set")
	}

	return &cfg, nil
}
