package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration, parsed from environment variables.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Storage. STORE_BACKEND selects between the flat JSON files and the
	// embedded sqlite database; both honor the same id assignment policy.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"json"`
	DataDir      string `env:"DATA_DIR" envDefault:"./data"`
	BooksFile    string `env:"BOOKS_FILE" envDefault:"books.json"`
	UsersFile    string `env:"USERS_FILE" envDefault:"users.json"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"bookshelf.db"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	BackupPath     string `env:"BACKUP_PATH" envDefault:"./backups"`
	BackupSchedule string `env:"BACKUP_SCHEDULE" envDefault:"@hourly"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StoreBackend {
	case "json", "sqlite":
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	return cfg, nil
}
