package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	MinScoreInterval = 60 * time.Second
	HardMaxLimit     = 5000
)

type Config struct {
	Env            string `env:"APP_ENV" envDefault:"development"`
	ListenAddr     string `env:"LISTEN_ADDR" envDefault:":8080"`
	DatabaseURL    string `env:"DATABASE_URL"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPMaxConns   int    `env:"HTTP_MAX_CONNS" envDefault:"64"`
	DBMaxConns     int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	ScoreTimerEnabled bool          `env:"BOT_SCORE_TIMER_ENABLED" envDefault:"false"`
	ScoreInterval     time.Duration `env:"BOT_SCORE_INTERVAL" envDefault:"15m"`
	ScoreDefaultLimit int           `env:"BOT_SCORE_DEFAULT_LIMIT" envDefault:"200"`
	ScoreMaxLimit     int           `env:"BOT_SCORE_MAX_LIMIT" envDefault:"5000"`
	ScoreWorkers      int           `env:"BOT_SCORE_WORKERS" envDefault:"1"`
	StoreMaxRetries   int           `env:"STORE_MAX_RETRIES" envDefault:"3"`
}

// Load reads an optional .env file, then the environment. A missing
// DATABASE_URL is returned as an error alongside a usable config so callers
// can decide.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

func (c *Config) normalize() {
	if c.ScoreInterval < MinScoreInterval {
		c.ScoreInterval = MinScoreInterval
	}
	if c.ScoreMaxLimit <= 0 || c.ScoreMaxLimit > HardMaxLimit {
		c.ScoreMaxLimit = HardMaxLimit
	}
	if c.ScoreDefaultLimit <= 0 {
		c.ScoreDefaultLimit = 200
	}
	c.ScoreDefaultLimit = min(c.ScoreDefaultLimit, c.ScoreMaxLimit)
	if c.ScoreWorkers < 1 {
		c.ScoreWorkers = 1
	}
	if c.StoreMaxRetries < 0 {
		c.StoreMaxRetries = 0
	}
}
