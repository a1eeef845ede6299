package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Token store kinds accepted in TOKEN_STORE.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,       default=3000"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Backend BackendConfig
	Token   TokenConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:5000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=30s"`
	// PreviewURL is the origin serving /preview/{id}; defaults to URL.
	PreviewURL string `env:"PREVIEW_URL"`
}

type TokenConfig struct {
	Store string `env:"TOKEN_STORE, default=file"`
	File  string `env:"TOKEN_FILE,  default=.growthzi/session.json"`
	Key   string `env:"TOKEN_KEY,   default=token"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads an optional .env file, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Token.Store = strings.ToLower(strings.TrimSpace(c.Token.Store))
	switch c.Token.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("TOKEN_STORE %q: want file, redis or memory", c.Token.Store)
	}
	if c.Token.Key == "" {
		return errors.New("TOKEN_KEY must not be empty")
	}

	if err := checkURL("BACKEND_URL", c.Backend.URL); err != nil {
		return err
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Backend.PreviewURL == "" {
		c.Backend.PreviewURL = c.Backend.URL
	} else if err := checkURL("PREVIEW_URL", c.Backend.PreviewURL); err != nil {
		return err
	}
	return nil
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s %q: want an absolute http(s) URL", name, raw)
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
