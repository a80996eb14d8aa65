// Package config loads settings for the ballot CLI and the development
// server. Environment variables are read with go-envconfig; the CLI also
// accepts a YAML file and explicit flags on top of them.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Client configures the command line client. Precedence, lowest first:
// defaults, config file, environment, flags.
type Client struct {
	APIBaseURL     string        `env:"API_BASE_URL, overwrite, default=http://localhost:8080/api" koanf:"api_url"`
	CredentialFile string        `env:"CREDENTIAL_FILE, overwrite"                                koanf:"credential_file"`
	LogLevel       string        `env:"LOG_LEVEL, overwrite, default=warn"                        koanf:"log_level"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT, overwrite"                                   koanf:"http_timeout"`
	Retries        int           `env:"HTTP_RETRIES, overwrite, default=2"                        koanf:"retries"`
}

// Server configures the development backend.
type Server struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET, default=dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	// VoteGuard selects the one-vote-per-voter guard: memory or redis.
	VoteGuard string `env:"VOTE_GUARD, default=memory"`
	Redis     RedisConfig

	Seed SeedConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SeedConfig is the data the development server starts with.
type SeedConfig struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL,    default=admin@ballot.local"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD, default=admin123"`
	Candidates    bool   `env:"SEED_CANDIDATES,     default=true"`
}

// LoadServer reads the server configuration from the environment.
func LoadServer(ctx context.Context) (*Server, error) {
	return loadServer(ctx, envconfig.OsLookuper())
}

func loadServer(ctx context.Context, l envconfig.Lookuper) (*Server, error) {
	var cfg Server
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: load server configuration: %w", err)
	}
	if cfg.VoteGuard != "memory" && cfg.VoteGuard != "redis" {
		return nil, fmt.Errorf("config: VOTE_GUARD must be memory or redis, got %q", cfg.VoteGuard)
	}
	return &cfg, nil
}
