package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/pflag"
)

// LoadClient builds the client configuration from the YAML file at path
// (optional; a missing file is ignored), the environment, and the flags in
// fs that were set explicitly. fs may be nil.
func LoadClient(ctx context.Context, path string, flags *pflag.FlagSet) (*Client, error) {
	return loadClient(ctx, path, flags, envconfig.OsLookuper())
}

func loadClient(ctx context.Context, path string, flags *pflag.FlagSet, l envconfig.Lookuper) (*Client, error) {
	var cfg Client

	if path != "" {
		k := koanf.New(".")
		err := k.Load(file.Provider(path), yaml.Parser())
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := k.Unmarshal("", &cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		}
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: load client configuration: %w", err)
	}

	if flags != nil {
		k := koanf.New(".")
		provider := posflag.ProviderWithFlag(flags, ".", nil, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("config: read flags: %w", err)
		}
		if err := k.Unmarshal("", &cfg); err != nil {
			return nil, fmt.Errorf("config: decode flags: %w", err)
		}
	}

	if cfg.Retries < 0 {
		return nil, fmt.Errorf("config: retries must not be negative, got %d", cfg.Retries)
	}
	return &cfg, nil
}
