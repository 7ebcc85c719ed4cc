package config

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	envPrefix     = "DRAFTBOARD_"
	envConfigPath = envPrefix + "CONFIG"
	configFlag    = "config"
)

// Load builds a Config by layering defaults, optional file, env vars and
// flags. Order of precedence (low -> high):
//  1. defaults (New())
//  2. the named profile
//  3. file (YAML) from --config or DRAFTBOARD_CONFIG
//  4. env (prefix DRAFTBOARD_)
//  5. flags that were explicitly set
//
// flags may be nil.
func Load(_ context.Context, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path := configPath(flags); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "read config file %s", path), ErrLoadConfig)
		}
	}

	// Environment variables: DRAFTBOARD_LOG_LEVEL -> log_level (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "load env"), ErrLoadConfig)
	}

	if flags != nil {
		flagProvider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(flagProvider, nil); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "load flags"), ErrLoadConfig)
		}
	}

	cfg := New()
	if name := k.String("profile"); name != "" {
		if err := cfg.UseProfile(name); err != nil {
			return nil, err
		}
	}

	// Lists replace their defaults wholesale; maps merge key by key.
	for key, reset := range map[string]func(){
		"source_columns": func() { cfg.SourceColumns = nil },
		"tiers":          func() { cfg.Tiers = nil },
	} {
		if k.Exists(key) {
			reset()
		}
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode config"), ErrLoadConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configPath(flags *pflag.FlagSet) string {
	if flags != nil {
		if f := flags.Lookup(configFlag); f != nil && f.Changed {
			return f.Value.String()
		}
	}
	return os.Getenv(envConfigPath)
}
