package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	defaults := Defaults()
	if err := k.Load(defaultsProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load from config file if it exists
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file: %w", err)
			}
		}
	} else {
		// Try default config paths
		for _, path := range []string{"config.yaml", "config.yml"} {
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
					return nil, fmt.Errorf("loading config file: %w", err)
				}
				break
			}
		}
	}

	// 3. Load from environment variables (LINKDEN_ prefix)
	if err := k.Load(env.Provider("LINKDEN_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "LINKDEN_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// 4. Load from CLI flags
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	// 5. Unmarshal into struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
	}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// 6. Validate
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

type defaultsProviderStruct struct {
	defaults *Config
}

func defaultsProvider(defaults *Config) *defaultsProviderStruct {
	return &defaultsProviderStruct{defaults: defaults}
}

func (d *defaultsProviderStruct) ReadBytes() ([]byte, error) {
	return nil, nil
}

func (d *defaultsProviderStruct) Read() (map[string]interface{}, error) {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"host":            d.defaults.Server.Host,
			"port":            d.defaults.Server.Port,
			"public_url":      d.defaults.Server.PublicURL,
			"allowed_origins": d.defaults.Server.AllowedOrigins,
			"tls": map[string]interface{}{
				"mode":      d.defaults.Server.TLS.Mode,
				"cert_file": d.defaults.Server.TLS.CertFile,
				"key_file":  d.defaults.Server.TLS.KeyFile,
				"auto": map[string]interface{}{
					"domain":    d.defaults.Server.TLS.Auto.Domain,
					"email":     d.defaults.Server.TLS.Auto.Email,
					"cache_dir": d.defaults.Server.TLS.Auto.CacheDir,
				},
			},
		},
		"database": map[string]interface{}{
			"path": d.defaults.Database.Path,
		},
		"log": map[string]interface{}{
			"level":  d.defaults.Log.Level,
			"format": d.defaults.Log.Format,
		},
		"auth": map[string]interface{}{
			"session_duration": d.defaults.Auth.SessionDuration.String(),
		},
		"og": map[string]interface{}{
			"mode":     d.defaults.OG.Mode,
			"endpoint": d.defaults.OG.Endpoint,
			"timeout":  d.defaults.OG.Timeout.String(),
		},
		"rate_limit": map[string]interface{}{
			"enabled": d.defaults.RateLimit.Enabled,
			"rps":     d.defaults.RateLimit.RPS,
			"burst":   d.defaults.RateLimit.Burst,
		},
	}, nil
}

func SetupFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("linkden", pflag.ContinueOnError)
	flags.String("config", "", "Path to config file")
	flags.String("server.host", "", "Server host")
	flags.Int("server.port", 0, "Server port")
	flags.String("server.public_url", "", "Public URL")
	flags.StringSlice("server.allowed_origins", nil, "Allowed CORS origins")
	flags.String("server.tls.mode", "", "TLS mode: off, manual, or auto")
	flags.String("server.tls.cert_file", "", "TLS certificate file (manual mode)")
	flags.String("server.tls.key_file", "", "TLS key file (manual mode)")
	flags.String("server.tls.auto.domain", "", "Domain for automatic TLS (auto mode)")
	flags.String("server.tls.auto.email", "", "Contact email for Let's Encrypt (auto mode)")
	flags.String("server.tls.auto.cache_dir", "", "Certificate cache directory (auto mode)")
	flags.String("database.path", "", "Database path")
	flags.String("log.level", "", "Log level: debug, info, warn, or error")
	flags.String("log.format", "", "Log format: text or json")
	flags.Duration("auth.session_duration", 0, "Session duration")
	flags.String("og.mode", "", "Metadata fetch mode: direct or crawler")
	flags.String("og.endpoint", "", "Crawler service endpoint (crawler mode)")
	flags.Duration("og.timeout", 0, "Metadata fetch timeout")
	flags.Bool("rate_limit.enabled", false, "Enable rate limiting")
	return flags
}
