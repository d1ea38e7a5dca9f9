// Package config loads UI server settings from defaults, an optional config
// file, QRCODE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. QRCODE_BACKEND_URL.
	EnvPrefix = "QRCODE"

	defaultListen          = "127.0.0.1:4173"
	defaultBackendURL      = "http://localhost:9292"
	defaultBackendTimeout  = 10 * time.Second
	defaultLogDir          = "data/logs"
	defaultSessionTTL      = 30 * time.Minute
	defaultLogLevel        = "info"
	defaultMetadataTimeout = 5 * time.Second
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// BackendConfig points at the QR code generation service.
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AppConfig locates templates, static assets and log files. Empty template
// and asset paths mean the embedded copies are served.
type AppConfig struct {
	Templates string `mapstructure:"templates"`
	Assets    string `mapstructure:"assets"`
	Logs      string `mapstructure:"logs"`
}

// SessionConfig controls in-memory session expiry.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LogConfig sets the minimum log level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// MetadataConfig bounds URL metadata lookups.
type MetadataConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the resolved runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	App      AppConfig      `mapstructure:"app"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
	Metadata MetadataConfig `mapstructure:"metadata"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server:   ServerConfig{Listen: defaultListen},
		Backend:  BackendConfig{URL: defaultBackendURL, Timeout: defaultBackendTimeout},
		App:      AppConfig{Logs: defaultLogDir},
		Session:  SessionConfig{TTL: defaultSessionTTL},
		Log:      LogConfig{Level: defaultLogLevel},
		Metadata: MetadataConfig{Timeout: defaultMetadataTimeout},
	}
}

// FlagKeys maps command-line flag names onto config keys.
var FlagKeys = map[string]string{
	"listen":           "server.listen",
	"backend-url":      "backend.url",
	"backend-timeout":  "backend.timeout",
	"templates":        "app.templates",
	"assets":           "app.assets",
	"logs":             "app.logs",
	"session-ttl":      "session.ttl",
	"log-level":        "log.level",
	"metadata-timeout": "metadata.timeout",
}

// RegisterFlags adds the override flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String("listen", def.Server.Listen, "address to listen on")
	fs.String("backend-url", def.Backend.URL, "base URL of the QR code service")
	fs.Duration("backend-timeout", def.Backend.Timeout, "timeout for QR code service requests")
	fs.String("templates", "", "directory of HTML templates (default embedded)")
	fs.String("assets", "", "directory of static assets (default embedded)")
	fs.String("logs", def.App.Logs, "directory for log files, empty to log to stdout only")
	fs.Duration("session-ttl", def.Session.TTL, "how long idle sessions are kept")
	fs.String("log-level", def.Log.Level, "minimum log level (debug, info, warn, error)")
	fs.Duration("metadata-timeout", def.Metadata.Timeout, "timeout for URL metadata lookups")
}

// Load resolves configuration. path may be empty; flags may be nil. Only
// flags the user actually set override lower layers.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("server.listen", def.Server.Listen)
	v.SetDefault("backend.url", def.Backend.URL)
	v.SetDefault("backend.timeout", def.Backend.Timeout)
	v.SetDefault("app.templates", def.App.Templates)
	v.SetDefault("app.assets", def.App.Assets)
	v.SetDefault("app.logs", def.App.Logs)
	v.SetDefault("session.ttl", def.Session.TTL)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("metadata.timeout", def.Metadata.Timeout)
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Listen) == "" {
		errs = append(errs, errors.New("server.listen must not be empty"))
	}
	if u, err := url.Parse(c.Backend.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend.url must be an absolute http(s) URL, got %q", c.Backend.URL))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend.timeout must be positive"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Metadata.Timeout <= 0 {
		errs = append(errs, errors.New("metadata.timeout must be positive"))
	}
	return errors.Join(errs...)
}
