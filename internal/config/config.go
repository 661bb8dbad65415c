package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/me/heroconsole/pkg/model"
)

// EnvPrefix prefixes every environment override, e.g. HERO_API_URL.
const EnvPrefix = "HERO"

// ConsoleConfig holds configuration for the hero records web console.
type ConsoleConfig struct {
	Addr           string        `mapstructure:"addr"`            // Listen address (default ":8080")
	APIURL         string        `mapstructure:"api_url"`         // Hero Records API base URL
	DBPath         string        `mapstructure:"db"`              // Session database path (default ~/.hero/console.db, ":memory:" for testing)
	LogLevel       string        `mapstructure:"log_level"`       // debug, info, warn, error
	LogFormat      string        `mapstructure:"log_format"`      // text, json
	SecureCookies  bool          `mapstructure:"secure_cookies"`  // Set the Secure flag on the session cookie
	PageSize       int           `mapstructure:"page_size"`       // Default table page size
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // Timeout for calls to the API
	SessionTTL     time.Duration `mapstructure:"session_ttl"`     // Browser session lifetime
}

// DefaultConsoleConfig returns sensible defaults.
func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		Addr:           ":8080",
		APIURL:         "http://localhost:5000",
		LogLevel:       "info",
		LogFormat:      "text",
		PageSize:       model.DefaultPageSize,
		RequestTimeout: 30 * time.Second,
		SessionTTL:     24 * time.Hour,
	}
}

// Validate reports the first unusable setting.
func (c ConsoleConfig) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api_url is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// ResolveDBPath returns DBPath, or ~/.hero/console.db (creating ~/.hero) when it is empty.
func (c ConsoleConfig) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".hero")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return filepath.Join(dir, "console.db"), nil
}

// Load layers defaults, the optional config file, HERO_* environment variables and
// any flags the user changed, in increasing priority. An empty path looks for
// hero.yaml in the working directory and skips it when absent.
// Flags are matched by name with dashes read as underscores (--log-level → log_level).
func Load(path string, flags *pflag.FlagSet) (ConsoleConfig, error) {
	def := DefaultConsoleConfig()

	v := viper.New()
	v.SetDefault("addr", def.Addr)
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("db", def.DBPath)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("secure_cookies", def.SecureCookies)
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("session_ttl", def.SessionTTL)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return ConsoleConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("hero")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return ConsoleConfig{}, fmt.Errorf("read hero.yaml: %w", err)
			}
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !knownKeys[key] {
				return
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return ConsoleConfig{}, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var cfg ConsoleConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ConsoleConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ConsoleConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

var knownKeys = map[string]bool{
	"addr": true, "api_url": true, "db": true, "log_level": true, "log_format": true,
	"secure_cookies": true, "page_size": true, "request_timeout": true, "session_ttl": true,
}
