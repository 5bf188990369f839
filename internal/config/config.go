// Package config loads the service settings. Defaults are overridden by an optional YAML file,
// which in turn is overridden by environment variables.
//
// Usage example:
//
//	> PORT=8080 DBHOST=localhost DBUSER=dirk DBPWD=bullo92 GIN_LOGGING=OFF go run ./cmd/service
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Port           int    `yaml:"port"           env:"PORT"`
	GinLogging     string `yaml:"ginLogging"     env:"GIN_LOGGING"`
	LogLevel       string `yaml:"logLevel"       env:"LOG_LEVEL"`
	LogDevelopment bool   `yaml:"logDevelopment" env:"LOG_DEVELOPMENT"`

	// TrustedProxies lists the IPs and CIDR ranges whose X-Forwarded-For headers are believed.
	// Without entries the client IP is the address of the TCP connection.
	TrustedProxies []string `yaml:"trustedProxies" env:"TRUSTED_PROXIES"`

	Database  Database  `yaml:"database"`
	RateLimit RateLimit `yaml:"rateLimit"`
	Report    Report    `yaml:"report"`
	Sentry    Sentry    `yaml:"sentry"`
}

// Database holds the MySQL connection parameters.
type Database struct {
	Host           string `yaml:"host"           env:"DBHOST"`
	User           string `yaml:"user"           env:"DBUSER"`
	Password       string `yaml:"password"       env:"DBPWD"`
	Name           string `yaml:"name"           env:"DBNAME"`
	MigrateOnStart bool   `yaml:"migrateOnStart" env:"DB_MIGRATE_ON_START"`
}

// RateLimit restricts how often a single client IP may submit contact requests. A zero
// RequestsPerSecond disables the limiter.
type RateLimit struct {
	RequestsPerSecond float64       `yaml:"requestsPerSecond" env:"RATE_LIMIT_RPS"`
	Burst             int           `yaml:"burst"             env:"RATE_LIMIT_BURST"`
	IdleTTL           time.Duration `yaml:"idleTTL"           env:"RATE_LIMIT_IDLE_TTL"`
}

// Report holds the URLs printed by the report command.
type Report struct {
	APIBaseURL string `yaml:"apiBaseURL" env:"API_BASE_URL"`
	DemoURL    string `yaml:"demoURL"    env:"DEMO_URL"`
}

// Sentry enables error reporting of panicking requests. An empty DSN disables it.
type Sentry struct {
	DSN         string `yaml:"dsn"         env:"SENTRY_DSN"`
	Environment string `yaml:"environment" env:"SENTRY_ENVIRONMENT"`
}

// Default returns the configuration used when neither a file nor environment variables are given.
func Default() Config {
	return Config{
		Port:     8080,
		LogLevel: "info",
		Database: Database{
			Host: "localhost:3306",
			Name: "test",
		},
		RateLimit: RateLimit{
			RequestsPerSecond: 0.2,
			Burst:             5,
			IdleTTL:           10 * time.Minute,
		},
		Report: Report{
			APIBaseURL: "https://api.qava.ai",
			DemoURL:    "https://qava.ai/demo",
		},
		Sentry: Sentry{
			Environment: "production",
		},
	}
}

// Load builds the configuration from the defaults, the YAML file at path (if path is not empty)
// and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path) // nosemgrep
		if err != nil {
			return Config{}, fmt.Errorf("could not read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("could not parse config file %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be checked by the parsers.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst == 0 {
		errs = append(errs, errors.New("rate limit burst must be positive"))
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				errs = append(errs, fmt.Errorf("invalid trusted proxy %q", proxy))
			}
		}
	}
	for _, raw := range []string{c.Report.APIBaseURL, c.Report.DemoURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid report URL %q", raw))
		}
	}
	return errors.Join(errs...)
}

// RequestLogging reports whether HTTP requests shall be logged. It is switched off with
// GIN_LOGGING=off.
func (c Config) RequestLogging() bool {
	return !strings.EqualFold(c.GinLogging, "off")
}
