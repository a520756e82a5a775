// Package config loads the ambient runtime configuration for the auth
// core: Cognito pool/client identifiers, token-store backing selection,
// and logging, generalizing the teacher repo's env-var-driven Config to
// the auth core's concerns.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// TokenStoreKind selects which tokenstore.Store backing to construct.
type TokenStoreKind string

const (
	TokenStoreMemory   TokenStoreKind = "memory"
	TokenStoreFile     TokenStoreKind = "file"
	TokenStorePostgres TokenStoreKind = "postgres"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Region          string
	UserPoolID      string
	AppClientID     string
	AppClientSecret string
	Paranoia        int

	TokenStore     TokenStoreKind
	TokenStorePath string
	TokenStoreDSN  string

	LogLevel string
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks the resolved config for internal consistency beyond
// what individual field parsing already catches.
func (c Config) Validate() error {
	if c.UserPoolID == "" {
		return fmt.Errorf("config: COGNITO_USER_POOL_ID is required")
	}
	if c.AppClientID == "" {
		return fmt.Errorf("config: COGNITO_APP_CLIENT_ID is required")
	}
	if c.Paranoia < 0 || c.Paranoia > 10 {
		return fmt.Errorf("config: COGNITO_PARANOIA must be in [0, 10], got %d", c.Paranoia)
	}
	switch c.TokenStore {
	case TokenStoreMemory, TokenStoreFile:
	case TokenStorePostgres:
		if c.TokenStoreDSN == "" {
			return fmt.Errorf("config: AUTH_TOKEN_STORE_DSN is required when AUTH_TOKEN_STORE=postgres")
		}
	default:
		return fmt.Errorf("config: invalid AUTH_TOKEN_STORE %q: must be one of memory, file, postgres", c.TokenStore)
	}
	return nil
}

// yamlOverlay mirrors Config's fields for unmarshaling an optional YAML
// config file; fields are pointers so "absent in YAML" is distinguishable
// from "explicitly zero".
type yamlOverlay struct {
	Region          *string `yaml:"region"`
	UserPoolID      *string `yaml:"user_pool_id"`
	AppClientID     *string `yaml:"app_client_id"`
	AppClientSecret *string `yaml:"app_client_secret"`
	Paranoia        *int    `yaml:"paranoia"`
	TokenStore      *string `yaml:"token_store"`
	TokenStorePath  *string `yaml:"token_store_path"`
	TokenStoreDSN   *string `yaml:"token_store_dsn"`
	LogLevel        *string `yaml:"log_level"`
}

// Load resolves Config from, in increasing precedence: built-in defaults,
// an optional YAML file named by AUTH_CONFIG_FILE, then environment
// variables — matching the teacher's envOrDefault precedence model, with
// the YAML layer inserted beneath it.
func Load() (Config, error) {
	cfg := Config{
		Region:     "us-east-1",
		Paranoia:   7,
		TokenStore: TokenStoreFile,
		LogLevel:   "info",
	}

	if path := os.Getenv("AUTH_CONFIG_FILE"); path != "" {
		overlay, err := loadYAMLOverlay(path)
		if err != nil {
			return Config{}, err
		}
		applyOverlay(&cfg, overlay)
	}

	applyEnv(&cfg)

	return cfg, nil
}

func loadYAMLOverlay(path string) (yamlOverlay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return yamlOverlay{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var overlay yamlOverlay
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return yamlOverlay{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return overlay, nil
}

func applyOverlay(cfg *Config, o yamlOverlay) {
	if o.Region != nil {
		cfg.Region = *o.Region
	}
	if o.UserPoolID != nil {
		cfg.UserPoolID = *o.UserPoolID
	}
	if o.AppClientID != nil {
		cfg.AppClientID = *o.AppClientID
	}
	if o.AppClientSecret != nil {
		cfg.AppClientSecret = *o.AppClientSecret
	}
	if o.Paranoia != nil {
		cfg.Paranoia = *o.Paranoia
	}
	if o.TokenStore != nil {
		cfg.TokenStore = TokenStoreKind(*o.TokenStore)
	}
	if o.TokenStorePath != nil {
		cfg.TokenStorePath = *o.TokenStorePath
	}
	if o.TokenStoreDSN != nil {
		cfg.TokenStoreDSN = *o.TokenStoreDSN
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
}

func applyEnv(cfg *Config) {
	cfg.Region = envOrDefault("COGNITO_REGION", cfg.Region)
	cfg.UserPoolID = envOrDefault("COGNITO_USER_POOL_ID", cfg.UserPoolID)
	cfg.AppClientID = envOrDefault("COGNITO_APP_CLIENT_ID", cfg.AppClientID)
	cfg.AppClientSecret = envOrDefault("COGNITO_APP_CLIENT_SECRET", cfg.AppClientSecret)
	cfg.TokenStore = TokenStoreKind(envOrDefault("AUTH_TOKEN_STORE", string(cfg.TokenStore)))
	cfg.TokenStorePath = envOrDefault("AUTH_TOKEN_STORE_PATH", cfg.TokenStorePath)
	cfg.TokenStoreDSN = envOrDefault("AUTH_TOKEN_STORE_DSN", cfg.TokenStoreDSN)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)

	if raw := os.Getenv("COGNITO_PARANOIA"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			cfg.Paranoia = v
		}
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// NewLogger builds the structured logger used throughout the module,
// matching the teacher's slog.NewJSONHandler wiring.
func NewLogger(cfg Config) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.ParseLogLevel()})
	return slog.New(handler)
}
