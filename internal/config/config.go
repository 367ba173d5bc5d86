package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers understood by the storage module.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Token strategies understood by the auth module.
const (
	TokenStrategyHMAC = "hmac"
	TokenStrategyJWT  = "jwt"
)

// Config holds application level configuration loaded from a YAML file, environment and flags.
type Config struct {
	RunAddress        string
	StorageDriver     string
	DataDir           string
	DatabaseURI       string
	SQLitePath        string
	StoreTimeout      time.Duration
	TokenSecret       string
	TokenStrategy     string
	TokenTTL          time.Duration
	ReconcileInterval time.Duration
	ShutdownTimeout   time.Duration
	LogLevel          string
}

const (
	defaultRunAddress        = ":8080"
	defaultStorageDriver     = DriverFile
	defaultDataDir           = "./data"
	defaultSQLitePath        = "dispatch.db"
	defaultStoreTimeout      = 3 * time.Second
	defaultTokenSecret       = "change-me-in-production"
	defaultTokenStrategy     = TokenStrategyHMAC
	defaultTokenTTL          = 24 * time.Hour
	defaultReconcileInterval = time.Minute
	defaultShutdownTimeout   = 10 * time.Second
	defaultLogLevel          = "info"
)

// fileConfig mirrors the optional YAML configuration file.
type fileConfig struct {
	RunAddress string `yaml:"run_address"`
	Storage    struct {
		Driver      string `yaml:"driver"`
		DataDir     string `yaml:"data_dir"`
		DatabaseURI string `yaml:"database_uri"`
		SQLitePath  string `yaml:"sqlite_path"`
		Timeout     string `yaml:"timeout"`
	} `yaml:"storage"`
	Auth struct {
		Secret   string `yaml:"secret"`
		Strategy string `yaml:"strategy"`
		TTL      string `yaml:"ttl"`
	} `yaml:"auth"`
	ReconcileInterval string `yaml:"reconcile_interval"`
	ShutdownTimeout   string `yaml:"shutdown_timeout"`
	LogLevel          string `yaml:"log_level"`
}

// Load parses configuration from the config file, flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        defaultRunAddress,
		StorageDriver:     defaultStorageDriver,
		DataDir:           defaultDataDir,
		SQLitePath:        defaultSQLitePath,
		StoreTimeout:      defaultStoreTimeout,
		TokenSecret:       defaultTokenSecret,
		TokenStrategy:     defaultTokenStrategy,
		TokenTTL:          defaultTokenTTL,
		ReconcileInterval: defaultReconcileInterval,
		ShutdownTimeout:   defaultShutdownTimeout,
		LogLevel:          defaultLogLevel,
	}

	if path := configPath(args, lookup); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.RunAddress = getString(lookup, "RUN_ADDRESS", cfg.RunAddress)
	cfg.StorageDriver = getString(lookup, "STORAGE_DRIVER", cfg.StorageDriver)
	cfg.DataDir = getString(lookup, "DATA_DIR", cfg.DataDir)
	cfg.DatabaseURI = getString(lookup, "DATABASE_URI", cfg.DatabaseURI)
	cfg.SQLitePath = getString(lookup, "SQLITE_PATH", cfg.SQLitePath)
	cfg.StoreTimeout = getDuration(lookup, "STORE_TIMEOUT", cfg.StoreTimeout)
	cfg.TokenSecret = getString(lookup, "TOKEN_SECRET", cfg.TokenSecret)
	cfg.TokenStrategy = getString(lookup, "TOKEN_STRATEGY", cfg.TokenStrategy)
	cfg.TokenTTL = getDuration(lookup, "TOKEN_TTL", cfg.TokenTTL)
	cfg.ReconcileInterval = getDuration(lookup, "RECONCILE_INTERVAL", cfg.ReconcileInterval)
	cfg.ShutdownTimeout = getDuration(lookup, "SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.LogLevel = getString(lookup, "LOG_LEVEL", cfg.LogLevel)

	fs := flag.NewFlagSet("dispatch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFile           string
		storeTimeoutStr      = cfg.StoreTimeout.String()
		tokenTTLStr          = cfg.TokenTTL.String()
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&configFile, "config", "", "Path to YAML configuration file")
	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "Storage driver: file, postgres or sqlite")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding JSON collections")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "SQLite database file")
	fs.StringVar(&storeTimeoutStr, "store-timeout", storeTimeoutStr, "Timeout for a single store operation")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.TokenStrategy, "token-strategy", cfg.TokenStrategy, "Auth token format: hmac or jwt")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Auth token lifetime")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between waitlist reconciliations")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.StoreTimeout, err = time.ParseDuration(storeTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid store timeout: %w", err)
	}

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = strings.TrimSpace(string(content))
	}

	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch cfg.StorageDriver {
	case DriverFile:
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data directory must be provided for file storage")
		}
	case DriverPostgres:
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("database URI must be provided for postgres storage")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path must be provided for sqlite storage")
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	cfg.TokenStrategy = strings.ToLower(strings.TrimSpace(cfg.TokenStrategy))
	if cfg.TokenStrategy != TokenStrategyHMAC && cfg.TokenStrategy != TokenStrategyJWT {
		return nil, fmt.Errorf("unknown token strategy %q", cfg.TokenStrategy)
	}

	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("token secret must be provided")
	}

	return cfg, nil
}

// configPath finds the config file from -config/--config or CONFIG_FILE.
// Flags win over the environment.
func configPath(args []string, lookup envLookup) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return getString(lookup, "CONFIG_FILE", "")
}

func applyFile(cfg *Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(content, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&cfg.RunAddress, fc.RunAddress)
	setString(&cfg.StorageDriver, fc.Storage.Driver)
	setString(&cfg.DataDir, fc.Storage.DataDir)
	setString(&cfg.DatabaseURI, fc.Storage.DatabaseURI)
	setString(&cfg.SQLitePath, fc.Storage.SQLitePath)
	setString(&cfg.TokenSecret, fc.Auth.Secret)
	setString(&cfg.TokenStrategy, fc.Auth.Strategy)
	setString(&cfg.LogLevel, fc.LogLevel)

	durations := []struct {
		name  string
		raw   string
		field *time.Duration
	}{
		{"storage.timeout", fc.Storage.Timeout, &cfg.StoreTimeout},
		{"auth.ttl", fc.Auth.TTL, &cfg.TokenTTL},
		{"reconcile_interval", fc.ReconcileInterval, &cfg.ReconcileInterval},
		{"shutdown_timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s in config file: %w", d.name, err)
		}
		*d.field = parsed
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
