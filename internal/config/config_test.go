package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envFrom(env map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, envFrom(nil))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}

	if cfg.RunAddress != defaultRunAddress {
		t.Errorf("expected default run address %q, got %q", defaultRunAddress, cfg.RunAddress)
	}
	if cfg.StorageDriver != DriverFile {
		t.Errorf("expected file storage by default, got %q", cfg.StorageDriver)
	}
	if cfg.DataDir != defaultDataDir {
		t.Errorf("expected default data dir %q, got %q", defaultDataDir, cfg.DataDir)
	}
	if cfg.StoreTimeout != defaultStoreTimeout {
		t.Errorf("expected default store timeout %v, got %v", defaultStoreTimeout, cfg.StoreTimeout)
	}
	if cfg.TokenStrategy != TokenStrategyHMAC {
		t.Errorf("expected hmac strategy by default, got %q", cfg.TokenStrategy)
	}
	if cfg.TokenSecret != defaultTokenSecret {
		t.Errorf("expected default token secret, got %q", cfg.TokenSecret)
	}
	if cfg.ReconcileInterval != defaultReconcileInterval {
		t.Errorf("expected default reconcile interval %v, got %v", defaultReconcileInterval, cfg.ReconcileInterval)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}
}

func TestLoadWithFlagOverrides(t *testing.T) {
	env := map[string]string{
		"RUN_ADDRESS":        ":7070",
		"STORAGE_DRIVER":     "sqlite",
		"STORE_TIMEOUT":      "5s",
		"RECONCILE_INTERVAL": "30s",
	}

	args := []string{
		"-a", ":9090",
		"-storage", "postgres",
		"-d", "postgres://override",
		"--store-timeout", "7s",
		"--token-strategy", "JWT",
		"--token-ttl", "2h",
		"--shutdown-timeout", "15s",
		"--log-level", "debug",
	}

	cfg, err := load(args, envFrom(env))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}

	if cfg.RunAddress != ":9090" {
		t.Errorf("expected run address override, got %q", cfg.RunAddress)
	}
	if cfg.StorageDriver != DriverPostgres {
		t.Errorf("expected postgres driver override, got %q", cfg.StorageDriver)
	}
	if cfg.DatabaseURI != "postgres://override" {
		t.Errorf("expected database uri override, got %q", cfg.DatabaseURI)
	}
	if cfg.StoreTimeout != 7*time.Second {
		t.Errorf("expected store timeout override, got %v", cfg.StoreTimeout)
	}
	if cfg.TokenStrategy != TokenStrategyJWT {
		t.Errorf("expected jwt strategy, got %q", cfg.TokenStrategy)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("expected token ttl override, got %v", cfg.TokenTTL)
	}
	if cfg.ReconcileInterval != 30*time.Second {
		t.Errorf("expected reconcile interval from env, got %v", cfg.ReconcileInterval)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("expected shutdown timeout override, got %v", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level override, got %q", cfg.LogLevel)
	}
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dispatch.yaml")
	content := strings.Join([]string{
		"run_address: \":6060\"",
		"storage:",
		"  driver: sqlite",
		"  sqlite_path: /tmp/dispatch-test.db",
		"  timeout: 1s",
		"auth:",
		"  secret: file-secret",
		"  ttl: 1h",
		"reconcile_interval: 10s",
		"log_level: warn",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := load([]string{"-config", path}, envFrom(map[string]string{"LOG_LEVEL": "error"}))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}

	if cfg.RunAddress != ":6060" {
		t.Errorf("expected run address from file, got %q", cfg.RunAddress)
	}
	if cfg.StorageDriver != DriverSQLite || cfg.SQLitePath != "/tmp/dispatch-test.db" {
		t.Errorf("unexpected storage settings: %q %q", cfg.StorageDriver, cfg.SQLitePath)
	}
	if cfg.StoreTimeout != time.Second {
		t.Errorf("expected store timeout from file, got %v", cfg.StoreTimeout)
	}
	if cfg.TokenSecret != "file-secret" || cfg.TokenTTL != time.Hour {
		t.Errorf("unexpected auth settings: %q %v", cfg.TokenSecret, cfg.TokenTTL)
	}
	if cfg.ReconcileInterval != 10*time.Second {
		t.Errorf("expected reconcile interval from file, got %v", cfg.ReconcileInterval)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected env to override file log level, got %q", cfg.LogLevel)
	}
}

func TestLoadConfigFileFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dispatch.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  data_dir: /srv/dispatch\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := load([]string{"--config=" + path}, envFrom(nil))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}
	if cfg.DataDir != "/srv/dispatch" {
		t.Errorf("expected data dir from --config=, got %q", cfg.DataDir)
	}

	cfg, err = load(nil, envFrom(map[string]string{"CONFIG_FILE": path}))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}
	if cfg.DataDir != "/srv/dispatch" {
		t.Errorf("expected data dir from CONFIG_FILE, got %q", cfg.DataDir)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := load([]string{"-config", filepath.Join(dir, "missing.yaml")}, envFrom(nil)); err == nil {
		t.Fatal("expected error for missing config file")
	}

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("storage: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := load([]string{"-config", broken}, envFrom(nil)); err == nil {
		t.Fatal("expected error for malformed config file")
	}

	badDuration := filepath.Join(dir, "duration.yaml")
	if err := os.WriteFile(badDuration, []byte("shutdown_timeout: soon\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := load([]string{"-config", badDuration}, envFrom(nil)); err == nil {
		t.Fatal("expected error for invalid duration in config file")
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "unknown flag", args: []string{"-unknown"}},
		{name: "bad store timeout", args: []string{"--store-timeout", "bogus"}},
		{name: "bad token ttl", args: []string{"--token-ttl", "bogus"}},
		{name: "bad reconcile interval", args: []string{"--reconcile-interval", "bogus"}},
		{name: "bad shutdown timeout", args: []string{"--shutdown-timeout", "bogus"}},
		{name: "unknown driver", args: []string{"-storage", "mongo"}},
		{name: "postgres without dsn", args: []string{"-storage", "postgres"}},
		{name: "sqlite without path", args: []string{"-storage", "sqlite", "-sqlite", ""}},
		{name: "file without dir", args: []string{"-data-dir", ""}},
		{name: "unknown strategy", args: []string{"--token-strategy", "paseto"}},
		{name: "empty secret", args: []string{"--token-secret", ""}},
		{name: "secret file missing", env: map[string]string{"TOKEN_SECRET_FILE": "/nonexistent/secret"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := load(tc.args, envFrom(tc.env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadReadsSecretFile(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret")
	if err := os.WriteFile(secretPath, []byte("from-file\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	cfg, err := load(nil, envFrom(map[string]string{"TOKEN_SECRET_FILE": secretPath}))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}
	if cfg.TokenSecret != "from-file" {
		t.Fatalf("expected secret from file, got %q", cfg.TokenSecret)
	}
}

func TestLoadNormalizesNonPositiveDurations(t *testing.T) {
	args := []string{
		"--store-timeout", "0s",
		"--token-ttl", "-1s",
		"--reconcile-interval", "0s",
		"--shutdown-timeout", "0s",
	}
	cfg, err := load(args, envFrom(nil))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}
	if cfg.StoreTimeout != defaultStoreTimeout {
		t.Errorf("expected default store timeout, got %v", cfg.StoreTimeout)
	}
	if cfg.TokenTTL != defaultTokenTTL {
		t.Errorf("expected default token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.ReconcileInterval != defaultReconcileInterval {
		t.Errorf("expected default reconcile interval, got %v", cfg.ReconcileInterval)
	}
	if cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("expected default shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadIgnoresMalformedEnvDurations(t *testing.T) {
	cfg, err := load(nil, envFrom(map[string]string{"STORE_TIMEOUT": "later"}))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}
	if cfg.StoreTimeout != defaultStoreTimeout {
		t.Fatalf("expected default store timeout for malformed env, got %v", cfg.StoreTimeout)
	}
}

func TestLoadUsesProcessArgs(t *testing.T) {
	originalArgs := os.Args
	t.Cleanup(func() { os.Args = originalArgs })
	os.Args = []string{"dispatch", "-a", ":7777"}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if cfg.RunAddress != ":7777" {
		t.Fatalf("expected run address from args, got %q", cfg.RunAddress)
	}
}
