package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
name: "windfarm-test"
port: 9000
auth:
  jwt_secret_key: "s3cret"
plant:
  scada_columns:
    time: "Date_time"
`)
	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Name != "windfarm-test" || cfg.Port != 9000 {
		t.Fatalf("file values lost: %+v", cfg.MConfig)
	}
	if cfg.Host != "0.0.0.0" || cfg.Storage.DBType != "sqlite" || cfg.Analysis.DefaultRatedPowerMW != 2.05 {
		t.Fatalf("defaults not applied: %+v", cfg.MConfig)
	}
	// Nested structs are decoded field by field, so sibling defaults survive
	if cfg.Plant.ScadaColumns.Power != "P_avg" || cfg.Plant.AssetColumns.RatedPowerScale != 0.001 {
		t.Fatalf("nested defaults lost: %+v", cfg.Plant)
	}
	if cfg.Auth.AccessTokenExpireMinutes != 30 {
		t.Fatalf("auth defaults lost: %+v", cfg.Auth)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvJWTSecret, "from-env")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvDBPath, "/tmp/windfarm.db")
	t.Setenv(EnvArchivePath, "/data/lhb.zip")

	cfg, err := NewConfig(writeConfig(t, "name: windfarm\n"))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Auth.JWTSecretKey != "from-env" || cfg.Port != 8081 {
		t.Fatalf("env overrides not applied: %+v", cfg.MConfig)
	}
	if cfg.Storage.DBPath != "/tmp/windfarm.db" || cfg.Plant.ArchivePath != "/data/lhb.zip" {
		t.Fatalf("path overrides not applied: %+v", cfg.MConfig)
	}

	t.Setenv(EnvPort, "eighty")
	if _, err := NewConfig(writeConfig(t, "name: windfarm\n")); err == nil {
		t.Fatalf("non-numeric port must be rejected")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing secret", "name: x\n", "jwt_secret_key"},
		{"bad port", "port: 80\nauth: {jwt_secret_key: k}\n", "port"},
		{"bad db type", "storage: {db_type: mongo}\nauth: {jwt_secret_key: k}\n", "unsupported database type"},
		{"postgres without dsn", "storage: {db_type: postgres}\nauth: {jwt_secret_key: k}\n", "connection string"},
		{"bad range", "analysis: {default_range: 1y}\nauth: {jwt_secret_key: k}\n", "1y"},
		{"live interval", "live: {enabled: true, broadcast_interval_seconds: 0}\nauth: {jwt_secret_key: k}\n", "broadcast interval"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvJWTSecret, "")
			_, err := NewConfig(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvJWTSecret, "")
	cfg, err := NewConfig(writeConfig(t, "auth: {jwt_secret_key: k}\nstorage: {db_type: none}\n"))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	cfg.Live.Range = "7d"

	out := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded, err := NewConfig(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Live.Range != "7d" || reloaded.Storage.DBType != "none" {
		t.Fatalf("saved config not reloaded faithfully: %+v", reloaded.MConfig)
	}
}
