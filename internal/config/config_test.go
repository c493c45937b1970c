package config

import (
	"os"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	return tmpfile.Name()
}

func TestLoad(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9000
  host: "127.0.0.1"

database:
  host: "testdb"
  dbname: "accounts_test"

auth:
  accessTokenSecret: "access-secret"
  refreshTokenSecret: "refresh-secret"
  accessTokenTTL: "5m"
  refreshTokenTTL: "72h"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}

	if cfg.Database.Host != "testdb" {
		t.Errorf("Expected database host testdb, got %s", cfg.Database.Host)
	}

	if cfg.Auth.AccessTokenTTL.Minutes() != 5 {
		t.Errorf("Expected access token TTL 5m, got %v", cfg.Auth.AccessTokenTTL)
	}

	// Defaults fill in unspecified values
	if cfg.Database.MaxConns != 25 {
		t.Errorf("Expected default maxConns 25, got %d", cfg.Database.MaxConns)
	}
}

func TestLoadMissingSecrets(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9000
`)

	if _, err := Load(path); err == nil {
		t.Error("Expected error when token secrets are missing")
	}
}

func TestLoadIdenticalSecrets(t *testing.T) {
	path := writeTempConfig(t, `
auth:
  accessTokenSecret: "same"
  refreshTokenSecret: "same"
`)

	if _, err := Load(path); err == nil {
		t.Error("Expected error when access and refresh secrets are identical")
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}
