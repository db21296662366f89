// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Host != "0.0.0.0" || cfg.Port != 8000 {
		t.Errorf("expected 0.0.0.0:8000, got %s:%d", cfg.Host, cfg.Port)
	}
	if got := cfg.ListenAddress(); got != "0.0.0.0:8000" {
		t.Errorf("ListenAddress() = %q", got)
	}
	if got := cfg.ResolvedPublicURL(); got != "http://0.0.0.0:8000" {
		t.Errorf("ResolvedPublicURL() = %q", got)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected shutdown_timeout=10s, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "server.yaml", `
host: 127.0.0.1
port: 9000
public_url: https://cdn.example.com
asset_package: /srv/demo.ars
metrics_address: 127.0.0.1:9100
shutdown_timeout: 30s
log_level: debug
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := cfg.ListenAddress(); got != "127.0.0.1:9000" {
		t.Errorf("ListenAddress() = %q", got)
	}
	if cfg.PublicURL != "https://cdn.example.com" {
		t.Errorf("public_url = %q", cfg.PublicURL)
	}
	if cfg.AssetPackage != "/srv/demo.ars" {
		t.Errorf("asset_package = %q", cfg.AssetPackage)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("shutdown_timeout = %s", cfg.ShutdownTimeout)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "server.yaml", "asset_pakage: /srv/demo.ars\n")
	_, err := LoadFile(path)
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("LoadFile() = %v, want a *ConfigError", err)
	}
}

func TestLoadFileEmpty(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, "server.yaml", ""))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("port = %d, want default", cfg.Port)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadFile of a missing file succeeded")
	}
	if !strings.Contains(err.Error(), "absent.yaml") {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestApplyEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "server.yaml", `
port: 9000
asset_package: /srv/file.ars
public_url: https://file.example.com
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	err = cfg.ApplyEnv(map[string]string{
		"SERVER_ASSET_PACKAGE":    "/srv/env.ars",
		"SERVER_ADDRESS":          "127.0.0.1:7000",
		"SERVER_SHUTDOWN_TIMEOUT": "3s",
		"ASSET_PACKAGE":           "/srv/unprefixed.ars",
	})
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.AssetPackage != "/srv/env.ars" {
		t.Errorf("asset_package = %q, want the SERVER_ value", cfg.AssetPackage)
	}
	if got := cfg.ListenAddress(); got != "127.0.0.1:7000" {
		t.Errorf("ListenAddress() = %q, want the address override", got)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("shutdown_timeout = %s", cfg.ShutdownTimeout)
	}
	// Variables that are not set leave file values alone.
	if cfg.PublicURL != "https://file.example.com" || cfg.Port != 9000 {
		t.Errorf("unset variables changed the config: %+v", cfg)
	}
}

func TestApplyEnvInvalidValue(t *testing.T) {
	err := Default().ApplyEnv(map[string]string{"SERVER_PORT": "eighty"})
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("ApplyEnv() = %v, want a *ConfigError", err)
	}
}

func TestLoadUsesProcessEnvironment(t *testing.T) {
	t.Setenv("SERVER_ASSET_PACKAGE", "${ARS_TEST_DIST}/demo.ars")
	t.Setenv("ARS_TEST_DIST", "/opt/dist")
	t.Setenv("SERVER_PORT", "8123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AssetPackage != "/opt/dist/demo.ars" {
		t.Errorf("asset_package = %q, want the expanded path", cfg.AssetPackage)
	}
	if got := cfg.ResolvedPublicURL(); got != "http://0.0.0.0:8123" {
		t.Errorf("ResolvedPublicURL() = %q", got)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("ARS_TEST_ROOT", "/data")

	tests := []struct {
		input, want string
	}{
		{"${ARS_TEST_ROOT}/app.ars", "/data/app.ars"},
		{"${ARS_TEST_UNSET:-/fallback}/app.ars", "/fallback/app.ars"},
		{"${ARS_TEST_UNSET}/app.ars", "/app.ars"},
		{"/plain/app.ars", "/plain/app.ars"},
	}
	for _, tt := range tests {
		if got := expandVars(tt.input); got != tt.want {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() *ServerConfig {
		cfg := Default()
		cfg.AssetPackage = "/srv/demo.ars"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate on a valid config: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		message string
	}{
		{"missing_package", func(c *ServerConfig) { c.AssetPackage = "" }, "asset_package is required"},
		{"port_zero", func(c *ServerConfig) { c.Port = 0 }, "port 0"},
		{"bad_address", func(c *ServerConfig) { c.Address = "no-port" }, "address"},
		{"relative_public_url", func(c *ServerConfig) { c.PublicURL = "/relative" }, "public_url"},
		{"ftp_public_url", func(c *ServerConfig) { c.PublicURL = "ftp://example.com" }, "http or https"},
		{"metrics_on_listen_address", func(c *ServerConfig) { c.MetricsAddress = "0.0.0.0:8000" }, "must differ"},
		{"zero_shutdown", func(c *ServerConfig) { c.ShutdownTimeout = 0 }, "shutdown_timeout"},
		{"bad_log_level", func(c *ServerConfig) { c.LogLevel = "verbose" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("Validate() = %v, want a *ConfigError", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Validate() = %q, want it to mention %q", err, tt.message)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Port = -1
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate succeeded")
	}
	for _, want := range []string{"asset_package", "port -1", "log_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %q, missing %q", err, want)
		}
	}
}

func TestLoadRuntimeConfig(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		document, err := LoadRuntimeConfig("")
		if err != nil {
			t.Fatalf("LoadRuntimeConfig: %v", err)
		}
		if len(document) != 0 {
			t.Errorf("document = %v, want empty", document)
		}
	})

	t.Run("jsonc", func(t *testing.T) {
		path := writeFile(t, "runtime.json", `{
			// endpoint the frontend talks to
			"api": "https://api.example.com",
			"retries": 9007199254740992,
		}`)
		document, err := LoadRuntimeConfig(path)
		if err != nil {
			t.Fatalf("LoadRuntimeConfig: %v", err)
		}
		if document["api"] != "https://api.example.com" {
			t.Errorf("api = %v", document["api"])
		}
		if number, ok := document["retries"].(json.Number); !ok || number.String() != "9007199254740992" {
			t.Errorf("retries = %#v, want the literal number", document["retries"])
		}
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "runtime.yaml", "api: https://api.example.com\nfeatures:\n  beta: true\n")
		document, err := LoadRuntimeConfig(path)
		if err != nil {
			t.Fatalf("LoadRuntimeConfig: %v", err)
		}
		features, ok := document["features"].(map[string]any)
		if !ok || features["beta"] != true {
			t.Errorf("features = %#v", document["features"])
		}
	})

	t.Run("not_an_object", func(t *testing.T) {
		path := writeFile(t, "runtime.json", `[1, 2, 3]`)
		_, err := LoadRuntimeConfig(path)
		var configErr *ConfigError
		if !errors.As(err, &configErr) {
			t.Errorf("LoadRuntimeConfig() = %v, want a *ConfigError", err)
		}
	})

	t.Run("fractional_numbers", func(t *testing.T) {
		path := writeFile(t, "runtime.json", `{"ratio": 0.25, "big": 1e300}`)
		if _, err := LoadRuntimeConfig(path); err != nil {
			t.Fatalf("LoadRuntimeConfig: %v", err)
		}
	})

	inexact := []struct {
		name, file, content string
	}{
		{"json", "runtime.json", `{"id": 12345678901234567891}`},
		{"json_nested", "runtime.json", `{"ids": [1, {"id": -9007199254740993}]}`},
		{"yaml", "runtime.yaml", "id: 12345678901234567891\n"},
		{"yaml_int", "runtime.yaml", "id: 9007199254740993\n"},
	}
	for _, tt := range inexact {
		t.Run("inexact_"+tt.name, func(t *testing.T) {
			_, err := LoadRuntimeConfig(writeFile(t, tt.file, tt.content))
			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Errorf("LoadRuntimeConfig() = %v, want a *ConfigError", err)
			}
		})
	}
}
