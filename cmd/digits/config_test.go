package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_AddressResolution(t *testing.T) {
	resetDigitsEnv(t)

	tests := []struct {
		name         string
		configYAML   string
		wantErr      bool
		wantHost     string
		wantTCPAddr  string
		wantAPIAddr  string
		errSubstring string
	}{
		{
			name: "defaults to localhost host",
			configYAML: `
tcp-port: 4100
api-port: 3100
`,
			wantHost:    "127.0.0.1",
			wantTCPAddr: "127.0.0.1:4100",
			wantAPIAddr: "127.0.0.1:3100",
		},
		{
			name: "host applies to derived tcp and api addresses",
			configYAML: `
host: 0.0.0.0
tcp-port: 4200
api-port: 3200
`,
			wantHost:    "0.0.0.0",
			wantTCPAddr: "0.0.0.0:4200",
			wantAPIAddr: "0.0.0.0:3200",
		},
		{
			name: "explicit addresses override host and ports",
			configYAML: `
host: 0.0.0.0
tcp-addr: 10.0.0.5:9999
api-addr: 10.0.0.5:8888
`,
			wantHost:    "0.0.0.0",
			wantTCPAddr: "10.0.0.5:9999",
			wantAPIAddr: "10.0.0.5:8888",
		},
		{
			name:         "invalid tcp port rejected",
			configYAML:   "tcp-port: 70000",
			wantErr:      true,
			errSubstring: "invalid tcp-port",
		},
		{
			name:         "invalid api port rejected",
			configYAML:   "api-port: 0",
			wantErr:      true,
			errSubstring: "invalid api-port",
		},
		{
			name:         "invalid update interval rejected",
			configYAML:   "update-interval: 0s",
			wantErr:      true,
			errSubstring: "invalid update-interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeTempConfig(t, tt.configYAML)
			cfg, err := loadConfig(configPath)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errSubstring != "" && !strings.Contains(err.Error(), tt.errSubstring) {
					t.Fatalf("error = %q, want substring %q", err.Error(), tt.errSubstring)
				}
				return
			}

			if err != nil {
				t.Fatalf("loadConfig returned error: %v", err)
			}
			if cfg.Host != tt.wantHost {
				t.Fatalf("Host = %q, want %q", cfg.Host, tt.wantHost)
			}
			if cfg.TCPAddr != tt.wantTCPAddr {
				t.Fatalf("TCPAddr = %q, want %q", cfg.TCPAddr, tt.wantTCPAddr)
			}
			if cfg.APIAddr != tt.wantAPIAddr {
				t.Fatalf("APIAddr = %q, want %q", cfg.APIAddr, tt.wantAPIAddr)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetDigitsEnv(t)

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.UpdateInterval != defaultUpdateInterval {
		t.Fatalf("UpdateInterval = %s, want %s", cfg.UpdateInterval, defaultUpdateInterval)
	}
	if cfg.BounceInterval != defaultBounceInterval {
		t.Fatalf("BounceInterval = %s, want %s", cfg.BounceInterval, defaultBounceInterval)
	}
	if !cfg.TCPEnabled || !cfg.APIEnabled {
		t.Fatalf("TCPEnabled=%v APIEnabled=%v, want both enabled", cfg.TCPEnabled, cfg.APIEnabled)
	}
	if cfg.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", cfg.Theme, defaultTheme)
	}
	if cfg.ConfigPath != "" {
		t.Fatalf("ConfigPath = %q, want empty for a missing file", cfg.ConfigPath)
	}
	if cfg.Headless {
		t.Fatal("Headless should default to false")
	}
}

func TestLoadConfig_FileValuesAndConfigDir(t *testing.T) {
	resetDigitsEnv(t)

	path := writeTempConfig(t, `
update-interval: 500ms
bounce-interval: 250ms
theme: mono
headless: true
tcp-enabled: false
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.UpdateInterval != 500*time.Millisecond {
		t.Fatalf("UpdateInterval = %s, want 500ms", cfg.UpdateInterval)
	}
	if cfg.BounceInterval != 250*time.Millisecond {
		t.Fatalf("BounceInterval = %s, want 250ms", cfg.BounceInterval)
	}
	if cfg.Theme != "mono" || !cfg.Headless || cfg.TCPEnabled {
		t.Fatalf("cfg = %+v, want mono theme, headless, tcp disabled", cfg)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("ConfigPath = %q, want %q", cfg.ConfigPath, path)
	}
	if cfg.ConfigDir != filepath.Dir(path) {
		t.Fatalf("ConfigDir = %q, want %q", cfg.ConfigDir, filepath.Dir(path))
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	resetDigitsEnv(t)
	t.Setenv("DIGITS_API_PORT", "3900")
	t.Setenv("DIGITS_UPDATE_INTERVAL", "5s")

	cfg, err := loadConfig(writeTempConfig(t, "api-port: 3200"))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.APIAddr != "127.0.0.1:3900" {
		t.Fatalf("APIAddr = %q, want %q", cfg.APIAddr, "127.0.0.1:3900")
	}
	if cfg.UpdateInterval != 5*time.Second {
		t.Fatalf("UpdateInterval = %s, want 5s", cfg.UpdateInterval)
	}
}

func TestLoadConfig_EnvAddrOverrides(t *testing.T) {
	resetDigitsEnv(t)
	t.Setenv("DIGITS_TCP_ADDR", "0.0.0.0:4200")
	t.Setenv("DIGITS_API_ADDR", "0.0.0.0:3300")

	cfg, err := loadConfig(writeTempConfig(t, "tcp-port: 4500"))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.TCPAddr != "0.0.0.0:4200" {
		t.Fatalf("TCPAddr = %q, want %q", cfg.TCPAddr, "0.0.0.0:4200")
	}
	if cfg.APIAddr != "0.0.0.0:3300" {
		t.Fatalf("APIAddr = %q, want %q", cfg.APIAddr, "0.0.0.0:3300")
	}
}

func TestLoadConfig_DotEnvBesideConfig(t *testing.T) {
	resetDigitsEnv(t)
	t.Cleanup(func() {
		_ = os.Unsetenv("DIGITS_REDIS_ENABLED")
		_ = os.Unsetenv("DIGITS_REDIS_CHANNEL")
	})

	path := writeTempConfig(t, "api-port: 3200")
	env := "DIGITS_REDIS_ENABLED=true\nDIGITS_REDIS_CHANNEL=ticks:r_100\n"
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte(env), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if !cfg.RedisEnabled {
		t.Fatal("RedisEnabled = false, want true from .env")
	}
	if cfg.RedisChannel != "ticks:r_100" {
		t.Fatalf("RedisChannel = %q, want %q", cfg.RedisChannel, "ticks:r_100")
	}
	if cfg.RedisAddr != defaultRedisAddr {
		t.Fatalf("RedisAddr = %q, want %q", cfg.RedisAddr, defaultRedisAddr)
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func resetDigitsEnv(t *testing.T) {
	t.Helper()

	original := make(map[string]string)

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, "DIGITS_") {
			continue
		}
		original[key] = value
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}

	t.Cleanup(func() {
		for key, value := range original {
			if err := os.Setenv(key, value); err != nil {
				t.Fatalf("cleanup restore %s: %v", key, err)
			}
		}
	})
}
