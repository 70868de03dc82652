package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
service_name = "storefront"

[http]
port = 9000

[storage]
driver = "redis"

[cart]
free_shipping_threshold = 75.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.ServiceName)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.InDelta(t, 75.5, cfg.Cart.FreeShippingThreshold, 1e-9)
	// 未配置的字段取默认值
	assert.Equal(t, 3, cfg.Cart.RecommendationLimit)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, 10, cfg.Kafka.BatchTimeout)
	assert.Equal(t, 1024, cfg.Kafka.QueueSize)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `service_name = "storefront"`)
	t.Setenv("APP_HTTP_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.HTTP.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"no name", func(c *Config) { c.ServiceName = "" }, "service_name"},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, "HTTP port"},
		{"bad driver", func(c *Config) { c.Storage.Driver = "bolt" }, "storage driver"},
		{"mysql without dsn", func(c *Config) { c.Storage.Driver = "mysql" }, "DSN"},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true }, "brokers"},
		{"negative threshold", func(c *Config) { c.Cart.FreeShippingThreshold = -1 }, "threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				ServiceName: "storefront",
				HTTP:        HTTPConfig{Port: 8080},
				Storage:     StorageConfig{Driver: "memory"},
				Commerce:    CommerceConfig{Endpoint: "http://localhost"},
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
