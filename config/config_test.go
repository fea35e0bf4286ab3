package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "/uploads", cfg.Storage.UploadDir)
	assert.Equal(t, "/edit", cfg.Storage.EditDir)
	assert.Equal(t, "countries.json", cfg.Storage.CountriesFile)
	assert.False(t, cfg.Upload.KeepOnFailure)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 60*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, 0, cfg.MRZ.EngineMode)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PASSPORT_SERVER_PORT", "8080")
	t.Setenv("PASSPORT_STORAGE_UPLOAD_DIR", "/tmp/up")
	t.Setenv("PASSPORT_UPLOAD_KEEP_ON_FAILURE", "true")
	t.Setenv("PASSPORT_OCR_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/tmp/up", cfg.Storage.UploadDir)
	assert.True(t, cfg.Upload.KeepOnFailure)
	assert.Equal(t, 5*time.Second, cfg.OCR.Timeout)
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Storage: StorageConfig{UploadDir: "/u", EditDir: "/e"},
			MRZ:     MRZConfig{BandRatio: 0.4},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty upload dir", func(c *Config) { c.Storage.UploadDir = "" }, true},
		{"empty edit dir", func(c *Config) { c.Storage.EditDir = "" }, true},
		{"zero band ratio", func(c *Config) { c.MRZ.BandRatio = 0 }, true},
		{"band ratio above one", func(c *Config) { c.MRZ.BandRatio = 1.5 }, true},
		{"negative timeout", func(c *Config) { c.OCR.Timeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
