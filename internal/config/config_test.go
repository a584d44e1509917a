package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teakspice-catalog/internal/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "MONGO_PUBLIC_URL", "MONGO_URL", "MONGO_DB", "JWT_SECRET",
		"CORS_ORIGINS", "DEV_MODE", "TOKEN_TTL", "FREE_SHIPPING_THRESHOLD", "SHIPPING_FEE",
		"PAGE_SIZE", "REMOTE_TIMEOUT", "REMOTE_RETRIES", "SEARCH_DEBOUNCE", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.True(t, cfg.DevMode)
	assert.Len(t, cfg.JWTSecret, 64)
	assert.Equal(t, models.Money(5000), cfg.Shipping.FreeThreshold)
	assert.Equal(t, models.Money(250), cfg.Shipping.FlatFee)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, uint64(1), cfg.Remote.Retries)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
mongo_uri: mongodb://db:27017
jwt_secret: from-file
cors_origins: [https://shop.example.com]
shipping:
  free_threshold: 10000
  flat_fee: 400
remote:
  timeout: 2s
  retries: 2
  backoff: 50ms
search_debounce: 150ms
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SHIPPING_FEE", "300")
	t.Setenv("MONGO_PUBLIC_URL", "mongodb://public:27017")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mongodb://public:27017", cfg.MongoURI)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, models.Money(10000), cfg.Shipping.FreeThreshold)
	assert.Equal(t, models.Money(300), cfg.Shipping.FlatFee)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)

	p := cfg.RemotePolicy(nil)
	assert.Equal(t, 2*time.Second, p.Timeout)
	assert.Equal(t, uint64(2), p.Retries)
	assert.Equal(t, 50*time.Millisecond, p.InitialBackoff)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"PORT":         "http",
		"PAGE_SIZE":    "0",
		"TOKEN_TTL":    "soon",
		"DEV_MODE":     "sometimes",
		"SHIPPING_FEE": "-1",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load(zap.NewNop())
			assert.Error(t, err)
		})
	}
}
