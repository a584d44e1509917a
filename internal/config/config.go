package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"teakspice-catalog/internal/filter"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/order"
	"teakspice-catalog/internal/remote"
)

type Remote struct {
	Timeout time.Duration `yaml:"timeout"`
	Retries uint64        `yaml:"retries"`
	Backoff time.Duration `yaml:"backoff"`
}

type Config struct {
	Port           string             `yaml:"port"`
	MongoURI       string             `yaml:"mongo_uri"`
	Database       string             `yaml:"database"`
	DevMode        bool               `yaml:"dev_mode"`
	JWTSecret      string             `yaml:"jwt_secret"`
	TokenTTL       time.Duration      `yaml:"token_ttl"`
	CORSOrigins    []string           `yaml:"cors_origins"`
	Shipping       order.ShippingRule `yaml:"shipping"`
	PageSize       int                `yaml:"page_size"`
	Remote         Remote             `yaml:"remote"`
	SearchDebounce time.Duration      `yaml:"search_debounce"`
	AdminEmail     string             `yaml:"admin_email"`
	AdminPassword  string             `yaml:"admin_password"`
}

func defaults() *Config {
	policy := remote.DefaultPolicy()
	return &Config{
		Port:           "8080",
		Database:       "teakspice",
		TokenTTL:       24 * time.Hour,
		CORSOrigins:    []string{"http://localhost:3000"},
		Shipping:       order.DefaultShippingRule(),
		PageSize:       filter.DefaultPageSize,
		Remote:         Remote{Timeout: policy.Timeout, Retries: policy.Retries, Backoff: policy.InitialBackoff},
		SearchDebounce: 300 * time.Millisecond,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE if set, then environment variables.
func Load(logger *zap.Logger) (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	if uri := os.Getenv("MONGO_PUBLIC_URL"); uri != "" {
		cfg.MongoURI = uri
	} else if uri := os.Getenv("MONGO_URL"); uri != "" {
		cfg.MongoURI = uri
	}
	cfg.Database = getEnv("MONGO_DB", cfg.Database)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", cfg.AdminEmail)
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.AdminPassword)
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}

	var err error
	if cfg.DevMode, err = envBool("DEV_MODE", cfg.DevMode); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = envDuration("TOKEN_TTL", cfg.TokenTTL); err != nil {
		return nil, err
	}
	if cfg.Shipping.FreeThreshold, err = envMoney("FREE_SHIPPING_THRESHOLD", cfg.Shipping.FreeThreshold); err != nil {
		return nil, err
	}
	if cfg.Shipping.FlatFee, err = envMoney("SHIPPING_FEE", cfg.Shipping.FlatFee); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = envInt("PAGE_SIZE", cfg.PageSize); err != nil {
		return nil, err
	}
	if cfg.Remote.Timeout, err = envDuration("REMOTE_TIMEOUT", cfg.Remote.Timeout); err != nil {
		return nil, err
	}
	retries, err := envInt("REMOTE_RETRIES", int(cfg.Remote.Retries))
	if err != nil {
		return nil, err
	}
	cfg.Remote.Retries = uint64(max(retries, 0))
	if cfg.SearchDebounce, err = envDuration("SEARCH_DEBOUNCE", cfg.SearchDebounce); err != nil {
		return nil, err
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q", cfg.Port)
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", cfg.PageSize)
	}
	if cfg.Shipping.FreeThreshold < 0 || cfg.Shipping.FlatFee < 0 {
		return nil, fmt.Errorf("shipping amounts cannot be negative")
	}
	if cfg.MongoURI == "" && !cfg.DevMode {
		logger.Warn("no MONGO_URL set, running with the in-memory store")
		cfg.DevMode = true
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, generating a random one; tokens will not survive a restart")
		cfg.JWTSecret = randomSecret()
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) RemotePolicy(logger *zap.Logger) remote.Policy {
	return remote.Policy{
		Timeout:        c.Remote.Timeout,
		Retries:        c.Remote.Retries,
		InitialBackoff: c.Remote.Backoff,
		Logger:         logger,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func envBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envMoney(key string, def models.Money) (models.Money, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return hex.EncodeToString(b)
}
