package config

import (
	"fmt"
	"os"
	"strconv"
)

// Data source modes for the read side (prices, positions).
const (
	DataSourceLive    = "live"
	DataSourceFixture = "fixture"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL      string
	RedisPassword string

	// JWT configuration
	JWTSecret string

	// Stellar network configuration
	SorobanRPCURL     string
	HubContractID     string
	NetworkPassphrase string

	// Path to the static asset registry (assets.yaml)
	AssetsConfigPath string

	// DataSource selects live or fixture read-side implementations.
	// Never mixed per-call; chosen once at startup.
	DataSource string

	// SignerSeed optionally enables the local dev signer (hex-encoded
	// ed25519 seed). Empty means signing goes through the remote bridge.
	SignerSeed string

	// SignerAddress is the Stellar account the local signer key controls.
	// Required when SignerSeed is set.
	SignerAddress string

	// MinHealthFactorBps is the projected-health-factor floor enforced
	// before a borrow is submitted. 11000 = 1.1.
	MinHealthFactorBps int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		SorobanRPCURL:      getEnv("SOROBAN_RPC_URL", "https://soroban-testnet.stellar.org"),
		HubContractID:      getEnv("HUB_CONTRACT_ID", ""),
		NetworkPassphrase:  getEnv("NETWORK_PASSPHRASE", "Test SDF Network ; September 2015"),
		AssetsConfigPath:   getEnv("ASSETS_CONFIG_PATH", "config/assets.yaml"),
		DataSource:         getEnv("DATA_SOURCE", DataSourceLive),
		SignerSeed:         getEnv("SIGNER_SEED", ""),
		SignerAddress:      getEnv("SIGNER_ADDRESS", ""),
		MinHealthFactorBps: getEnvAsInt("MIN_HEALTH_FACTOR_BPS", 11000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.HubContractID == "" {
		return fmt.Errorf("HUB_CONTRACT_ID is required")
	}

	if c.DataSource != DataSourceLive && c.DataSource != DataSourceFixture {
		return fmt.Errorf("DATA_SOURCE must be %q or %q", DataSourceLive, DataSourceFixture)
	}

	if c.DataSource == DataSourceFixture && c.IsProduction() {
		return fmt.Errorf("DATA_SOURCE=fixture is not allowed in production")
	}

	if c.SignerSeed != "" && c.SignerAddress == "" {
		return fmt.Errorf("SIGNER_ADDRESS is required when SIGNER_SEED is set")
	}

	if c.MinHealthFactorBps < 10000 {
		return fmt.Errorf("MIN_HEALTH_FACTOR_BPS must be at least 10000 (1.0)")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
