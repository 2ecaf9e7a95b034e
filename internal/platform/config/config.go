package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// SIE import limits
	SIEMaxImportBytes int
	SIEParseTimeout   time.Duration
	ImportRateLimit   string // ulule/limiter formatted rate, e.g. "10-M"
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("SIE_MAX_IMPORT_BYTES", 10*1024*1024)
	viper.SetDefault("SIE_PARSE_TIMEOUT", "30s")
	viper.SetDefault("IMPORT_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.SIEMaxImportBytes = viper.GetInt("SIE_MAX_IMPORT_BYTES")

	parseTimeoutStr := viper.GetString("SIE_PARSE_TIMEOUT")
	parseTimeout, err := time.ParseDuration(parseTimeoutStr)
	if err != nil {
		parseTimeout = 30 * time.Second
		if parseTimeoutStr != "" {
			log.Printf("Warning: Invalid value for SIE_PARSE_TIMEOUT ('%s'). Defaulting to %s.\n", parseTimeoutStr, parseTimeout.String())
		}
	}
	cfg.SIEParseTimeout = parseTimeout

	cfg.ImportRateLimit = viper.GetString("IMPORT_RATE_LIMIT")

	return cfg, nil
}
