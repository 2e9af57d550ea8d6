package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration. Loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	ServerPort  string
	DatabaseURL string
	LogLevel    string

	// Source endpoints, in the priority order the pipeline tries them.
	ListingsURL         string
	ListingsFallbackURL string
	GMPSourceURLs       []string

	HTTPRequestTimeout time.Duration
	RequestRateLimit   time.Duration
	RefreshInterval    time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	cfg := &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		ListingsURL:         getEnv("LISTINGS_URL", "https://www.chittorgarh.com/report/mainboard-ipo-list-in-india-bse-nse/83/"),
		ListingsFallbackURL: getEnv("LISTINGS_FALLBACK_URL", "https://www.chittorgarh.com/ipo/ipo_dashboard.asp"),
		GMPSourceURLs: []string{
			getEnv("GMP_PRIMARY_URL", "https://www.investorgain.com/report/live-ipo-gmp/331/all/"),
			getEnv("GMP_SECONDARY_URL", "https://www.chittorgarh.com/report/ipo-grey-market-premium-gmp/109/"),
		},
		HTTPRequestTimeout: getEnvSeconds("HTTP_TIMEOUT_SECONDS", 30),
		RequestRateLimit:   getEnvMillis("RATE_LIMIT_MS", 1000),
		RefreshInterval:    getEnvSeconds("REFRESH_INTERVAL_SECONDS", 6*3600),
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", cfg.LogLevel)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return time.Duration(fallback) * time.Second
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		logrus.Warnf("Invalid %s value: %s, using default %ds", key, raw, fallback)
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(seconds) * time.Second
}

func getEnvMillis(key string, fallback int) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return time.Duration(fallback) * time.Millisecond
	}
	millis, err := strconv.Atoi(raw)
	if err != nil || millis < 0 {
		logrus.Warnf("Invalid %s value: %s, using default %dms", key, raw, fallback)
		return time.Duration(fallback) * time.Millisecond
	}
	return time.Duration(millis) * time.Millisecond
}
