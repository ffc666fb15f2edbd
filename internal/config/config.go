package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Items repository deployment modes. A deployment runs in exactly one mode:
// either the embedded local store is canonical, or every item operation is
// delegated to an upstream API. Modes are never mixed per call.
const (
	ItemsModeLocal  = "local"
	ItemsModeRemote = "remote"
)

// Config holds application configuration from environment variables.
type Config struct {
	// Application
	Port     string
	DataPath string

	// Auth
	JWTSecret string

	// Items repository mode: "local" or "remote"
	ItemsMode string

	// Upstream FastSeller API, used by the remote items repository and the
	// remote-first auth client. Empty means fully local operation.
	UpstreamURL string

	// Geocoding
	NominatimURL string
	GeoUserAgent string

	// Logging
	LogFile  string
	LogLevel string
}

// Load reads .env (optional) and environment variables with defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			log.Printf("Warning: error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DataPath:     getEnv("DATA_PATH", "./data/fastseller.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
		ItemsMode:    getEnv("ITEMS_MODE", ItemsModeLocal),
		UpstreamURL:  getEnv("UPSTREAM_URL", ""),
		NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		GeoUserAgent: getEnv("GEO_USER_AGENT", "FastSeller/1.0"),
		LogFile:      getEnv("LOG_FILE", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if cfg.ItemsMode != ItemsModeLocal && cfg.ItemsMode != ItemsModeRemote {
		log.Printf("Warning: unknown ITEMS_MODE %q, falling back to local", cfg.ItemsMode)
		cfg.ItemsMode = ItemsModeLocal
	}
	if cfg.ItemsMode == ItemsModeRemote && cfg.UpstreamURL == "" {
		log.Printf("Warning: ITEMS_MODE=remote without UPSTREAM_URL, falling back to local")
		cfg.ItemsMode = ItemsModeLocal
	}

	return cfg
}

// PortInt returns the listen port as an integer.
func (c *Config) PortInt() int {
	if p := cast.ToInt(c.Port); p > 0 {
		return p
	}
	return 8080
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
