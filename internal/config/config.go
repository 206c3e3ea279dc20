package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything read from the environment.
type AppConfig struct {
	// Provider selects the upstream source: "visualcrossing" or "nasapower".
	Provider string

	// VCAPIKey is the Visual Crossing credential. May be empty; a refresh
	// against Visual Crossing then fails with a missing-credential error
	// without fetching anything.
	VCAPIKey string

	// GeocoderAPIKey is only needed when the location is city/country
	// without explicit coordinates.
	GeocoderAPIKey string

	City    string
	Country string
	Lat     *float64
	Lon     *float64

	// CacheBackend selects where the history lives: "file", "memory" or
	// "redis".
	CacheBackend string
	CacheFile    string
	RedisURL     string
	RedisKey     string

	// HistoryEpoch is the window start for a first run against an empty
	// cache.
	HistoryEpoch time.Time

	RefreshInterval time.Duration
	HTTPTimeout     time.Duration

	// RequestDelay is the fixed pause between consecutive sub-window
	// requests to the upstream API.
	RequestDelay time.Duration

	// MaxSpanDays caps the length of a single upstream request.
	MaxSpanDays int

	// NASAVariables are the POWER parameter names to request.
	NASAVariables []string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Provider = getenvDefault("WIND_PROVIDER", "visualcrossing")
	cfg.VCAPIKey = os.Getenv("VC_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.City = os.Getenv("WIND_CITY")
	cfg.Country = os.Getenv("WIND_COUNTRY")

	lat, err := getenvFloat("WIND_LAT")
	if err != nil {
		return nil, err
	}
	lon, err := getenvFloat("WIND_LON")
	if err != nil {
		return nil, err
	}
	cfg.Lat = lat
	cfg.Lon = lon
	if (lat == nil || lon == nil) && cfg.City == "" {
		return nil, fmt.Errorf("either WIND_LAT/WIND_LON or WIND_CITY must be set")
	}

	cfg.CacheBackend = getenvDefault("CACHE_BACKEND", "file")
	cfg.CacheFile = getenvDefault("CACHE_FILE", "wind_history.csv")
	cfg.RedisURL = getenvDefault("REDIS_URL", "redis://localhost:6379")
	cfg.RedisKey = getenvDefault("REDIS_KEY", "wind:history")

	epochStr := getenvDefault("HISTORY_EPOCH", "2025-01-01")
	epoch, err := time.Parse("2006-01-02", epochStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_EPOCH: %w", err)
	}
	cfg.HistoryEpoch = epoch.UTC()

	cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.RequestDelay, err = getenvDuration("REQUEST_DELAY", "1s")
	if err != nil {
		return nil, err
	}

	cfg.MaxSpanDays = getenvInt("MAX_SPAN_DAYS", 30)
	if cfg.MaxSpanDays <= 0 {
		return nil, fmt.Errorf("MAX_SPAN_DAYS must be positive")
	}

	vars := getenvDefault("NASA_VARIABLES", "WS10M,WD10M,T2M,RH2M")
	for _, v := range strings.Split(vars, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			cfg.NASAVariables = append(cfg.NASAVariables, v)
		}
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
