package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the client.
type Config struct {
	Environment string
	BindAddr    string
	Port        string
	CORSOrigins []string
	// DeviceKey guards the device-session routes of the local API. serve generates one
	// per process when it is empty.
	DeviceKey string

	// Base URLs of the RiConnect API gateways.
	EventAPIURL string
	UserAPIURL  string
	ClubAPIURL  string
	ChatWSURL   string

	GeocoderURL        string
	GeocoderUserAgent  string
	GeocoderRPS        float64
	GeocodeConcurrency int
	RedisURL           string
	GeocodeCacheTTL    time.Duration

	UploadURL       string
	UploadCDNURL    string
	UploadPublicKey string
	ShareBaseURL    string

	// JWTSecret enables HS256 signature checks on bearer tokens when set.
	JWTSecret         string
	FilterCatalogPath string

	SecureStorePath       string
	SecureStorePassphrase string

	ProximityRadiusMeters float64
	JoinLimit             int
	PointsJoin            int
	PointsUnjoin          int
	PointsShare           int
	PointsPhoto           int

	RequestTimeout  time.Duration
	FeedRefreshCron string
	DefaultLocale   string
}

// Load loads configuration from environment variables.
// It attempts to load from .env file if not in production.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the variables come from the environment only.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:           env,
		BindAddr:              getString("BIND_ADDR", "127.0.0.1"),
		Port:                  getString("PORT", "8080"),
		DeviceKey:             os.Getenv("DEVICE_KEY"),
		CORSOrigins:           getList("CORS_ORIGINS"),
		EventAPIURL:           strings.TrimSuffix(os.Getenv("EVENT_API_URL"), "/"),
		UserAPIURL:            strings.TrimSuffix(os.Getenv("USER_API_URL"), "/"),
		ClubAPIURL:            strings.TrimSuffix(os.Getenv("CLUB_API_URL"), "/"),
		ChatWSURL:             os.Getenv("CHAT_WS_URL"),
		GeocoderURL:           strings.TrimSuffix(getString("GEOCODER_URL", "https://nominatim.openstreetmap.org"), "/"),
		GeocoderUserAgent:     getString("GEOCODER_USER_AGENT", "riconnect-client/1.0"),
		RedisURL:              os.Getenv("REDIS_URL"),
		UploadURL:             getString("UPLOAD_URL", "https://upload.uploadcare.com"),
		UploadCDNURL:          strings.TrimSuffix(getString("UPLOAD_CDN_URL", "https://ucarecdn.com"), "/"),
		UploadPublicKey:       os.Getenv("UPLOADCARE_PUBLIC_KEY"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		FilterCatalogPath:     os.Getenv("FILTER_CATALOG_PATH"),
		ShareBaseURL:          strings.TrimSuffix(getString("SHARE_BASE_URL", "https://riconnect.app"), "/"),
		SecureStorePath:       getString("SECURE_STORE_PATH", defaultStorePath()),
		SecureStorePassphrase: os.Getenv("SECURE_STORE_PASSPHRASE"),
		FeedRefreshCron:       getString("FEED_REFRESH_CRON", "*/5 * * * *"),
		DefaultLocale:         getString("DEFAULT_LOCALE", "en"),
	}

	var err error
	if cfg.GeocoderRPS, err = getFloat("GEOCODER_RPS", 1); err != nil {
		return nil, err
	}
	if cfg.GeocodeConcurrency, err = getInt("GEOCODE_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if cfg.GeocodeCacheTTL, err = getDuration("GEOCODE_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ProximityRadiusMeters, err = getFloat("PROXIMITY_RADIUS_M", 100); err != nil {
		return nil, err
	}
	if cfg.JoinLimit, err = getInt("JOIN_LIMIT", 3); err != nil {
		return nil, err
	}
	if cfg.PointsJoin, err = getInt("POINTS_JOIN", 1); err != nil {
		return nil, err
	}
	if cfg.PointsUnjoin, err = getInt("POINTS_UNJOIN", -1); err != nil {
		return nil, err
	}
	if cfg.PointsShare, err = getInt("POINTS_SHARE", 5); err != nil {
		return nil, err
	}
	if cfg.PointsPhoto, err = getInt("POINTS_PHOTO", 10); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values. API URLs are required; optional URLs must parse when set.
func (c *Config) Validate() error {
	required := map[string]string{
		"EVENT_API_URL": c.EventAPIURL,
		"USER_API_URL":  c.UserAPIURL,
		"CLUB_API_URL":  c.ClubAPIURL,
	}
	for name, v := range required {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("config: %s is required", name)
		}
		if err := checkURL(name, v, "http", "https"); err != nil {
			return err
		}
	}
	if err := checkURL("GEOCODER_URL", c.GeocoderURL, "http", "https"); err != nil {
		return err
	}
	if err := checkURL("UPLOAD_URL", c.UploadURL, "http", "https"); err != nil {
		return err
	}
	if err := checkURL("UPLOAD_CDN_URL", c.UploadCDNURL, "http", "https"); err != nil {
		return err
	}
	if c.ChatWSURL != "" {
		if err := checkURL("CHAT_WS_URL", c.ChatWSURL, "ws", "wss"); err != nil {
			return err
		}
	}
	if c.GeocodeConcurrency < 1 {
		return fmt.Errorf("config: GEOCODE_CONCURRENCY must be at least 1")
	}
	if c.GeocoderRPS <= 0 {
		return fmt.Errorf("config: GEOCODER_RPS must be positive")
	}
	if c.ProximityRadiusMeters <= 0 {
		return fmt.Errorf("config: PROXIMITY_RADIUS_M must be positive")
	}
	if c.JoinLimit < 1 {
		return fmt.Errorf("config: JOIN_LIMIT must be at least 1")
	}
	return nil
}

// ValidateServe checks the settings the local API needs on top of Validate. Bearer
// identities key per-user state, so token signatures must be verifiable.
func (c *Config) ValidateServe() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required to serve the local API")
	}
	if c.DeviceKey != "" && len(c.DeviceKey) < 16 {
		return fmt.Errorf("config: DEVICE_KEY must be at least 16 characters")
	}
	return nil
}

func checkURL(name, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: %s invalid (%q): %w", name, raw, err)
	}
	if u.Host == "" {
		return fmt.Errorf("config: %s invalid (%q): missing host", name, raw)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("config: %s invalid (%q): scheme must be one of %v", name, raw, schemes)
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".riconnect/secure.store"
	}
	return dir + "/riconnect/secure.store"
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, def float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a number: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration: %w", key, err)
	}
	return v, nil
}
