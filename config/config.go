package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SpicyTech2823/Car-rental/logger"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port              string
	DatabaseURL       string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	SiteURL           string
	ResendAPIKey      string
	MailFrom          string
	FormRelayURL      string
	FormRelayKey      string
	CORSOrigins       []string
	LogFile           string
	SeedCatalog       bool
	WizardIdleTimeout time.Duration
}

const (
	defaultPort        = "8080"
	defaultSiteURL     = "http://localhost:5173"
	defaultMailFrom    = "Car Rental <noreply@car-rental.local>"
	defaultRelayURL    = "https://api.web3forms.com/submit"
	defaultLogFile     = "service.log"
	defaultCORSOrigins = "http://localhost:5173,http://localhost:3000"
)

var ErrMissingSetting = errors.New("missing required setting")

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Log.Info("[config] No .env file found or error loading .env file. Continuing...")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can feed a map.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:         withDefault(getenv("PORT"), defaultPort),
		DatabaseURL:  getenv("DATABASE_URL"),
		JWTSecret:    getenv("JWT_SECRET"),
		SiteURL:      strings.TrimRight(withDefault(getenv("SITE_URL"), defaultSiteURL), "/"),
		ResendAPIKey: getenv("RESEND_API_KEY"),
		MailFrom:     withDefault(getenv("MAIL_FROM"), defaultMailFrom),
		FormRelayURL: withDefault(getenv("FORM_RELAY_URL"), defaultRelayURL),
		FormRelayKey: getenv("FORM_RELAY_ACCESS_KEY"),
		CORSOrigins:  splitList(withDefault(getenv("CORS_ORIGINS"), defaultCORSOrigins)),
		LogFile:      withDefault(getenv("LOG_FILE"), defaultLogFile),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingSetting)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET", ErrMissingSetting)
	}

	var err error
	if cfg.AccessTokenTTL, err = parseDuration(getenv, "ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = parseDuration(getenv, "REFRESH_TOKEN_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.WizardIdleTimeout, err = parseDuration(getenv, "WIZARD_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return nil, err
	}

	if raw := getenv("SEED_CATALOG"); raw != "" {
		cfg.SeedCatalog, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SEED_CATALOG %q: %w", raw, err)
		}
	}

	return cfg, nil
}

func parseDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
