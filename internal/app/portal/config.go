package portal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	shelterclient "github.com/Apurer/go-dog-portal/internal/clients/http/shelter"
	"github.com/Apurer/go-dog-portal/internal/platform/observability"
)

// Config carries environment-driven settings for the portal process.
type Config struct {
	Port                  string
	Environment           string
	ShelterBaseURL        string
	ShelterTimeout        time.Duration
	PostgresDSN           string
	SessionIdle           time.Duration
	SessionSweepInterval  time.Duration
	SecureCookie          bool
	MatchHistoryRetention time.Duration
	Log                   observability.LogConfig
}

// LoadEnvFiles loads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:           envDefault("PORT", "8080"),
		Environment:    envDefault("ENVIRONMENT", "local"),
		ShelterBaseURL: envDefault("SHELTER_BASE_URL", shelterclient.DefaultBaseURL),
		PostgresDSN:    strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		Log: observability.LogConfig{
			Level:  envDefault("LOG_LEVEL", "info"),
			Format: envDefault("LOG_FORMAT", "json"),
		},
	}
	cfg.SecureCookie = cfg.Environment == "production"
	if raw := strings.TrimSpace(os.Getenv("SECURE_COOKIE")); raw != "" {
		cfg.SecureCookie = isTruthy(raw)
	}

	if raw := strings.TrimSpace(os.Getenv("SHELTER_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout < 0 {
			return Config{}, fmt.Errorf("SHELTER_TIMEOUT must be a non-negative duration such as 15s")
		}
		cfg.ShelterTimeout = timeout
	}

	idle, err := positiveInt("SESSION_IDLE_MINUTES", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionIdle = time.Duration(idle) * time.Minute
	cfg.SessionSweepInterval = min(cfg.SessionIdle, 5*time.Minute)

	days, err := positiveInt("MATCH_HISTORY_RETENTION_DAYS", 90)
	if err != nil {
		return Config{}, err
	}
	cfg.MatchHistoryRetention = time.Duration(days) * 24 * time.Hour
	return cfg, nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
