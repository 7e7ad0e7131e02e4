package config

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort        = "8080"
	defaultDatabaseURL = "user=postgres password=password dbname=authbase host=localhost port=5432 sslmode=disable"
	defaultSessionTTL  = 72 * time.Hour
)

type Config struct {
	Port            string
	DatabaseURL     string
	ResendAPIKey    string
	ResendFromEmail string
	AppURL          string // public base URL used to build deep links
	GoogleClientID  string
	SessionSecret   string
	SessionTTL      time.Duration
	SecureCookies   bool
}

// Load reads configuration from the environment, optionally from a .env
// file if present. Missing required keys fail here, at startup, rather
// than on the first request that needs them.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", defaultPort),
		DatabaseURL:     os.Getenv("DB_CONNECTION_STRING"),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		ResendFromEmail: os.Getenv("RESEND_FROM_EMAIL"),
		AppURL:          strings.TrimRight(os.Getenv("APP_URL"), "/"),
		GoogleClientID:  os.Getenv("GOOGLE_CLIENT_ID"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_HOURS", int(defaultSessionTTL/time.Hour))) * time.Hour,
		SecureCookies:   os.Getenv("SECURE_COOKIES") == "true",
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	}

	var missing []string
	for key, value := range map[string]string{
		"RESEND_API_KEY":    cfg.ResendAPIKey,
		"RESEND_FROM_EMAIL": cfg.ResendFromEmail,
		"APP_URL":           cfg.AppURL,
		"GOOGLE_CLIENT_ID":  cfg.GoogleClientID,
		"SESSION_SECRET":    cfg.SessionSecret,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Config{}, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
