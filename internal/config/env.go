package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/SpiderCare/internal/security"
)

type Config struct {
	Env            string
	Port           string
	DatabaseURL    string
	AIAPIKey       string
	GenModel       string
	AIEnabled      bool
	SessionTTL     time.Duration
	SweepInterval  time.Duration
	StaticDir      string
	AssetBucket    string
	AwsRegion      string
	AwsAccessKey   string
	AwsSecretKey   string
	PersonaFile    string
	PasswordScheme string
	AuthRateLimit  float64
	AuthRateBurst  int
	RequestTimeout time.Duration
}

// LoadConfig loads the environment variables and returns config.
func LoadConfig() *Config {

	_ = godotenv.Load()

	return &Config{
		Env:            getEnv("APP_ENV", "dev"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AIAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GenModel:       getEnv("GEN_MODEL", "gemini-1.5-pro"),
		AIEnabled:      getEnvBool("AI_ENABLED", false),
		SessionTTL:     getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		SweepInterval:  getEnvDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		StaticDir:      getEnv("STATIC_DIR", "./web"),
		AssetBucket:    getEnv("ASSET_BUCKET", ""),
		AwsRegion:      getEnv("AWS_REGION", "us-east-2"),
		AwsAccessKey:   getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:   getEnv("AWS_SECRET_KEY", ""),
		PersonaFile:    getEnv("PERSONA_FILE", ""),
		PasswordScheme: getEnv("PASSWORD_SCHEME", string(security.SchemeSHA256)),
		AuthRateLimit:  getEnvFloat("AUTH_RATE_LIMIT", 5),
		AuthRateBurst:  getEnvInt("AUTH_RATE_BURST", 10),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
	}
}

// Validate reports every problem with cfg at once.
func Validate(cfg *Config) error {
	var errs []error
	if cfg.Port == "" {
		errs = append(errs, errors.New("PORT not set"))
	}
	if cfg.DatabaseURL == "" && cfg.Env != "dev" {
		errs = append(errs, errors.New("DATABASE_URL not set"))
	}
	if cfg.AIEnabled && cfg.AIAPIKey == "" {
		errs = append(errs, errors.New("AI_ENABLED requires GEMINI_API_KEY"))
	}
	if _, err := security.ParseScheme(cfg.PasswordScheme); err != nil {
		errs = append(errs, err)
	}
	if cfg.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if cfg.SweepInterval <= 0 {
		errs = append(errs, errors.New("SESSION_SWEEP_INTERVAL must be positive"))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if (cfg.AwsAccessKey == "") != (cfg.AwsSecretKey == "") {
		errs = append(errs, errors.New("AWS_ACCESS_KEY and AWS_SECRET_KEY must be set together"))
	}
	return errors.Join(errs...)
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Warn().Str("key", key).Str("value", v).Int("default", def).Msg("not a non-negative int, using default")
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		log.Warn().Str("key", key).Str("value", v).Float64("default", def).Msg("not a non-negative number, using default")
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(getEnv(key, ""))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Bool("default", def).Msg("not a bool, using default")
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Dur("default", def).Msg("not a duration, using default")
		return def
	}
	return d
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}
