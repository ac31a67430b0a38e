package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config captures the environment driven settings of the API process.
type Config struct {
	Port            int           `validate:"min=1,max=65535"`
	StoreDriver     string        `validate:"oneof=mongo memory"`
	MongoURI        string        `validate:"required_if=StoreDriver mongo"`
	MongoDatabase   string        `validate:"required"`
	JWTSecret       string        `validate:"required"`
	TokenTTL        time.Duration `validate:"gt=0"`
	StripeSecretKey string
	StripeAPIURL    string        `validate:"omitempty,url"`
	RedisURL        string        `validate:"omitempty,url"`
	LockTTL         time.Duration `validate:"gt=0"`
	CORSOrigins     []string      `validate:"min=1"`
	LogLevel        string        `validate:"oneof=debug info warn error"`
	LogFormat       string        `validate:"oneof=json text"`
}

// Load reads envFile into the process environment when it exists (variables already
// set win), then builds and validates a Config.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Port:          5000,
		StoreDriver:   "mongo",
		MongoURI:      strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase: "languageLoom",
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_AC_TOKEN")),
		TokenTTL:      5 * time.Hour,
		LockTTL:       10 * time.Second,
		CORSOrigins:   []string{"*"},
		LogLevel:      "info",
		LogFormat:     "json",

		StripeSecretKey: strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		StripeAPIURL:    strings.TrimSpace(os.Getenv("STRIPE_API_URL")),
		RedisURL:        strings.TrimSpace(os.Getenv("REDIS_URL")),
	}

	invalid := make([]string, 0, 3)

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			invalid = append(invalid, "PORT")
		} else {
			cfg.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("STORE_DRIVER")); v != "" {
		cfg.StoreDriver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("MONGO_DATABASE")); v != "" {
		cfg.MongoDatabase = v
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = atlasURI(os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("MONGO_HOST"))
	}
	if v := strings.TrimSpace(os.Getenv("TOKEN_TTL")); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			invalid = append(invalid, "TOKEN_TTL")
		} else {
			cfg.TokenTTL = ttl
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOCK_TTL")); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			invalid = append(invalid, "LOCK_TTL")
		} else {
			cfg.LockTTL = ttl
		}
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// atlasURI builds the Atlas connection string used when MONGO_URI is not given.
func atlasURI(user, pass, host string) string {
	user, pass, host = strings.TrimSpace(user), strings.TrimSpace(pass), strings.TrimSpace(host)
	if user == "" || pass == "" || host == "" {
		return ""
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		url.QueryEscape(user), url.QueryEscape(pass), host)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
