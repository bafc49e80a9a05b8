package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OAuth    OAuthConfig
	Admin    AdminConfig
	Redis    RedisConfig
	Fetch    FetchConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	FrontendURL   string
	BackendOrigin string
	MigrationsDir string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
}

type OAuthConfig struct {
	Google   OAuthProviderConfig
	LinkedIn OAuthProviderConfig
}

type AdminConfig struct {
	// Emails granted admin on every login, lowercased.
	Emails []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type FetchConfig struct {
	Timeout         time.Duration
	HeadlessEnabled bool
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   req("APP_ENV"),
		HTTPPort:      req("HTTP_PORT"),
		FrontendURL:   opt("FRONTEND_URL", "http://localhost:3000"),
		BackendOrigin: opt("BACKEND_ORIGIN", "http://localhost:8000"),
		MigrationsDir: opt("MIGRATIONS_DIR", "migrations"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST", "localhost"),
		DBPort:         opt("DB_PORT", "5432"),
		DBName:         opt("DB_NAME", "jobtrack"),
		DBUser:         opt("DB_USER", "postgres"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE", "disable"),
		ConnectTimeout: optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:   int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:   int32(optInt("DB_POOL_MIN_CONNS", 0)),
	}

	cfg.JWT = JWTConfig{
		Secret:    req("JWT_SECRET"),
		ExpiresIn: optDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.OAuth = OAuthConfig{
		Google: OAuthProviderConfig{
			ClientID:     opt("GOOGLE_CLIENT_ID", ""),
			ClientSecret: opt("GOOGLE_CLIENT_SECRET", ""),
		},
		LinkedIn: OAuthProviderConfig{
			ClientID:     opt("LINKEDIN_CLIENT_ID", ""),
			ClientSecret: opt("LINKEDIN_CLIENT_SECRET", ""),
		},
	}

	cfg.Admin = AdminConfig{
		Emails: parseEmailList(os.Getenv("ADMIN_EMAILS")),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		TTL:      optDuration("REDIS_TTL", 10*time.Minute),
	}

	cfg.Fetch = FetchConfig{
		Timeout:         optDuration("FETCH_TIMEOUT", 20*time.Second),
		HeadlessEnabled: optBool("FETCH_HEADLESS_ENABLED", false),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func (c AdminConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range c.Emails {
		if e == email {
			return true
		}
	}
	return false
}

func parseEmailList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func optDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func optInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func optBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
