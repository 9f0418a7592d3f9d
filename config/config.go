package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string
	FrontendURL string
	// AllowedHosts is the extra set of CORS origins besides FrontendURL.
	AllowedHosts []string
	MediaRoot    string
	CacheTTL     time.Duration
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func LoadConfig() Config {
	cfg := Config{
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		MediaRoot:   getEnv("MEDIA_ROOT", "media"),
	}

	if hosts := strings.TrimSpace(os.Getenv("ALLOWED_HOSTS")); hosts != "" {
		for _, h := range strings.Split(hosts, ",") {
			h = strings.TrimSpace(h)
			if h != "" {
				cfg.AllowedHosts = append(cfg.AllowedHosts, h)
			}
		}
	}

	ttlSeconds := 300
	if raw := strings.TrimSpace(os.Getenv("CACHE_TTL_SECONDS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			ttlSeconds = n
		}
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	return cfg
}
