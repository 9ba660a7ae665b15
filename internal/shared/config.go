package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	SheetBase     string
	SheetToken    string
	PackagesSheet string // "" means the default (unnamed) sheet
	SheetRPS      int
	CacheTTL      time.Duration // 0 disables caching entirely
}

func Load() Config {
	// local development convenience; missing .env is fine
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		SheetBase:     env("SHEETDB_BASE_URL", "https://sheetdb.io/api/v1/kvizvbox8f7jz"),
		SheetToken:    env("SHEETDB_TOKEN", ""),
		PackagesSheet: env("SHEETDB_PACKAGES_SHEET", ""),
		SheetRPS:      atoi("SHEETDB_RPS", 5),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
	}
	if c.SheetToken == "" {
		log.Warn().Msg("SHEETDB_TOKEN is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
