package config

import (
	"errors"
	"log/slog"
	"strings"

	"discord-modbot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultSQLiteURL = "file:data/modbot.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"

var ErrMissingToken = errors.New("BOT_TOKEN environment variable not set")

// Load reads the configuration from the environment, after merging an
// optional .env file.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env file not found, relying on environment variables")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DATABASE_DRIVER", "sqlite3")
	v.SetDefault("DATABASE_URL", DefaultSQLiteURL)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_KEY_PREFIX", "modbot")
	v.SetDefault("HEALTH_ADDR", ":8080")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DEVELOPER_USER_IDS", "")
	v.SetDefault("GUILD_IDS", "")
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*model.Config, error) {
	token := v.GetString("BOT_TOKEN")
	if token == "" {
		return nil, ErrMissingToken
	}

	driver := strings.ToLower(v.GetString("DATABASE_DRIVER"))
	if driver == "postgresql" {
		driver = "postgres"
	}
	if driver != "postgres" && driver != "sqlite3" {
		return nil, errors.New("DATABASE_DRIVER must be postgres or sqlite3")
	}

	dsn := v.GetString("DATABASE_URL")
	if driver == "sqlite3" {
		dsn = WithImmediateTxLock(dsn)
	}

	return &model.Config{
		BotToken:         token,
		AppID:            v.GetString("APP_ID"),
		DatabaseDriver:   driver,
		DatabaseURL:      dsn,
		RedisURL:         v.GetString("REDIS_URL"),
		CacheKeyPrefix:   v.GetString("CACHE_KEY_PREFIX"),
		HealthAddr:       v.GetString("HEALTH_ADDR"),
		OTLPEndpoint:     v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		DeveloperUserIDs: splitList(v.GetString("DEVELOPER_USER_IDS")),
		GuildIDs:         splitList(v.GetString("GUILD_IDS")),
	}, nil
}

// WithImmediateTxLock makes SQLite transactions take the write lock at BEGIN,
// which is what serializes case numbering per guild on that driver.
// An explicit _txlock=exclusive is kept; any other value is replaced.
func WithImmediateTxLock(dsn string) string {
	base, query, _ := strings.Cut(dsn, "?")
	var params []string
	for _, p := range strings.Split(query, "&") {
		if p == "" {
			continue
		}
		if key, value, _ := strings.Cut(p, "="); key == "_txlock" {
			if value == "exclusive" {
				return dsn
			}
			continue
		}
		params = append(params, p)
	}
	params = append(params, "_txlock=immediate")
	return base + "?" + strings.Join(params, "&")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
