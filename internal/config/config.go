package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Хранилища записей
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

const (
	defaultEnvironment    = "development"
	defaultLoginDomain    = "serviceplan.local"
	defaultTimezone       = "Europe/Minsk"
	defaultResyncInterval = 5 * time.Minute
)

type Config struct {
	TelegramToken     string
	DBDSN             string
	Environment       string
	LogLevel          string
	StoreBackend      string
	LoginDomain       string
	Timezone          string
	ResyncInterval    time.Duration
	MigrationsOnStart bool
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из произвольного источника переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		TelegramToken:     getenv("TELEGRAM_TOKEN"),
		DBDSN:             getenv("DB_DSN"),
		Environment:       withDefault(getenv("ENV"), defaultEnvironment),
		LogLevel:          getenv("LOG_LEVEL"),
		StoreBackend:      withDefault(getenv("STORE_BACKEND"), BackendPostgres),
		LoginDomain:       withDefault(getenv("LOGIN_DOMAIN"), defaultLoginDomain),
		Timezone:          withDefault(getenv("TIMEZONE"), defaultTimezone),
		ResyncInterval:    defaultResyncInterval,
		MigrationsOnStart: true,
	}

	if raw := getenv("RESYNC_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse RESYNC_INTERVAL: %w", err)
		}
		cfg.ResyncInterval = d
	}

	if raw := getenv("MIGRATIONS_ON_START"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse MIGRATIONS_ON_START: %w", err)
		}
		cfg.MigrationsOnStart = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for %s backend", BackendPostgres)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("load TIMEZONE: %w", err)
	}

	return nil
}

// Location часовой пояс, в котором считается "сегодня"
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RequireTelegram проверяет наличие токена бота
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	return nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
