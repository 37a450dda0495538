package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	DatabaseURL string
	DBMaxConns  int32
	LogLevel    string
	LogFormat   string
}

// Load reads ./.env when present and overlays the process environment on top of it.
func Load() (Config, error) {
	return LoadFrom(filepath.Join(".", ".env"))
}

func LoadFrom(envPath string) (Config, error) {
	values := map[string]string{}
	if _, err := os.Stat(envPath); err == nil {
		fileValues, err := godotenv.Read(envPath)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", envPath, err)
		}
		values = fileValues
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("stat %s: %w", envPath, err)
	}

	cfg := Config{
		Port:       3001,
		DBMaxConns: 20,
		LogLevel:   "info",
		LogFormat:  "console",
	}
	if portRaw := firstNonEmpty(os.Getenv("PORT"), values["PORT"]); portRaw != "" {
		port, err := strconv.Atoi(portRaw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT: %q", portRaw)
		}
		cfg.Port = port
	}

	if connsRaw := firstNonEmpty(os.Getenv("DB_MAX_CONNS"), values["DB_MAX_CONNS"]); connsRaw != "" {
		conns, err := strconv.ParseInt(connsRaw, 10, 32)
		if err != nil || conns <= 0 {
			return Config{}, fmt.Errorf("invalid DB_MAX_CONNS: %q", connsRaw)
		}
		cfg.DBMaxConns = int32(conns)
	}

	if level := firstNonEmpty(os.Getenv("LOG_LEVEL"), values["LOG_LEVEL"]); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if format := firstNonEmpty(os.Getenv("LOG_FORMAT"), values["LOG_FORMAT"]); format != "" {
		format = strings.ToLower(format)
		if format != "console" && format != "json" {
			return Config{}, fmt.Errorf("invalid LOG_FORMAT: %q", format)
		}
		cfg.LogFormat = format
	}

	cfg.DatabaseURL = firstNonEmpty(os.Getenv("DATABASE_URL"), values["DATABASE_URL"])
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required (environment variable or .env)")
	}

	return cfg, nil
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if value := strings.TrimSpace(candidate); value != "" {
			return value
		}
	}
	return ""
}
