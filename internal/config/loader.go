package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported document stores.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config captures environment driven configuration values for the seat planner.
type Config struct {
	HTTPPort     int    `yaml:"http_port"`
	Store        string `yaml:"store"`
	DataFile     string `yaml:"data_file"`
	SQLiteDSN    string `yaml:"sqlite_dsn"`
	LogLevel     string `yaml:"log_level"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTPPort:     3001,
		Store:        StoreJSON,
		DataFile:     "data.json",
		SQLiteDSN:    "seatplan.db",
		LogLevel:     "info",
		MaxBodyBytes: 50 << 20,
	}
}

// Load parses configuration values from the current process environment.
//
// When SEATPLAN_CONFIG_FILE names a YAML file its values are applied over the
// defaults first; environment variables take precedence over the file. All
// missing or invalid entries are reported together.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("SEATPLAN_CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SEATPLAN_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SEATPLAN_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if store := strings.TrimSpace(os.Getenv("SEATPLAN_STORE")); store != "" {
		cfg.Store = strings.ToLower(store)
	}

	if path := strings.TrimSpace(os.Getenv("SEATPLAN_DATA_FILE")); path != "" {
		cfg.DataFile = path
	}

	if dsn := strings.TrimSpace(os.Getenv("SEATPLAN_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if level := strings.TrimSpace(os.Getenv("SEATPLAN_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if limitValue := strings.TrimSpace(os.Getenv("SEATPLAN_MAX_BODY_BYTES")); limitValue != "" {
		limit, err := strconv.ParseInt(limitValue, 10, 64)
		if err != nil || limit <= 0 {
			invalid = append(invalid, "SEATPLAN_MAX_BODY_BYTES")
		} else {
			cfg.MaxBodyBytes = limit
		}
	}

	switch cfg.Store {
	case StoreJSON:
		if strings.TrimSpace(cfg.DataFile) == "" {
			missing = append(missing, "SEATPLAN_DATA_FILE")
		}
	case StoreSQLite:
		if strings.TrimSpace(cfg.SQLiteDSN) == "" {
			missing = append(missing, "SEATPLAN_SQLITE_DSN")
		}
	default:
		invalid = append(invalid, "SEATPLAN_STORE")
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		invalid = append(invalid, "SEATPLAN_LOG_LEVEL")
	}
	if cfg.HTTPPort <= 0 && !slices.Contains(invalid, "SEATPLAN_HTTP_PORT") {
		invalid = append(invalid, "SEATPLAN_HTTP_PORT")
	}
	if cfg.MaxBodyBytes <= 0 && !slices.Contains(invalid, "SEATPLAN_MAX_BODY_BYTES") {
		invalid = append(invalid, "SEATPLAN_MAX_BODY_BYTES")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("Erforderliche Umgebungsvariablen fehlen: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("Ungültige Werte in Umgebungsvariablen: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Level returns the configured slog level. Load has already validated it.
func (c Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Konfigurationsdatei kann nicht gelesen werden: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("Ungültige Werte in der Konfigurationsdatei %s: %s", path, strings.Join(typeErr.Errors, "; "))
		}
		return fmt.Errorf("Konfigurationsdatei ist kein gültiges YAML: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	return nil
}
