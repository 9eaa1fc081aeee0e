// Package config loads the planner's YAML settings file and applies
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/utils"
)

var (
	// ErrEmptyPath is returned when Load or Save is called without a path.
	ErrEmptyPath = errors.New("config path is empty")
)

// DigestConfig controls the scheduled agenda digest.
type DigestConfig struct {
	// Cron is a five-field schedule evaluated in Config.Timezone.
	Cron string `yaml:"cron"`
	// TelegramChatID selects the Telegram sender when non-zero.
	TelegramChatID int64 `yaml:"telegram_chat_id,omitempty"`
	// TelegramToken is normally kept in the OS keyring instead.
	TelegramToken string `yaml:"telegram_token,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Database is a SQLite path, a .json path or a postgres:// URL.
	Database     string       `yaml:"database"`
	WeekStart    string       `yaml:"week_start"`
	DayStartHour int          `yaml:"day_start_hour"`
	DayEndHour   int          `yaml:"day_end_hour"`
	Timezone     string       `yaml:"timezone"`
	Digest       DigestConfig `yaml:"digest"`
	Debug        bool         `yaml:"debug"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database:     constants.DefaultDBPath,
		WeekStart:    constants.DefaultWeekStart,
		DayStartHour: constants.DefaultDayStartHour,
		DayEndHour:   constants.DefaultDayEndHour,
		Timezone:     constants.DefaultTimezone,
		Digest: DigestConfig{
			Cron: constants.DefaultDigestCron,
		},
	}
}

// Normalize fills in missing or out-of-range values with defaults.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.Database) == "" {
		c.Database = constants.DefaultDBPath
	}

	switch strings.ToLower(strings.TrimSpace(c.WeekStart)) {
	case constants.WeekStartSunday:
		c.WeekStart = constants.WeekStartSunday
	default:
		c.WeekStart = constants.WeekStartMonday
	}

	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		c.DayStartHour = constants.DefaultDayStartHour
	}
	if c.DayEndHour <= c.DayStartHour || c.DayEndHour > 24 {
		c.DayEndHour = constants.DefaultDayEndHour
		if c.DayEndHour <= c.DayStartHour {
			c.DayEndHour = 24
		}
	}

	if c.Timezone == "" || !utils.ValidateTimezone(c.Timezone) {
		c.Timezone = constants.DefaultTimezone
	}
	if strings.TrimSpace(c.Digest.Cron) == "" {
		c.Digest.Cron = constants.DefaultDigestCron
	}
}

// FirstWeekday returns the configured first day of the week.
func (c *Config) FirstWeekday() time.Weekday {
	return utils.ParseWeekStart(c.WeekStart)
}

// Location returns the configured timezone, falling back to local time.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Today returns the current calendar date in the configured timezone.
func (c *Config) Today() time.Time {
	return utils.DateOf(time.Now().In(c.Location()))
}

// Load loads configuration from the given YAML path. A missing file is
// created with defaults; an existing one is read and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return ErrEmptyPath
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	path = ExpandPath(path)

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".planner-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience wrapper around the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{constants.EnvFile}
	}
	for _, f := range files {
		f = ExpandPath(f)
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg fields from PLANNER_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(constants.EnvDB); v != "" {
		c.Database = v
	}
	if v := os.Getenv(constants.EnvTelegramToken); v != "" {
		c.Digest.TelegramToken = v
	}
	if v := os.Getenv(constants.EnvTelegramChatID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", constants.EnvTelegramChatID, v, err)
		}
		c.Digest.TelegramChatID = id
	}
	if v := os.Getenv(constants.EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", constants.EnvDebug, v, err)
		}
		c.Debug = debug
	}
	return nil
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Dir returns the directory holding the config file at path.
func Dir(path string) string {
	return filepath.Dir(ExpandPath(path))
}
