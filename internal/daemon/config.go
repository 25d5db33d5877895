// Package daemon manages the nursequest server lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config holds all daemon configuration.
type Config struct {
	Profile ProfileConfig `toml:"profile"`
	Store   StoreConfig   `toml:"store"`
	API     APIConfig     `toml:"api"`
	Economy EconomyConfig `toml:"economy"`
	Logging LoggingConfig `toml:"logging"`
}

// ProfileConfig identifies the local player.
type ProfileConfig struct {
	ID      string `toml:"id"`
	Premium bool   `toml:"premium"`
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Backend       string `toml:"backend"` // sqlite | redis | memory
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// EconomyConfig tunes the engine and points at catalog overrides.
type EconomyConfig struct {
	LevelCap      int            `toml:"level_cap"` // 0 = uncapped
	ToolLimits    map[string]int `toml:"tool_limits"`
	CardsFile     string         `toml:"cards_file"`
	QuestionsFile string         `toml:"questions_file"`
	CompatFile    string         `toml:"compat_file"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	Mode  string `toml:"mode"` // dev | prod
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Backend:   "sqlite",
			Dir:       nursequestHome(),
			RedisAddr: "127.0.0.1:6379",
		},
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8787,
			Metrics: true,
		},
		Economy: EconomyConfig{
			ToolLimits: map[string]int{"news2": 5, "gcs": 5, "compat": 10},
		},
		Logging: LoggingConfig{
			Level: "info",
			Mode:  "dev",
		},
	}
}

// LoadConfig reads config from $NURSEQUEST_HOME/config.toml, falling back
// to defaults. A .env in the working directory or the home directory is
// loaded first; environment overrides are applied last.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	_ = godotenv.Load(filepath.Join(nursequestHome(), ".env"))

	cfg, err := loadFile()
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile returns defaults overlaid with config.toml, without env overrides.
func loadFile() (Config, error) {
	cfg := DefaultConfig()
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	return cfg, nil
}

// applyEnv lets NURSEQUEST_* variables override file values.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("NURSEQUEST_PREMIUM"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("NURSEQUEST_PREMIUM: %w", err)
		}
		cfg.Profile.Premium = b
	}
	if v := os.Getenv("NURSEQUEST_STORE"); v != "" {
		cfg.Store.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("NURSEQUEST_REDIS_ADDR"); v != "" {
		cfg.Store.RedisAddr = v
	}
	if v := os.Getenv("NURSEQUEST_PROFILE"); v != "" {
		cfg.Profile.ID = v
	}
	return nil
}

// EnsureProfileID assigns a fresh profile id when none is configured and
// persists it, so the same namespace is used on the next start. Only the id
// is written: environment overrides in cfg stay out of config.toml.
func EnsureProfileID(cfg *Config) (bool, error) {
	if cfg.Profile.ID != "" {
		return false, nil
	}
	cfg.Profile.ID = uuid.NewString()

	file, err := loadFile()
	if err != nil {
		return true, fmt.Errorf("save profile id: %w", err)
	}
	file.Profile.ID = cfg.Profile.ID
	if err := SaveConfig(file); err != nil {
		return true, fmt.Errorf("save profile id: %w", err)
	}
	return true, nil
}

// SaveConfig writes the config to $NURSEQUEST_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// ConfigPath is the config file location.
func ConfigPath() string {
	return filepath.Join(nursequestHome(), "config.toml")
}

// nursequestHome returns the data directory.
func nursequestHome() string {
	if env := os.Getenv("NURSEQUEST_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nursequest")
}

// Home is exported for use by other packages.
func Home() string {
	return nursequestHome()
}
