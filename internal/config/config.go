package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

const (
	DefaultConfigFile = "tasklist.toml"
	DefaultEnvFile    = ".env"
)

type RuntimeConfig struct {
	Backend              string `toml:"backend"`
	DBPath               string `toml:"db_path"`
	FilePath             string `toml:"file_path"`
	ConfirmDeletes       bool   `toml:"confirm_deletes"`
	DesktopNotifications bool   `toml:"desktop_notifications"`
	LogLevel             string `toml:"log_level"`
	LogFile              string `toml:"log_file"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Backend:              string(storage.BackendSQLite),
		DBPath:               ".tasklist.db",
		FilePath:             ".tasklist.json",
		ConfirmDeletes:       true,
		DesktopNotifications: false,
		LogLevel:             "info",
		LogFile:              ".tasklist.log",
	}
}

// StoragePath is the path handed to storage.Open for the configured backend.
func (c RuntimeConfig) StoragePath() string {
	if storage.Backend(c.Backend) == storage.BackendFile {
		return c.FilePath
	}
	return c.DBPath
}

// Normalized returns c with the backend name in canonical form, or an error
// when the result does not validate. StoragePath and storage.Open only
// recognise the canonical names.
func (c RuntimeConfig) Normalized() (RuntimeConfig, error) {
	b, err := storage.ParseBackend(c.Backend)
	if err != nil {
		return c, err
	}
	c.Backend = string(b)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return c, c.Validate()
}

func (c RuntimeConfig) Validate() error {
	if _, err := storage.ParseBackend(c.Backend); err != nil {
		return err
	}
	if strings.TrimSpace(c.StoragePath()) == "" && storage.Backend(c.Backend) != storage.BackendMemory {
		return fmt.Errorf("config: %s backend needs a path", c.Backend)
	}
	return nil
}

type LoadOptions struct {
	// ConfigFile is read when set and must exist. When empty,
	// DefaultConfigFile is read only if present.
	ConfigFile string
	EnvFile    string
}

// Load layers defaults, the TOML file, the .env file and the environment, in
// that order of increasing precedence.
func Load(opts LoadOptions) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	path := opts.ConfigFile
	required := path != ""
	if !required {
		path = DefaultConfigFile
	}
	next, err := RuntimeConfigFromFile(cfg, path)
	switch {
	case err == nil:
		cfg = next
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return cfg, err
	}

	cfg = RuntimeConfigFromEnv(cfg)
	return cfg.Normalized()
}

// RuntimeConfigFromFile overlays keys present in a TOML file onto base.
func RuntimeConfigFromFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	cfg := base
	if _, err := os.Stat(path); err != nil {
		return base, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKLIST_BACKEND"); ok {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLIST_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TASKLIST_FILE_PATH"); ok {
		cfg.FilePath = v
	}
	if v, ok := getEnvBool("TASKLIST_CONFIRM_DELETES"); ok {
		cfg.ConfirmDeletes = v
	}
	if v, ok := getEnvBool("TASKLIST_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvString("TASKLIST_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLIST_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		if v, err := strconv.ParseBool(raw); err == nil {
			return v, true
		}
		return false, false
	}
}
