package toml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName    = "config"
	configType    = "toml"
	configDir     = ".frontdesk"
	inventoryFile = "inventory.toml"
	envPrefix     = "FRONTDESK"

	InventoryPathKey   = "inventory.path"
	SessionDurationKey = "sessions.duration"
	RefreshDurationKey = "sessions.refresh"
	LogLevelKey        = "log.level"
)

// Settings is the resolved content of config.toml merged with defaults and
// FRONTDESK_* environment overrides.
type Settings struct {
	InventoryPath   string
	SessionDuration time.Duration
	RefreshDuration time.Duration
	LogLevel        string
}

// LoadSettings points cfg at ~/.frontdesk/config.toml and reads it. A
// missing config file is not an error.
func LoadSettings(cfg *viper.Viper) (Settings, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(InventoryPathKey, filepath.Join(homeDir, configDir, inventoryFile))
	cfg.SetDefault(SessionDurationKey, "30m")
	cfg.SetDefault(RefreshDurationKey, "30m")
	cfg.SetDefault(LogLevelKey, "warn")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
	}

	inventoryPath := cfg.GetString(InventoryPathKey)
	if inventoryPath == "" {
		return Settings{}, errors.New("inventory path is empty")
	}
	inventoryPath, err = normalizePath(inventoryPath)
	if err != nil {
		return Settings{}, err
	}

	session, err := positiveDuration(cfg, SessionDurationKey)
	if err != nil {
		return Settings{}, err
	}
	refresh, err := positiveDuration(cfg, RefreshDurationKey)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		InventoryPath:   inventoryPath,
		SessionDuration: session,
		RefreshDuration: refresh,
		LogLevel:        cfg.GetString(LogLevelKey),
	}, nil
}

func positiveDuration(cfg *viper.Viper, key string) (time.Duration, error) {
	raw := cfg.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve inventory path: %w", err)
	}

	return filepath.Clean(absPath), nil
}
