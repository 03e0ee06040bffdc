package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/misterclayt0n/stretchcoach/internal/models"
)

const DefaultBridgeURL = "ws://127.0.0.1:8765/pose"

type Config struct {
	Model  ModelConfig  `toml:"model"`
	Bridge BridgeConfig `toml:"bridge"`
	Log    LogConfig    `toml:"log"`
}

type ModelConfig struct {
	URL string `toml:"url"` // Base location of model.json and metadata.json.
}

type BridgeConfig struct {
	URL string `toml:"url"` // WebSocket endpoint of the classifier bridge.
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Model:  ModelConfig{URL: models.DefaultModelURL},
		Bridge: BridgeConfig{URL: DefaultBridgeURL},
		Log:    LogConfig{Level: "warn"},
	}
}

// Returns the path to the config file.
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".config", "stretchcoach")
	return filepath.Join(dir, "config.toml"), nil
}

// Reads the configuration from path (or the default location when empty).
// A missing file yields defaults. A .env file in the working directory is
// loaded if present, then STRETCHCOACH_* variables override the file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// .env is optional.
	_ = godotenv.Load()
	applyEnv(&cfg)

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STRETCHCOACH_MODEL_URL"); v != "" {
		cfg.Model.URL = v
	}
	if v := os.Getenv("STRETCHCOACH_BRIDGE_URL"); v != "" {
		cfg.Bridge.URL = v
	}
	if v := os.Getenv("STRETCHCOACH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is left alone unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fs.ErrExist
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(Default())
}
