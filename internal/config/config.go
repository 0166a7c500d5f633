// Package config loads Lumen settings from a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTextModel        = "gemini-2.5-flash"
	DefaultImageModel       = "imagen-3.0-generate-002"
	DefaultAdminEmail       = "admin@lumen.ai"
	DefaultReminderInterval = 60 * time.Second
	DefaultLogLevel         = "info"
)

type Config struct {
	DBPath           string        `yaml:"db_path"`
	LogFile          string        `yaml:"log_file"`
	LogLevel         string        `yaml:"log_level"`
	APIKey           string        `yaml:"api_key"`
	TextModel        string        `yaml:"text_model"`
	ImageModel       string        `yaml:"image_model"`
	AdminEmail       string        `yaml:"admin_email"`
	ReminderInterval time.Duration `yaml:"reminder_interval"`
}

// DefaultPath returns ~/.config/lumen/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "lumen", "config.yaml"), nil
}

// Load reads path (a missing file is fine), then .env in the working directory, then
// the process environment. Later sources win.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setIf(&cfg.DBPath, "LUMEN_DB")
	setIf(&cfg.LogFile, "LUMEN_LOG_FILE")
	setIf(&cfg.LogLevel, "LUMEN_LOG_LEVEL")
	setIf(&cfg.APIKey, "API_KEY")
	setIf(&cfg.APIKey, "GEMINI_API_KEY")
	setIf(&cfg.TextModel, "LUMEN_TEXT_MODEL")
	setIf(&cfg.ImageModel, "LUMEN_IMAGE_MODEL")
	setIf(&cfg.AdminEmail, "LUMEN_ADMIN_EMAIL")

	if v := strings.TrimSpace(os.Getenv("LUMEN_REMINDER_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LUMEN_REMINDER_INTERVAL: %w", err)
		}
		cfg.ReminderInterval = d
	}
	return nil
}

func setIf(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = DefaultAdminEmail
	}
	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = DefaultReminderInterval
	}
	if cfg.LogFile == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			cfg.LogFile = filepath.Join(dir, "lumen", "lumen.log")
		}
	}
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if n := len(c.APIKey); n > 0 {
		if n > 4 {
			n = 4
		}
		c.APIKey = c.APIKey[:n] + "..."
	}
	return c
}
