package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config carries the console's runtime settings.
type Config struct {
	App     AppConfig     `yaml:"app"`
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
}

type AppConfig struct {
	Name string `yaml:"name"`
	Env  string `yaml:"env"`
}

type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	AuthorityURL   string        `yaml:"authority_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type SessionConfig struct {
	DataDir    string        `yaml:"data_dir"`
	Skew       time.Duration `yaml:"skew"`
	MinLoading time.Duration `yaml:"min_loading"`
}

// Load reads the optional YAML config file, applies defaults, then lets
// environment variables override individual fields. A missing file is not
// an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, errors.Wrap(err, "[config.Load] parse yaml")
			}
		} else if !os.IsNotExist(err) {
			return Config{}, errors.Wrap(err, "[config.Load] read file")
		}
	}

	cfg = applyDefaults(cfg)
	cfg = applyEnv(cfg)
	return cfg, nil
}

func applyDefaults(cfg Config) Config {
	if cfg.App.Name == "" {
		cfg.App.Name = "Nexora Console"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "DEV"
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080/api"
	}
	if cfg.API.AuthorityURL == "" {
		cfg.API.AuthorityURL = "http://localhost:8080/auth"
	}
	if cfg.API.RequestTimeout == 0 {
		cfg.API.RequestTimeout = 10 * time.Second
	}
	if cfg.Session.DataDir == "" {
		cfg.Session.DataDir = defaultDataDir()
	}
	if cfg.Session.Skew == 0 {
		cfg.Session.Skew = 30 * time.Second
	}
	if cfg.Session.MinLoading == 0 {
		cfg.Session.MinLoading = 300 * time.Millisecond
	}
	return cfg
}

func applyEnv(cfg Config) Config {
	cfg.App.Name = envString("NEXORA_APP_NAME", cfg.App.Name)
	cfg.App.Env = envString("NEXORA_ENV", cfg.App.Env)
	cfg.API.BaseURL = envString("NEXORA_API_URL", cfg.API.BaseURL)
	cfg.API.AuthorityURL = envString("NEXORA_AUTHORITY_URL", cfg.API.AuthorityURL)
	cfg.API.RequestTimeout = envDuration("NEXORA_REQUEST_TIMEOUT", cfg.API.RequestTimeout)
	cfg.Session.DataDir = envString("NEXORA_DATA_DIR", cfg.Session.DataDir)
	cfg.Session.Skew = envDuration("NEXORA_SKEW", cfg.Session.Skew)
	cfg.Session.MinLoading = envDuration("NEXORA_MIN_LOADING", cfg.Session.MinLoading)
	return cfg
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nexora"
	}
	return filepath.Join(home, ".nexora")
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
