package app

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/roadmap-client/internal/logger"
	"github.com/yungbote/roadmap-client/internal/utils"
)

type Config struct {
	APIBaseURL     string
	Token          string
	LogMode        string
	RequestTimeout time.Duration
}

// fileConfig is the optional YAML config file (~/.roadmap/config.yaml or
// ROADMAP_CONFIG). Environment variables override every field.
type fileConfig struct {
	APIBaseURL            string `yaml:"api_base_url"`
	Token                 string `yaml:"token"`
	LogMode               string `yaml:"log_mode"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		APIBaseURL:     "http://localhost:8080",
		LogMode:        "development",
		RequestTimeout: 30 * time.Second,
	}

	if fc, ok := readConfigFile(log); ok {
		if fc.APIBaseURL != "" {
			cfg.APIBaseURL = fc.APIBaseURL
		}
		if fc.Token != "" {
			cfg.Token = fc.Token
		}
		if fc.LogMode != "" {
			cfg.LogMode = fc.LogMode
		}
		if fc.RequestTimeoutSeconds > 0 {
			cfg.RequestTimeout = time.Duration(fc.RequestTimeoutSeconds) * time.Second
		}
	}

	cfg.APIBaseURL = utils.GetEnv("ROADMAP_API_BASE_URL", cfg.APIBaseURL, log)
	cfg.Token = utils.GetEnv("ROADMAP_TOKEN", cfg.Token, log)
	cfg.LogMode = utils.GetEnv("LOG_MODE", cfg.LogMode, log)
	timeoutSec := utils.GetEnvAsInt("ROADMAP_REQUEST_TIMEOUT", int(cfg.RequestTimeout/time.Second), log)
	if timeoutSec > 0 {
		cfg.RequestTimeout = time.Duration(timeoutSec) * time.Second
	}
	return cfg
}

func readConfigFile(log *logger.Logger) (fileConfig, bool) {
	var fc fileConfig
	path := os.Getenv("ROADMAP_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fc, false
		}
		path = filepath.Join(home, ".roadmap", "config.yaml")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, false
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		if log != nil {
			log.Warn("Ignoring malformed config file", "path", path, "error", err)
		}
		return fileConfig{}, false
	}
	if log != nil {
		log.Debug("Loaded config file", "path", path)
	}
	return fc, true
}
