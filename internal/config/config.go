package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig points the client at the UniTrack backend.
type APIConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"` // 0 disables client-side pacing
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           string   `yaml:"port"`
	Mode           string   `yaml:"mode"`          // debug, release, test
	AllowOrigins   []string `yaml:"allow_origins"` // empty allows any origin
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

// StorageConfig selects where the session and cookies are persisted.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
	Secret string `yaml:"secret"` // seals persisted values when set
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		fileCfg := DefaultConfig()
		if err := yaml.Unmarshal(data, fileCfg); err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	// .env is optional; variables already set in the environment win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	cfg.overrideFromEnv()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 15,
			RateLimitRPS:   10,
			RateLimitBurst: 20,
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           "8090",
			Mode:           "debug",
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "unitrack.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) overrideFromEnv() {
	if baseURL := os.Getenv("UNITRACK_API_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if timeout := os.Getenv("API_TIMEOUT_SECONDS"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.API.TimeoutSeconds = secs
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		c.Server.AllowOrigins = splitList(origins)
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Storage.DSN = dsn
	}
	if secret := os.Getenv("STORAGE_SECRET"); secret != "" {
		c.Storage.Secret = secret
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}
