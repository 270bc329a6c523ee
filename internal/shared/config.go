package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API       APIConfig       `toml:"api"`
	Database  DatabaseConfig  `toml:"database"`
	Session   SessionConfig   `toml:"session"`
	Log       LogConfig       `toml:"log"`
	DevServer DevServerConfig `toml:"dev_server"`
}

// APIConfig contains the cinema backend connection settings.
type APIConfig struct {
	BaseURL           string  `toml:"base_url" env:"MARQUEE_API_BASE_URL"`
	TimeoutSeconds    int     `toml:"timeout_seconds" env:"MARQUEE_API_TIMEOUT_SECONDS"`
	RequestsPerSecond float64 `toml:"requests_per_second" env:"MARQUEE_API_REQUESTS_PER_SECOND"`
}

// Timeout returns the per-request timeout, or zero when disabled.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"MARQUEE_DATABASE_PATH"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SessionConfig controls where the persisted session record lives.
type SessionConfig struct {
	Key string `toml:"key" env:"MARQUEE_SESSION_KEY"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level" env:"MARQUEE_LOG_LEVEL"`
	File  string `toml:"file" env:"MARQUEE_LOG_FILE"`
}

// DevServerConfig contains settings for the in-memory development backend.
type DevServerConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port" env:"MARQUEE_DEV_SERVER_PORT"`
	AdminEmail    string `toml:"admin_email"`
	AdminPassword string `toml:"admin_password"`
}

// Addr returns the host:port listen address.
func (c DevServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads path when it exists and falls back to defaults otherwise,
// then applies environment overrides.
func ResolveConfig(path string, dotenv ...string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := ApplyEnv(config, dotenv...); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides config values from MARQUEE_* environment variables.
//
// Any dotenv files that exist are loaded first; variables already set in the process environment win.
func ApplyEnv(config *Config, dotenv ...string) error {
	var files []string
	for _, f := range dotenv {
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return fmt.Errorf("%w: failed to load env file: %v", ErrInvalidConfig, err)
		}
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
