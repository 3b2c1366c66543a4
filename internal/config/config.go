// Package config loads AgroBot settings from defaults, an optional
// agrobot.yaml, a .env file and AGROBOT_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// AGROBOT_WEATHER_API_KEY for weather.api_key.
const EnvPrefix = "AGROBOT"

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	DataDir     string        `mapstructure:"data_dir"`
	LogFile     string        `mapstructure:"log_file"`
	LogLevel    string        `mapstructure:"log_level"`
	Storage     StorageConfig `mapstructure:"storage"`
	ThemesFile  string        `mapstructure:"themes_file"`
	IntentsFile string        `mapstructure:"intents_file"`
	HTTP        HTTPConfig    `mapstructure:"http"`
	Geo         GeoConfig     `mapstructure:"geo"`
	Weather     WeatherConfig `mapstructure:"weather"`
	Pest        PestConfig    `mapstructure:"pest"`
	Chat        ChatConfig    `mapstructure:"chat"`
	RandomSeed  uint64        `mapstructure:"random_seed"`
}

type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type GeoConfig struct {
	URL string `mapstructure:"url"`
}

type WeatherConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type PestConfig struct {
	URL string `mapstructure:"url"`
}

type ChatConfig struct {
	ThinkingDelay time.Duration `mapstructure:"thinking_delay"`
}

// Options control where Load looks.
type Options struct {
	// ConfigFile is an explicit config path; empty searches the working
	// directory and the data directory for agrobot.yaml.
	ConfigFile string
	// EnvFile is loaded with godotenv before reading the environment. A
	// missing file is ignored unless it was set explicitly.
	EnvFile string
	// HomeDir overrides the user's home directory (tests).
	HomeDir string
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("data_dir", filepath.Join(home, ".agrobot"))
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("storage.backend", BackendJSON)
	v.SetDefault("storage.sqlite_path", "")
	v.SetDefault("themes_file", "")
	v.SetDefault("intents_file", "")
	v.SetDefault("http.timeout", 5*time.Second)
	v.SetDefault("http.user_agent", "AgroBot/1.0")
	v.SetDefault("geo.url", "https://ipinfo.io/")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("pest.url", "https://sites.google.com/view/pest-advice/home")
	v.SetDefault("chat.thinking_delay", 400*time.Millisecond)
	v.SetDefault("random_seed", 0)
}

// Load resolves the configuration and fills derived paths.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && (opts.EnvFile != "" || !errors.Is(err, os.ErrNotExist)) {
		return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
	}

	home := opts.HomeDir
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		home = h
	}

	v := viper.New()
	setDefaults(v, home)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("agrobot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(expandHome(v.GetString("data_dir"), home))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.DataDir = expandHome(cfg.DataDir, home)
	cfg.fillDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fillDerived points unset paths into the data directory.
func (c *Config) fillDerived() {
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "agrobot.log")
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join(c.DataDir, "agrobot.db")
	}
	if c.ThemesFile == "" {
		c.ThemesFile = filepath.Join(c.DataDir, "theme.json")
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("invalid config: storage.backend %q (want %s or %s)", c.Storage.Backend, BackendJSON, BackendSQLite)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("invalid config: data_dir is empty")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("invalid config: http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.Chat.ThinkingDelay < 0 {
		return fmt.Errorf("invalid config: chat.thinking_delay must not be negative, got %s", c.Chat.ThinkingDelay)
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
