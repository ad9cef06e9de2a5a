package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables read by the configuration layer
const (
	EnvConfigPath  = "REXBOT_CONFIG"
	EnvAccessToken = "REXBOT_ACCESS_TOKEN"
	EnvBotID       = "REXBOT_BOT_ID"
	EnvBotUserID   = "REXBOT_BOT_USER_ID"
	EnvDBPath      = "REXBOT_DB_PATH"
	EnvLogLevel    = "REXBOT_LOG_LEVEL"
	EnvHealthPort  = "REXBOT_HEALTH_PORT"
)

// ErrNoConfigFile is returned by LoadFromEnv when no file was found
var ErrNoConfigFile = errors.New("no config file found")

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Bot      BotConfig      `toml:"bot"`
	Database DatabaseConfig `toml:"database"`
	Pattern  PatternConfig  `toml:"pattern"`
	Health   HealthConfig   `toml:"health"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"`
	DataDir     string `toml:"data_dir"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
}

// BotConfig holds the traQ bot credentials and transport settings
type BotConfig struct {
	AccessToken          string   `toml:"access_token"`
	BotID                string   `toml:"bot_id"`
	BotUserID            string   `toml:"bot_user_id"`
	WSURL                string   `toml:"ws_url"`
	APIURL               string   `toml:"api_url"`
	ReconnectInterval    Duration `toml:"reconnect_interval"`
	MaxReconnectInterval Duration `toml:"max_reconnect_interval"`
	RequestTimeout       Duration `toml:"request_timeout"`
	CommandPrefix        string   `toml:"command_prefix"`
	// MaxReplyLength in grapheme clusters
	MaxReplyLength int `toml:"max_reply_length"`
	// Locale of the chat replies (ja, en)
	Locale string `toml:"locale"`
}

// DatabaseConfig holds the pattern store settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// PatternConfig holds limits applied around parsing and generation
type PatternConfig struct {
	MaxPatternLength int      `toml:"max_pattern_length"`
	MaxDepth         int      `toml:"max_depth"`
	MaxOutputLength  int      `toml:"max_output_length"`
	CacheSize        int      `toml:"cache_size"`
	CacheTTL         Duration `toml:"cache_ttl"`
}

// HealthConfig holds the health endpoint settings
type HealthConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// Address returns host:port of the health endpoint
func (h HealthConfig) Address() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{Health: HealthConfig{Enabled: true}}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := &Config{Health: HealthConfig{Enabled: true}}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in sensitive fields
	cfg.expandEnvVars()

	return cfg, nil
}

// LoadFromEnv loads configuration from the REXBOT_CONFIG environment
// variable or the first existing default location
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		// Try default locations
		defaultPaths := []string{
			"./configs/config.toml",
			"./config.toml",
			filepath.Join(os.Getenv("HOME"), ".config/rexbot/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, fmt.Errorf("%w, set %s or create configs/config.toml", ErrNoConfigFile, EnvConfigPath)
	}

	return Load(path)
}

// ApplyEnvOverrides overwrites settings from REXBOT_* environment variables
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvAccessToken); v != "" {
		c.Bot.AccessToken = v
	}
	if v := os.Getenv(EnvBotID); v != "" {
		c.Bot.BotID = v
	}
	if v := os.Getenv(EnvBotUserID); v != "" {
		c.Bot.BotUserID = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv(EnvHealthPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Health.Port = port
		}
	}
}

// Validate checks the settings required to run the bot
func (c *Config) Validate() error {
	var errs []error
	if c.Bot.AccessToken == "" {
		errs = append(errs, fmt.Errorf("bot.access_token is required (or %s)", EnvAccessToken))
	}
	if c.Bot.BotID == "" {
		errs = append(errs, fmt.Errorf("bot.bot_id is required (or %s)", EnvBotID))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Pattern.MaxDepth < 0 || c.Pattern.MaxPatternLength < 0 || c.Pattern.MaxOutputLength < 0 {
		errs = append(errs, errors.New("pattern limits must not be negative"))
	}
	if c.Health.Enabled && (c.Health.Port <= 0 || c.Health.Port > 65535) {
		errs = append(errs, fmt.Errorf("health.port %d out of range", c.Health.Port))
	}
	return errors.Join(errs...)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "rexbot"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Bot
	if c.Bot.WSURL == "" {
		c.Bot.WSURL = "wss://q.trap.jp/api/v3/bots/ws"
	}
	if c.Bot.APIURL == "" {
		c.Bot.APIURL = "https://q.trap.jp/api/v3"
	}
	if c.Bot.ReconnectInterval.Duration == 0 {
		c.Bot.ReconnectInterval.Duration = time.Second
	}
	if c.Bot.MaxReconnectInterval.Duration == 0 {
		c.Bot.MaxReconnectInterval.Duration = time.Minute
	}
	if c.Bot.RequestTimeout.Duration == 0 {
		c.Bot.RequestTimeout.Duration = 10 * time.Second
	}
	if c.Bot.CommandPrefix == "" {
		c.Bot.CommandPrefix = "/"
	}
	if c.Bot.MaxReplyLength == 0 {
		c.Bot.MaxReplyLength = 10000
	}
	if c.Bot.Locale == "" {
		c.Bot.Locale = "ja"
	}

	// Database
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(c.General.DataDir, "rexbot.db")
	}

	// Pattern
	if c.Pattern.MaxPatternLength == 0 {
		c.Pattern.MaxPatternLength = 1000
	}
	if c.Pattern.MaxDepth == 0 {
		c.Pattern.MaxDepth = 32
	}
	if c.Pattern.MaxOutputLength == 0 {
		c.Pattern.MaxOutputLength = 10000
	}
	if c.Pattern.CacheSize == 0 {
		c.Pattern.CacheSize = 256
	}
	if c.Pattern.CacheTTL.Duration == 0 {
		c.Pattern.CacheTTL.Duration = 30 * time.Minute
	}

	// Health
	if c.Health.Host == "" {
		c.Health.Host = "127.0.0.1"
	}
	if c.Health.Port == 0 {
		c.Health.Port = 9180
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.Bot.AccessToken = os.ExpandEnv(c.Bot.AccessToken)
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Database.Path = os.ExpandEnv(c.Database.Path)
}
