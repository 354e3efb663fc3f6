package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/digits/internal/feed"
	"github.com/tinytelemetry/digits/internal/model"
)

const (
	defaultUpdateInterval = model.DefaultUpdateInterval
	defaultBounceInterval = model.DefaultBounceInterval
	defaultBindHost       = "127.0.0.1"
	defaultTCPPort        = 4100
	defaultAPIPort        = 3100
	defaultMuxBufferSize  = feed.DefaultMuxBuffer
	defaultTheme          = model.DefaultTheme
	defaultRedisAddr      = "127.0.0.1:6379"
	defaultRedisChannel   = feed.DefaultRedisChannel
)

// appConfig is internal runtime configuration.
type appConfig struct {
	UpdateInterval time.Duration `mapstructure:"update-interval"`
	BounceInterval time.Duration `mapstructure:"bounce-interval"`
	Host           string        `mapstructure:"host"`
	TCPEnabled     bool          `mapstructure:"tcp-enabled"`
	TCPPort        int           `mapstructure:"tcp-port"`
	TCPAddr        string        `mapstructure:"tcp-addr"`
	APIEnabled     bool          `mapstructure:"api-enabled"`
	APIPort        int           `mapstructure:"api-port"`
	APIAddr        string        `mapstructure:"api-addr"`
	MuxBufferSize  int           `mapstructure:"mux-buffer-size"`
	RedisEnabled   bool          `mapstructure:"redis-enabled"`
	RedisAddr      string        `mapstructure:"redis-addr"`
	RedisPassword  string        `mapstructure:"redis-password"`
	RedisDB        int           `mapstructure:"redis-db"`
	RedisChannel   string        `mapstructure:"redis-channel"`
	Theme          string        `mapstructure:"theme"`
	Headless       bool          `mapstructure:"headless"`
	ConfigDir      string        `mapstructure:"-"`
	ConfigPath     string        `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}
	configDir := filepath.Join(home, ".config", "digits")

	// DIGITS_* variables may also come from a .env file next to the config.
	// Variables already set in the environment win.
	envDir := configDir
	if configPath != "" {
		envDir = filepath.Dir(configPath)
	}
	if err := godotenv.Load(filepath.Join(envDir, ".env")); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("DIGITS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("update-interval", defaultUpdateInterval)
	v.SetDefault("bounce-interval", defaultBounceInterval)
	v.SetDefault("host", defaultBindHost)
	v.SetDefault("tcp-enabled", true)
	v.SetDefault("tcp-port", defaultTCPPort)
	v.SetDefault("tcp-addr", "")
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("api-addr", "")
	v.SetDefault("mux-buffer-size", defaultMuxBufferSize)
	v.SetDefault("redis-enabled", false)
	v.SetDefault("redis-addr", defaultRedisAddr)
	v.SetDefault("redis-password", "")
	v.SetDefault("redis-db", 0)
	v.SetDefault("redis-channel", defaultRedisChannel)
	v.SetDefault("theme", defaultTheme)
	v.SetDefault("headless", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(configDir, "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigDir = configDir
	if used := v.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			cfg.ConfigPath = used
			cfg.ConfigDir = filepath.Dir(used)
		}
	}

	if cfg.TCPPort <= 0 || cfg.TCPPort > 65535 {
		return cfg, fmt.Errorf("invalid tcp-port: %d", cfg.TCPPort)
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.UpdateInterval <= 0 {
		return cfg, fmt.Errorf("invalid update-interval: %s", cfg.UpdateInterval)
	}
	if cfg.BounceInterval <= 0 {
		return cfg, fmt.Errorf("invalid bounce-interval: %s", cfg.BounceInterval)
	}

	if cfg.Host == "" {
		cfg.Host = defaultBindHost
	}
	if cfg.TCPAddr == "" {
		cfg.TCPAddr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.TCPPort))
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
