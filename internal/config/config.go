package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/repofetch"
	configFile = "config.yml"

	// DefaultRepodataFn is the conventional index document filename.
	DefaultRepodataFn = "repodata.json"
)

// Config is the persistent tool configuration loaded from
// ~/.config/repofetch/config.yml.
type Config struct {
	// Channels fetched when none are given on the command line.
	Channels []string `yaml:"channels,omitempty"`
	// Subdirs are the platform subdirectories fetched per channel.
	Subdirs []string `yaml:"subdirs,omitempty"`

	RepodataFn string `yaml:"repodata_fn"`
	CacheDir   string `yaml:"cache_dir"`

	SSLVerify bool   `yaml:"ssl_verify"`
	CABundle  string `yaml:"ca_bundle,omitempty"`
	Proxy     string `yaml:"proxy,omitempty"`

	ConnectTimeoutSecs float64 `yaml:"connect_timeout_secs"`
	ReadTimeoutSecs    float64 `yaml:"read_timeout_secs"`

	// AllowNonChannelURLs downgrades a missing index on the noarch subdir
	// from a hard failure to "channel is empty for this platform".
	AllowNonChannelURLs bool `yaml:"allow_non_channel_urls"`

	ChannelAlias string `yaml:"channel_alias"`
	DefaultHost  string `yaml:"default_host"`
}

func Default() *Config {
	return &Config{
		RepodataFn:          DefaultRepodataFn,
		CacheDir:            "~/.cache/repofetch",
		SSLVerify:           true,
		ConnectTimeoutSecs:  9.15,
		ReadTimeoutSecs:     60,
		AllowNonChannelURLs: false,
		ChannelAlias:        "https://conda.anaconda.org",
		DefaultHost:         "repo.anaconda.com",
	}
}

func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

func Load() (*Config, error) {
	fullConfigDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(fullConfigDir, configFile)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no configuration found. Please run 'repofetch init' first")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	cfg.CacheDir, err = expandHome(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache dir: %w", err)
	}
	if cfg.RepodataFn == "" {
		cfg.RepodataFn = DefaultRepodataFn
	}
	return cfg, nil
}

func (c *Config) Save() error {
	fullConfigDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(fullConfigDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(fullConfigDir, configFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ConnectTimeout returns the connect timeout as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSecs * float64(time.Second))
}

// ReadTimeout returns the read timeout as a duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSecs * float64(time.Second))
}

func expandHome(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
