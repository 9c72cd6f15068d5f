// Package config loads quicklinks settings from a YAML file and
// QUICKLINKS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	EnvPrefix = "QUICKLINKS"
)

var ErrInvalid = errors.New("invalid config")

var (
	backends = []string{BackendJSON, BackendSQLite, BackendMemory}
	themes   = []string{"classic", "neon", "mono"}
)

type Config struct {
	DataDir      string        `mapstructure:"data_dir"`
	Backend      string        `mapstructure:"backend"`
	MaxFileBytes int64         `mapstructure:"max_file_bytes"`
	Theme        string        `mapstructure:"theme"`
	LogLevel     string        `mapstructure:"log_level"`
	Watch        bool          `mapstructure:"watch"`
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// File is the config file that was read, empty when none was.
	File string `mapstructure:"-"`
}

// fileConfig is the on-disk shape. Durations are written as strings.
type fileConfig struct {
	DataDir      string `yaml:"data_dir"`
	Backend      string `yaml:"backend"`
	MaxFileBytes int64  `yaml:"max_file_bytes"`
	Theme        string `yaml:"theme"`
	LogLevel     string `yaml:"log_level"`
	Watch        bool   `yaml:"watch"`
	PollInterval string `yaml:"poll_interval"`
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}

// DefaultPath is $XDG_CONFIG_HOME/quicklinks/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(home(), ".config")
	}
	return filepath.Join(dir, "quicklinks", "config.yaml")
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		dir = filepath.Join(home(), ".local", "share")
	}
	return filepath.Join(dir, "quicklinks")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("backend", BackendJSON)
	v.SetDefault("max_file_bytes", int64(10<<20))
	v.SetDefault("theme", "classic")
	v.SetDefault("log_level", "warn")
	v.SetDefault("watch", true)
	v.SetDefault("poll_interval", time.Second)
}

// Default returns the built-in settings, ignoring files and environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads path, or DefaultPath when path is empty. A missing default
// file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	used := ""
	if _, err := os.Stat(path); err == nil || explicit {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		used = path
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.File = used
	c.DataDir = expandHome(c.DataDir)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func expandHome(p string) string {
	if p == "~" {
		return home()
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		return filepath.Join(home(), rest)
	}
	return p
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" && c.Backend != BackendMemory {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalid)
	}
	if !oneOf(c.Backend, backends) {
		return fmt.Errorf("%w: backend %q (expected %s)", ErrInvalid, c.Backend, strings.Join(backends, "|"))
	}
	if !oneOf(c.Theme, themes) {
		return fmt.Errorf("%w: theme %q (expected %s)", ErrInvalid, c.Theme, strings.Join(themes, "|"))
	}
	if c.MaxFileBytes < 0 {
		return fmt.Errorf("%w: max_file_bytes must be >= 0", ErrInvalid)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be > 0", ErrInvalid)
	}
	return nil
}

// YAML renders c in the config file format.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(fileConfig{
		DataDir:      c.DataDir,
		Backend:      c.Backend,
		MaxFileBytes: c.MaxFileBytes,
		Theme:        c.Theme,
		LogLevel:     c.LogLevel,
		Watch:        c.Watch,
		PollInterval: c.PollInterval.String(),
	})
}

// WriteFile writes c to path unless a file already exists there and
// force is false.
func WriteFile(path string, c Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, os.ErrExist)
		}
	}
	b, err := c.YAML()
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
