package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Fixture   FixtureConfig   `mapstructure:"fixture"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DashboardConfig holds the tile selection and layout
type DashboardConfig struct {
	Tiles           []string `mapstructure:"tiles" validate:"dive,datasource"` // Data source names, account is implied
	Order           []string `mapstructure:"order" validate:"dive,tiletype"`   // Tile type names, missing types follow
	GradeColorTheme string   `mapstructure:"grade_color_theme" validate:"required"`
}

// CacheConfig holds the local cache location
type CacheConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=bolt sqlite memory"`
	Dir    string `mapstructure:"dir"`
}

// FixtureConfig describes the demo register backend
type FixtureConfig struct {
	File    string        `mapstructure:"file"` // Empty uses the embedded demo data
	Latency time.Duration `mapstructure:"latency" validate:"gte=0"`
	Fail    []string      `mapstructure:"fail" validate:"dive,endpoint"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"oneof=DEBUG INFO WARN WARNING ERROR"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Dashboard: DashboardConfig{
			GradeColorTheme: "vulcan",
		},
		Cache: CacheConfig{
			Driver: "bolt",
			Dir:    DefaultCachePath(),
		},
		Fixture: FixtureConfig{
			Latency: 400 * time.Millisecond,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

func dataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "classboard")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "classboard")
	}
}

func defaultLogPath() string {
	return filepath.Join(dataDir(), "classboard.log")
}

// DefaultCachePath returns the default cache directory for the current OS
func DefaultCachePath() string {
	return filepath.Join(dataDir(), "cache")
}

// defaultConfigDir returns the default config directory for the current OS
func defaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "classboard")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "classboard")
	}
}

// DefaultConfigPath returns the file written when no --config is given
func DefaultConfigPath() string {
	return filepath.Join(defaultConfigDir(), "config.yaml")
}

// newViper prepares a viper instance for path. An empty path searches the
// default config directory and the working directory.
func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(defaultConfigDir())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. CLASSBOARD_CACHE_DRIVER
	v.SetEnvPrefix("CLASSBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults must be registered for AutomaticEnv to reach nested keys
	def := DefaultConfig()
	v.SetDefault("dashboard.tiles", def.Dashboard.Tiles)
	v.SetDefault("dashboard.order", def.Dashboard.Order)
	v.SetDefault("dashboard.grade_color_theme", def.Dashboard.GradeColorTheme)
	v.SetDefault("cache.driver", def.Cache.Driver)
	v.SetDefault("cache.dir", def.Cache.Dir)
	v.SetDefault("fixture.file", def.Fixture.File)
	v.SetDefault("fixture.latency", def.Fixture.Latency)
	v.SetDefault("fixture.fail", def.Fixture.Fail)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.level", def.Logging.Level)
	return v
}

func read(path string) (*viper.Viper, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}
	return v, nil
}

// Load reads configuration from file and environment and validates it
func Load(path string) (*Config, error) {
	v, err := read(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTiles updates just the tile selection in the configuration file
func SaveTiles(path string, tiles []string) error {
	v, err := read(path)
	if err != nil {
		return err
	}
	v.Set("dashboard.tiles", tiles)

	target := v.ConfigFileUsed()
	if target == "" {
		target = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(target); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
