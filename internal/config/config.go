// Package config loads the TOML configuration file, filling defaults
// for anything the file omits and warning about keys it does not know.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Timer   TimerConfig   `toml:"timer"`
	Storage StorageConfig `toml:"storage"`
	Display DisplayConfig `toml:"display"`
}

type TimerConfig struct {
	DefaultMinutes    int      `toml:"default_minutes"`
	MinMinutes        int      `toml:"min_minutes"`
	AdjustStepMinutes int      `toml:"adjust_step_minutes"`
	Categories        []string `toml:"categories"`
}

type StorageConfig struct {
	DataPath string `toml:"data_path"`
}

type DisplayConfig struct {
	SeriesDays int `toml:"series_days"`
}

type LoadResult struct {
	Config   Config
	Warnings []string
}

func DefaultConfig() Config {
	return Config{
		Timer: TimerConfig{
			DefaultMinutes:    25,
			MinMinutes:        1,
			AdjustStepMinutes: 5,
			Categories:        []string{"Study", "Coding", "Project", "Reading"},
		},
		Storage: StorageConfig{
			DataPath: "~/.local/share/focustrack/sessions.json",
		},
		Display: DisplayConfig{
			SeriesDays: 7,
		},
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "focustrack", "config.toml")
}

func Load() (*LoadResult, error) {
	return LoadFrom(defaultConfigPath())
}

// LoadFrom reads path on top of the defaults. A missing file is not an
// error; a file that fails to parse or validate is.
func LoadFrom(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &LoadResult{Config: DefaultConfig()}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromString(string(data))
}

// LoadFromString parses TOML config text on top of the defaults.
func LoadFromString(data string) (*LoadResult, error) {
	result := &LoadResult{Config: DefaultConfig()}

	md, err := toml.Decode(data, &result.Config)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	for _, key := range md.Undecoded() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", key.String()))
	}

	if err := validate(&result.Config); err != nil {
		return nil, err
	}

	return result, nil
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Timer.DefaultMinutes < 1 {
		errs = append(errs, fmt.Sprintf("timer default_minutes must be positive, got %d", cfg.Timer.DefaultMinutes))
	}
	if cfg.Timer.MinMinutes < 1 {
		errs = append(errs, fmt.Sprintf("timer min_minutes must be positive, got %d", cfg.Timer.MinMinutes))
	}
	if cfg.Timer.MinMinutes > cfg.Timer.DefaultMinutes {
		errs = append(errs, fmt.Sprintf("timer min_minutes (%d) must not exceed default_minutes (%d)", cfg.Timer.MinMinutes, cfg.Timer.DefaultMinutes))
	}
	if cfg.Timer.AdjustStepMinutes < 1 {
		errs = append(errs, fmt.Sprintf("timer adjust_step_minutes must be positive, got %d", cfg.Timer.AdjustStepMinutes))
	}
	if len(cfg.Timer.Categories) == 0 {
		errs = append(errs, "timer categories must not be empty")
	}
	for _, cat := range cfg.Timer.Categories {
		if strings.TrimSpace(cat) == "" {
			errs = append(errs, "timer categories must not contain blank entries")
			break
		}
	}
	if cfg.Display.SeriesDays < 1 {
		errs = append(errs, fmt.Sprintf("display series_days must be positive, got %d", cfg.Display.SeriesDays))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation error: %s", strings.Join(errs, "; "))
	}
	return nil
}
