package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "neurofade/internal/platform/errors"
)

const (
	SourceSimulated = "simulated"
	SourceDevice    = "device"

	PermissionPrompt = "prompt"
	PermissionGrant  = "grant"
	PermissionDeny   = "deny"
)

type Config struct {
	DataDir       string              `yaml:"-"`
	User          UserConfig          `yaml:"user"`
	Focus         FocusConfig         `yaml:"focus"`
	Signal        SignalConfig        `yaml:"signal"`
	Permissions   PermissionsConfig   `yaml:"permissions"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Store         StoreConfig         `yaml:"store"`
	Log           LogConfig           `yaml:"log"`
}

type UserConfig struct {
	Username string `yaml:"username"`
}

type FocusConfig struct {
	// DefaultDuration is both the preselected session length and the value
	// the countdown shows again after a session is stopped early.
	DefaultDuration   time.Duration `yaml:"default_duration"`
	CountdownInterval time.Duration `yaml:"countdown_interval"`
	RewardInterval    time.Duration `yaml:"reward_interval"`
}

type SignalConfig struct {
	Source       string        `yaml:"source"`
	Interval     time.Duration `yaml:"interval"`
	SensorPlugin string        `yaml:"sensor_plugin"`
}

type PermissionsConfig struct {
	Mode string `yaml:"mode"`
}

type NotificationsConfig struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// New returns the default configuration rooted at dataDir.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("%w: data dir is required", apperrors.ErrInvalidInput)
	}
	return Config{
		DataDir: dataDir,
		Focus: FocusConfig{
			DefaultDuration:   25 * time.Minute,
			CountdownInterval: time.Second,
			RewardInterval:    time.Minute,
		},
		Signal: SignalConfig{
			Source:   SourceSimulated,
			Interval: time.Second,
		},
		Permissions: PermissionsConfig{Mode: PermissionPrompt},
		Notifications: NotificationsConfig{
			Title: "Focus Session Complete",
			Body:  "Your focus session has ended. App restrictions have been removed.",
		},
		Store: StoreConfig{Path: filepath.Join(dataDir, "neurofade.db")},
		Log:   LogConfig{Level: "info"},
	}, nil
}

// Load overlays the YAML file at path on the defaults for dataDir. An empty
// path yields the defaults.
func Load(path, dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Focus.DefaultDuration < 0 {
		return fmt.Errorf("%w: focus.default_duration must not be negative", apperrors.ErrInvalidInput)
	}
	if c.Focus.CountdownInterval <= 0 || c.Focus.RewardInterval <= 0 {
		return fmt.Errorf("%w: focus intervals must be positive", apperrors.ErrInvalidInput)
	}
	if c.Signal.Interval <= 0 {
		return fmt.Errorf("%w: signal.interval must be positive", apperrors.ErrInvalidInput)
	}
	switch c.Signal.Source {
	case SourceSimulated:
	case SourceDevice:
		if strings.TrimSpace(c.Signal.SensorPlugin) == "" {
			return fmt.Errorf("%w: signal.sensor_plugin is required for device source", apperrors.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown signal source %q", apperrors.ErrInvalidInput, c.Signal.Source)
	}
	switch c.Permissions.Mode {
	case PermissionPrompt, PermissionGrant, PermissionDeny:
	default:
		return fmt.Errorf("%w: unknown permissions mode %q", apperrors.ErrInvalidInput, c.Permissions.Mode)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("%w: store.path is required", apperrors.ErrInvalidInput)
	}
	return nil
}
