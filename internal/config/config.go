// Package config loads and persists the user settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/sandeepkv93/tasklog/internal/storage"
	"github.com/sandeepkv93/tasklog/internal/summary"
)

const (
	AppName   = "tasklog"
	FileName  = "config.json"
	EnvPrefix = "TASKLOG"
)

const (
	LayoutHorizontal = "horizontal"
	LayoutVertical   = "vertical"
)

var ErrInvalidSettings = errors.New("config: invalid settings")

type Settings struct {
	RootPath                string  `mapstructure:"root_path" json:"root_path"`
	ClientbasePath          string  `mapstructure:"clientbase_path" json:"clientbase_path"`
	WorkShiftStart          string  `mapstructure:"work_shift_start" json:"work_shift_start"`
	WorkShiftEnd            string  `mapstructure:"work_shift_end" json:"work_shift_end"`
	ProductivityTargetHours float64 `mapstructure:"productivity_target_hours" json:"productivity_target_hours"`
	TrackWindows            bool    `mapstructure:"track_windows" json:"track_windows"`
	WindowTrackingInterval  int     `mapstructure:"window_tracking_interval" json:"window_tracking_interval"`
	Layout                  string  `mapstructure:"layout" json:"layout"`
	StorageBackend          string  `mapstructure:"storage_backend" json:"storage_backend"`
}

func Default() Settings {
	return Settings{
		RootPath:                defaultRootPath(),
		WorkShiftStart:          "06:00",
		WorkShiftEnd:            "15:00",
		ProductivityTargetHours: 7.5,
		TrackWindows:            true,
		WindowTrackingInterval:  2,
		Layout:                  LayoutHorizontal,
		StorageBackend:          string(storage.BackendJSON),
	}
}

func defaultRootPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, "Documents")
}

// DefaultPath is $XDG_CONFIG_HOME/tasklog/config.json or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve config dir: %w", err)
	}
	return filepath.Join(dir, AppName, FileName), nil
}

func (s Settings) Shift() (summary.Shift, error) {
	return summary.ParseShift(s.WorkShiftStart, s.WorkShiftEnd)
}

func (s Settings) TargetSeconds() int64 {
	return int64(s.ProductivityTargetHours * 3600)
}

func (s Settings) Backend() storage.Backend {
	return storage.Backend(s.StorageBackend)
}

func (s Settings) Validate() error {
	var problems []string
	if strings.TrimSpace(s.RootPath) == "" {
		problems = append(problems, "root_path is required")
	}
	if _, err := s.Shift(); err != nil {
		problems = append(problems, err.Error())
	}
	if s.ProductivityTargetHours < 0 || s.ProductivityTargetHours > 24 {
		problems = append(problems, "productivity_target_hours must be between 0 and 24")
	}
	if s.WindowTrackingInterval < 1 {
		problems = append(problems, "window_tracking_interval must be at least 1 second")
	}
	if s.Layout != LayoutHorizontal && s.Layout != LayoutVertical {
		problems = append(problems, fmt.Sprintf("layout %q is not horizontal or vertical", s.Layout))
	}
	if !s.Backend().IsValid() {
		problems = append(problems, fmt.Sprintf("storage_backend %q is not json or sqlite", s.StorageBackend))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

// Store owns one settings file. Reads apply defaults for missing keys and
// TASKLOG_* environment overrides.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Dir() string {
	return filepath.Dir(s.path)
}

func (s *Store) newViper(withEnv bool) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.AutomaticEnv()
	}
	applyDefaults(v, Default())
	return v
}

func applyDefaults(v *viper.Viper, d Settings) {
	v.SetDefault("root_path", d.RootPath)
	v.SetDefault("clientbase_path", d.ClientbasePath)
	v.SetDefault("work_shift_start", d.WorkShiftStart)
	v.SetDefault("work_shift_end", d.WorkShiftEnd)
	v.SetDefault("productivity_target_hours", d.ProductivityTargetHours)
	v.SetDefault("track_windows", d.TrackWindows)
	v.SetDefault("window_tracking_interval", d.WindowTrackingInterval)
	v.SetDefault("layout", d.Layout)
	v.SetDefault("storage_backend", d.StorageBackend)
}

// Load reads the settings file, creating it with defaults when missing.
// When stored values fail validation the error wraps ErrInvalidSettings and
// the returned settings have only the offending fields reset to defaults.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.read(true)
	if err != nil {
		return Settings{}, err
	}
	cfg, err := decode(v)
	if err != nil {
		return Settings{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Repair(cfg), err
	}
	return cfg, nil
}

func (s *Store) read(withEnv bool) (*viper.Viper, error) {
	v := s.newViper(withEnv)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", s.path, err)
		}
		fresh := viper.New()
		set(fresh, Default())
		if err := s.write(fresh); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func decode(v *viper.Viper) (Settings, error) {
	var out Settings
	if err := v.Unmarshal(&out); err != nil {
		return Settings{}, fmt.Errorf("config: decode: %w", err)
	}
	out.Layout = strings.ToLower(strings.TrimSpace(out.Layout))
	out.StorageBackend = strings.ToLower(strings.TrimSpace(out.StorageBackend))
	return out, nil
}

// Repair resets each field that fails validation to its default and keeps
// the rest. A shift whose bounds parse but are out of order is reset as a
// pair.
func Repair(cfg Settings) Settings {
	d := Default()
	if strings.TrimSpace(cfg.RootPath) == "" {
		cfg.RootPath = d.RootPath
	}
	if _, err := summary.ParseClock(cfg.WorkShiftStart); err != nil {
		cfg.WorkShiftStart = d.WorkShiftStart
	}
	if _, err := summary.ParseClock(cfg.WorkShiftEnd); err != nil {
		cfg.WorkShiftEnd = d.WorkShiftEnd
	}
	if _, err := cfg.Shift(); err != nil {
		cfg.WorkShiftStart, cfg.WorkShiftEnd = d.WorkShiftStart, d.WorkShiftEnd
	}
	if cfg.ProductivityTargetHours < 0 || cfg.ProductivityTargetHours > 24 {
		cfg.ProductivityTargetHours = d.ProductivityTargetHours
	}
	if cfg.WindowTrackingInterval < 1 {
		cfg.WindowTrackingInterval = d.WindowTrackingInterval
	}
	if cfg.Layout != LayoutHorizontal && cfg.Layout != LayoutVertical {
		cfg.Layout = d.Layout
	}
	if !cfg.Backend().IsValid() {
		cfg.StorageBackend = d.StorageBackend
	}
	return cfg
}

// Update applies mutate to the stored settings and writes the merged result.
// Environment overrides are not persisted. Stored fields that fail
// validation are repaired before mutate runs. Nothing is written when the
// mutated settings are invalid.
func (s *Store) Update(mutate func(*Settings)) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.read(false)
	if err != nil {
		return Settings{}, err
	}
	current, err := decode(v)
	if err != nil {
		return Settings{}, err
	}
	current = Repair(current)
	mutate(&current)
	if err := current.Validate(); err != nil {
		return Settings{}, err
	}
	out := viper.New()
	out.SetConfigType("json")
	set(out, current)
	if err := s.write(out); err != nil {
		return Settings{}, err
	}
	return current, nil
}

// Set assigns one key from its string form, as typed on the command line.
func (s *Store) Set(key, value string) (Settings, error) {
	if !IsKey(key) {
		return Settings{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSettings, key)
	}
	var (
		hours    float64
		track    bool
		interval int
		err      error
	)
	switch key {
	case "productivity_target_hours":
		hours, err = strconv.ParseFloat(value, 64)
	case "track_windows":
		track, err = strconv.ParseBool(value)
	case "window_tracking_interval":
		interval, err = strconv.Atoi(value)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, key, err)
	}
	return s.Update(func(cfg *Settings) {
		switch key {
		case "root_path":
			cfg.RootPath = value
		case "clientbase_path":
			cfg.ClientbasePath = value
		case "work_shift_start":
			cfg.WorkShiftStart = value
		case "work_shift_end":
			cfg.WorkShiftEnd = value
		case "productivity_target_hours":
			cfg.ProductivityTargetHours = hours
		case "track_windows":
			cfg.TrackWindows = track
		case "window_tracking_interval":
			cfg.WindowTrackingInterval = interval
		case "layout":
			cfg.Layout = strings.ToLower(value)
		case "storage_backend":
			cfg.StorageBackend = strings.ToLower(value)
		}
	})
}

func Keys() []string {
	return []string{
		"root_path",
		"clientbase_path",
		"work_shift_start",
		"work_shift_end",
		"productivity_target_hours",
		"track_windows",
		"window_tracking_interval",
		"layout",
		"storage_backend",
	}
}

func IsKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func set(v *viper.Viper, cfg Settings) {
	v.Set("root_path", cfg.RootPath)
	v.Set("clientbase_path", cfg.ClientbasePath)
	v.Set("work_shift_start", cfg.WorkShiftStart)
	v.Set("work_shift_end", cfg.WorkShiftEnd)
	v.Set("productivity_target_hours", cfg.ProductivityTargetHours)
	v.Set("track_windows", cfg.TrackWindows)
	v.Set("window_tracking_interval", cfg.WindowTrackingInterval)
	v.Set("layout", cfg.Layout)
	v.Set("storage_backend", cfg.StorageBackend)
}

func (s *Store) write(v *viper.Viper) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("config: write %s: %w", s.path, err)
	}
	return nil
}
