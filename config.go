// FILE: lixenwraith/asynclog/config.go
package asynclog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lixenwraith/config"
	"github.com/mitchellh/mapstructure"

	"github.com/lixenwraith/asynclog/formatter"
	"github.com/lixenwraith/asynclog/sanitizer"
)

// configPrefix is the table holding sink settings in a config file
const configPrefix = "asynclog."

// Config holds all sink configuration values
type Config struct {
	// Destination
	Directory string `toml:"directory"`
	Prefix    string `toml:"prefix"` // File name prefix, "<prefix>.log"
	Level     int64  `toml:"level"`  // Process-wide threshold applied when the sink starts

	// Line layout (Go time layouts)
	DateFormat         string `toml:"date_format"`
	TimeFormat         string `toml:"time_format"`
	FileNameTimeFormat string `toml:"file_name_time_format"` // Used when time_based_names is set

	// Rotation
	RotateLogs       bool  `toml:"rotate_logs"`
	RotateSizeKB     int64 `toml:"rotate_size_kb"`     // Rotate once the file exceeds this many KB
	MaxRotateRetries int64 `toml:"max_rotate_retries"` // Attempts per threshold crossing
	MaxRotatedFiles  int64 `toml:"max_rotated_files"`  // Numbered files kept, "<prefix>.N.log"
	RotateOnStart    bool  `toml:"rotate_on_start"`    // Shift an existing file away instead of appending
	TimeBasedNames   bool  `toml:"time_based_names"`   // "<prefix><timestamp>" instead of renumbering

	// Session banner
	ProductName    string `toml:"product_name"`
	ProductVersion string `toml:"product_version"`

	// Background housekeeping
	PeriodicSyncMs     int64 `toml:"periodic_sync_ms"`     // fsync after this much idle time, 0 disables
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"` // Stats entry interval, 0 disables

	// Process integration
	CatchSignals           bool `toml:"catch_signals"`             // Route fatal OS signals through the sink
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Report file system faults
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Directory: "./logs",
	Prefix:    "app",
	Level:     LevelInfo,

	DateFormat:         formatter.DefaultDateFormat,
	TimeFormat:         formatter.DefaultTimeFormat,
	FileNameTimeFormat: "20060102-150405",

	RotateLogs:       true,
	RotateSizeKB:     defaultRotateSizeKB,
	MaxRotateRetries: defaultMaxRotateRetries,
	MaxRotatedFiles:  defaultMaxRotatedFiles,
	RotateOnStart:    false,
	TimeBasedNames:   false,

	PeriodicSyncMs:     1000,
	HeartbeatIntervalS: 0,

	CatchSignals:           true,
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads the [asynclog] table of a TOML file over the defaults
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct(configPrefix, *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	// A missing file leaves the defaults in place
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	values := make(map[string]any)
	for _, key := range configKeys() {
		if val, found := loader.Get(configPrefix + key); found {
			values[key] = val
		}
	}

	if err := decodeOverrides(cfg, values); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by toml name
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := decodeOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as the [asynclog] table of a TOML file
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("config cannot be nil")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmtErrorf("failed to create config directory '%s': %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmtErrorf("failed to create config file '%s': %w", path, err)
	}

	table := map[string]*Config{strings.TrimSuffix(configPrefix, "."): cfg}
	encErr := toml.NewEncoder(f).Encode(table)
	closeErr := f.Close()
	if encErr != nil {
		return fmtErrorf("failed to encode config: %w", encErr)
	}
	if closeErr != nil {
		return fmtErrorf("failed to close config file '%s': %w", path, closeErr)
	}
	return nil
}

// configKeys lists the toml names of every Config field
func configKeys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("toml"); tag != "" {
			keys = append(keys, tag)
		}
	}
	return keys
}

// decodeOverrides maps toml-named values onto cfg with weak typing.
// Level may be given by name.
func decodeOverrides(cfg *Config, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}

	normalized := make(map[string]any, len(values))
	for k, v := range values {
		normalized[k] = v
	}
	if s, ok := normalized["level"].(string); ok {
		lvl, err := Level(s)
		if err != nil {
			return err
		}
		normalized["level"] = lvl
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "toml",
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(normalized)
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty")
	}

	if !sanitizer.ValidPrefix(sanitizer.FixPrefix(c.Prefix)) {
		return fmt.Errorf("%w: '%s'", ErrInvalidPrefix, sanitizer.Display(c.Prefix))
	}

	if c.Level < LevelFatal || c.Level > LevelAll {
		return fmtErrorf("level must be between %d and %d: %d", LevelFatal, LevelAll, c.Level)
	}

	if strings.TrimSpace(c.DateFormat) == "" || strings.TrimSpace(c.TimeFormat) == "" {
		return fmtErrorf("date_format and time_format cannot be empty")
	}

	if c.TimeBasedNames && strings.TrimSpace(c.FileNameTimeFormat) == "" {
		return fmtErrorf("file_name_time_format cannot be empty when time_based_names is set")
	}

	if c.RotateSizeKB <= 0 {
		return fmtErrorf("rotate_size_kb must be positive: %d", c.RotateSizeKB)
	}

	if c.MaxRotateRetries < 0 {
		return fmtErrorf("max_rotate_retries cannot be negative: %d", c.MaxRotateRetries)
	}

	if c.MaxRotatedFiles < 1 {
		return fmtErrorf("max_rotated_files must be at least 1: %d", c.MaxRotatedFiles)
	}

	if c.PeriodicSyncMs < 0 || c.HeartbeatIntervalS < 0 {
		return fmtErrorf("interval settings cannot be negative")
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
