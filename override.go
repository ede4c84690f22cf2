// FILE: lixenwraith/asynclog/override.go
package asynclog

import (
	"fmt"
	"strings"
)

// ApplyOverride returns a validated copy of cfg with "key=value" overrides applied.
// Keys are the toml names of Config fields; cfg itself is left untouched.
//
// Example:
//
//	cfg, err := asynclog.ApplyOverride(asynclog.DefaultConfig(),
//	    "directory=/var/log/app",
//	    "level=debug",
//	    "rotate_size_kb=4096",
//	)
func ApplyOverride(cfg *Config, overrides ...string) (*Config, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	next := cfg.Clone()

	var errs []error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := applyConfigField(next, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, combineConfigErrors(errs)
	}

	if err := next.validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("asynclog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "asynclog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single string override, converting to the field's type
func applyConfigField(cfg *Config, key, value string) error {
	known := false
	for _, k := range configKeys() {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	if err := decodeOverrides(cfg, map[string]any{key: value}); err != nil {
		return fmtErrorf("invalid value for %s '%s': %w", key, value, err)
	}
	return nil
}
