package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFormat != nil {
		cfg.LogFormat = *raw.LogFormat
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	if raw.BorderWidth != nil {
		cfg.BorderWidth = *raw.BorderWidth
	}
	if raw.BorderColorFocused != nil {
		cfg.BorderColorFocused = *raw.BorderColorFocused
	}
	if raw.BorderColorNormal != nil {
		cfg.BorderColorNormal = *raw.BorderColorNormal
	}
	if raw.Passthrough != nil {
		cfg.Passthrough = *raw.Passthrough
	}
	if raw.FocusFollowsMouse != nil {
		cfg.FocusFollowsMouse = *raw.FocusFollowsMouse
	}
	if raw.WarpPointer != nil {
		cfg.WarpPointer = *raw.WarpPointer
	}
	if raw.FocusModifier != nil {
		cfg.FocusModifier = *raw.FocusModifier
	}
	if raw.QuitKey != nil {
		cfg.QuitKey = *raw.QuitKey
	}
	if raw.CloseKey != nil {
		cfg.CloseKey = *raw.CloseKey
	}
	if raw.AdoptExisting != nil {
		cfg.AdoptExisting = *raw.AdoptExisting
	}
	if raw.IPC != nil {
		cfg.IPC = *raw.IPC
	}

	return cfg
}
