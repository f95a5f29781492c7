package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the effective window manager configuration.
type Config struct {
	// Display is the X display to manage. Empty uses $DISPLAY.
	Display string `yaml:"display"`
	// XAuthority overrides $XAUTHORITY for the connection.
	XAuthority string `yaml:"xauthority"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	// LogFile receives log output instead of stderr when set.
	LogFile string `yaml:"log_file"`

	BorderWidth        int    `yaml:"border_width"`
	BorderColorFocused string `yaml:"border_color_focused"`
	BorderColorNormal  string `yaml:"border_color_normal"`

	// Passthrough enables the built-in handler that maps managed windows
	// where they ask to be.
	Passthrough       bool   `yaml:"passthrough"`
	FocusFollowsMouse bool   `yaml:"focus_follows_mouse"`
	FocusModifier     string `yaml:"focus_modifier"`
	QuitKey           string `yaml:"quit_key"`
	// CloseKey closes the focused window.
	CloseKey string `yaml:"close_key"`
	// WarpPointer centers the pointer on windows focused without the mouse.
	WarpPointer bool `yaml:"warp_pointer"`

	// AdoptExisting manages windows that were open before startup.
	AdoptExisting bool `yaml:"adopt_existing"`
	IPC           bool `yaml:"ipc"`
}

var (
	logLevels     = []string{"debug", "info", "warning", "error"}
	logFormats    = []string{"text", "json"}
	modifierNames = []string{"Shift", "Lock", "Control", "Mod1", "Mod2", "Mod3", "Mod4", "Mod5"}
)

const maxBorderWidth = 64

func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		BorderWidth:        1,
		BorderColorFocused: "#5e81ac",
		BorderColorNormal:  "#3b4252",
		Passthrough:        true,
		FocusFollowsMouse:  true,
		FocusModifier:      "Mod1",
		QuitKey:            "Mod4-Shift-q",
		CloseKey:           "Mod4-Shift-c",
		AdoptExisting:      true,
		IPC:                true,
	}
}

func (c *Config) Validate() error {
	if !contains(logLevels, c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: %s", strings.Join(logLevels, ", "))}
	}
	if !contains(logFormats, c.LogFormat) {
		return &ValidationError{Path: "log_format", Err: fmt.Errorf("log_format must be one of: %s", strings.Join(logFormats, ", "))}
	}
	if c.BorderWidth < 0 || c.BorderWidth > maxBorderWidth {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be between 0 and %d", maxBorderWidth)}
	}
	if _, err := ParseColor(c.BorderColorFocused); err != nil {
		return &ValidationError{Path: "border_color_focused", Err: err}
	}
	if _, err := ParseColor(c.BorderColorNormal); err != nil {
		return &ValidationError{Path: "border_color_normal", Err: err}
	}
	if c.FocusModifier != "" && !contains(modifierNames, c.FocusModifier) {
		return &ValidationError{Path: "focus_modifier", Err: fmt.Errorf("focus_modifier must be empty or one of: %s", strings.Join(modifierNames, ", "))}
	}
	if c.QuitKey != strings.TrimSpace(c.QuitKey) {
		return &ValidationError{Path: "quit_key", Err: fmt.Errorf("quit_key must not have surrounding whitespace")}
	}
	if c.CloseKey != strings.TrimSpace(c.CloseKey) {
		return &ValidationError{Path: "close_key", Err: fmt.Errorf("close_key must not have surrounding whitespace")}
	}
	if c.QuitKey != "" && c.QuitKey == c.CloseKey {
		return &ValidationError{Path: "close_key", Err: fmt.Errorf("close_key must differ from quit_key")}
	}
	return nil
}

// Save validates c and writes it to path, or to DefaultConfigPath when path
// is empty.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// FocusedPixel returns the focused border color as an X pixel value.
func (c *Config) FocusedPixel() uint32 {
	px, _ := ParseColor(c.BorderColorFocused)
	return px
}

// NormalPixel returns the unfocused border color as an X pixel value.
func (c *Config) NormalPixel() uint32 {
	px, _ := ParseColor(c.BorderColorNormal)
	return px
}

// ParseColor parses "#rrggbb" into a 24-bit TrueColor pixel.
func ParseColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return 0, fmt.Errorf("color %q must have the form #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
