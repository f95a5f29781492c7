package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig mirrors Config with pointer fields so absent keys can be told
// apart from zero values while merging files.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Display    *string `yaml:"display"`
	XAuthority *string `yaml:"xauthority"`

	LogLevel  *string `yaml:"log_level"`
	LogFormat *string `yaml:"log_format"`
	LogFile   *string `yaml:"log_file"`

	BorderWidth        *int    `yaml:"border_width"`
	BorderColorFocused *string `yaml:"border_color_focused"`
	BorderColorNormal  *string `yaml:"border_color_normal"`

	Passthrough       *bool   `yaml:"passthrough"`
	FocusFollowsMouse *bool   `yaml:"focus_follows_mouse"`
	WarpPointer       *bool   `yaml:"warp_pointer"`
	FocusModifier     *string `yaml:"focus_modifier"`
	QuitKey           *string `yaml:"quit_key"`
	CloseKey          *string `yaml:"close_key"`

	AdoptExisting *bool `yaml:"adopt_existing"`
	IPC           *bool `yaml:"ipc"`
}

// merge overlays non-nil fields of overlay onto c.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	mergePtr(&out.Display, overlay.Display)
	mergePtr(&out.XAuthority, overlay.XAuthority)
	mergePtr(&out.LogLevel, overlay.LogLevel)
	mergePtr(&out.LogFormat, overlay.LogFormat)
	mergePtr(&out.LogFile, overlay.LogFile)
	mergePtr(&out.BorderWidth, overlay.BorderWidth)
	mergePtr(&out.BorderColorFocused, overlay.BorderColorFocused)
	mergePtr(&out.BorderColorNormal, overlay.BorderColorNormal)
	mergePtr(&out.Passthrough, overlay.Passthrough)
	mergePtr(&out.FocusFollowsMouse, overlay.FocusFollowsMouse)
	mergePtr(&out.WarpPointer, overlay.WarpPointer)
	mergePtr(&out.FocusModifier, overlay.FocusModifier)
	mergePtr(&out.QuitKey, overlay.QuitKey)
	mergePtr(&out.CloseKey, overlay.CloseKey)
	mergePtr(&out.AdoptExisting, overlay.AdoptExisting)
	mergePtr(&out.IPC, overlay.IPC)
	return out
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
