package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given top-level key and the
// source that set it.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// Keys lists every config key in file order.
func Keys() []string {
	var node yaml.Node
	if err := node.Encode(DefaultConfig()); err != nil {
		return nil
	}
	var keys []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}

// lookupValue resolves a key through the yaml tags of Config so the two
// never disagree.
func lookupValue(cfg *Config, path string) (any, error) {
	if strings.Contains(path, ".") {
		return nil, fmt.Errorf("unknown config path %q: keys are not nested", path)
	}
	var node yaml.Node
	if err := node.Encode(cfg); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != path {
			continue
		}
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return nil, err
		}
		return value, nil
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}
