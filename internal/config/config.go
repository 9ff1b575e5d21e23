// Package config loads engine options from files and option maps, overlaying them on
// the defaults so partial documents only change what they name.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file (YAML or JSON) onto domain.DefaultConfig().
// A missing file yields the defaults.
func Load(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Unmarshal(data, filepath.Ext(path), &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Unmarshal decodes data onto cfg, keeping the fields the document does not set.
// ext selects the format; anything but ".json" is parsed as YAML.
func Unmarshal(data []byte, ext string, cfg *domain.Config) error {
	if strings.ToLower(ext) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config json: %w", err)
		}
		return nil
	}
	// Default to YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config yaml: %w", err)
	}
	return nil
}

// Decode overlays an option map (as sent by a client) onto the defaults.
// Nested option groups may be given partially; numbers given as strings are accepted.
func Decode(options map[string]any) (domain.Config, error) {
	return Overlay(domain.DefaultConfig(), options)
}

// Overlay decodes an option map onto base.
func Overlay(base domain.Config, options map[string]any) (domain.Config, error) {
	cfg := base
	if len(options) == 0 {
		return cfg, nil
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		Metadata:         &md,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return cfg, fmt.Errorf("failed to build options decoder: %w", err)
	}
	if err := decoder.Decode(options); err != nil {
		return cfg, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if len(md.Unused) > 0 {
		return cfg, fmt.Errorf("%w: unknown options %s", domain.ErrInvalidConfig, strings.Join(md.Unused, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg domain.Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return out, nil
}
