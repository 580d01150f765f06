package helpers

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arf/areacheck/internal/app"
	configapp "github.com/arf/areacheck/internal/application/config"
	"github.com/arf/areacheck/internal/domain"
	configinfra "github.com/arf/areacheck/internal/infrastructure/config"
)

// ConfigSections are the top-level keys of config.yaml.
var ConfigSections = []string{"config_format_version", "service", "form", "storage", "server", "graph"}

// RequireConfigLoader returns the container's file loader.
func RequireConfigLoader(container *app.Container) (*configinfra.FileLoader, error) {
	if container == nil || container.ConfigLoader == nil {
		return nil, errors.New("config loader unavailable")
	}
	return container.ConfigLoader, nil
}

// LookupConfigValue returns the value at a dotted key such as
// "service.timeout_seconds" or a whole section such as "form".
func LookupConfigValue(cfg domain.Config, key string) (interface{}, error) {
	fields, err := configFields(cfg)
	if err != nil {
		return nil, err
	}
	path, err := splitConfigKey(key)
	if err != nil {
		return nil, err
	}

	var node interface{} = fields
	for i, part := range path {
		section, ok := node.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s is not a section", strings.Join(path[:i], "."))
		}
		if node, ok = section[part]; !ok {
			return nil, unknownKey(path[:i+1], section)
		}
	}
	return node, nil
}

// UpdateConfigValue returns cfg with the leaf at key replaced by raw. raw is
// read as YAML, so "3", "[1, 2]" and "GET" all work. Sections and keys that
// config.yaml does not define are rejected, as are values of the wrong type.
func UpdateConfigValue(cfg domain.Config, key, raw string) (domain.Config, error) {
	fields, err := configFields(cfg)
	if err != nil {
		return domain.Config{}, err
	}
	path, err := splitConfigKey(key)
	if err != nil {
		return domain.Config{}, err
	}

	section := fields
	for i, part := range path[:len(path)-1] {
		child, ok := section[part]
		if !ok {
			return domain.Config{}, unknownKey(path[:i+1], section)
		}
		if section, ok = child.(map[string]interface{}); !ok {
			return domain.Config{}, fmt.Errorf("%s is not a section", strings.Join(path[:i+1], "."))
		}
	}
	leaf := path[len(path)-1]
	current, ok := section[leaf]
	if !ok {
		return domain.Config{}, unknownKey(path, section)
	}
	if _, isSection := current.(map[string]interface{}); isSection {
		return domain.Config{}, fmt.Errorf("%s is a section; set one of its keys", key)
	}
	section[leaf] = ParseConfigValue(raw)

	updated, err := decodeConfig(fields)
	if err != nil {
		return domain.Config{}, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return updated, nil
}

// ParseConfigValue reads a command-line value as YAML. Text that is not
// valid YAML is kept as a plain string.
func ParseConfigValue(raw string) interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(raw), &parsed); err != nil || parsed == nil {
		return raw
	}
	return parsed
}

// SaveConfig validates cfg, backs up the existing file and writes cfg in its place.
func SaveConfig(loader *configinfra.FileLoader, cfg domain.Config) error {
	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, err := os.Stat(loader.Path()); err == nil {
		if _, err := loader.Backup(); err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
	}
	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

func splitConfigKey(key string) ([]string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("config key must not be empty")
	}
	path := strings.Split(key, ".")
	for _, part := range path {
		if part == "" {
			return nil, fmt.Errorf("malformed config key %q", key)
		}
	}
	known := false
	for _, s := range ConfigSections {
		if path[0] == s {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("unknown config section %q (want one of %s)", path[0], strings.Join(ConfigSections, ", "))
	}
	return path, nil
}

func unknownKey(path []string, section map[string]interface{}) error {
	keys := make([]string, 0, len(section))
	for k := range section {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Errorf("unknown config key %s (known: %s)", strings.Join(path, "."), strings.Join(keys, ", "))
}

// configFields is cfg as the YAML field tree written to config.yaml.
func configFields(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var fields map[string]interface{}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to read config fields: %w", err)
	}
	return fields, nil
}

func decodeConfig(fields map[string]interface{}) (domain.Config, error) {
	raw, err := yaml.Marshal(fields)
	if err != nil {
		return domain.Config{}, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var cfg domain.Config
	if err := dec.Decode(&cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}
