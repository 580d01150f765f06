package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arf/areacheck/assets"
	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/pkg/filesystem"
	"github.com/arf/areacheck/internal/ports"
)

// EnvConfigPath overrides the config location.
const EnvConfigPath = "AREACHECK_CONFIG"

// FileLoader loads YAML configuration from ~/.areacheck/config.yaml (overridable via AREACHECK_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := writeDefault(path); err != nil {
				return domain.Config{}, err
			}
			return DefaultConfig()
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return hydrateDefaults(cfg), nil
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".areacheck", "config.yaml")
}

// Init writes the default configuration. An existing file is only replaced
// when force is set.
func (l *FileLoader) Init(force bool) (string, error) {
	path := l.Path()
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%s already exists", path)
	}
	if err := ensureConfigDir(path); err != nil {
		return path, err
	}
	return path, writeDefault(path)
}

// Save writes cfg to the resolved path.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Backup copies the current config file next to itself with a timestamp suffix.
func (l *FileLoader) Backup() (string, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	dest := fmt.Sprintf("%s.bak.%s", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(dest, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return dest, nil
}

// DefaultConfig returns the embedded defaults with paths expanded.
func DefaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return hydrateDefaults(cfg), nil
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

func writeDefault(path string) error {
	return os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Service.Endpoint == "" {
		cfg.Service.Endpoint = domain.DefaultEndpoint
	}
	cfg.Service.Method = strings.ToUpper(strings.TrimSpace(cfg.Service.Method))
	if cfg.Service.Method == "" {
		cfg.Service.Method = domain.MethodPost
	}
	if cfg.Service.TimeoutSeconds == 0 {
		cfg.Service.TimeoutSeconds = domain.DefaultTimeoutSeconds
	}
	if len(cfg.Form.XValues) == 0 {
		cfg.Form.XValues = append([]float64(nil), domain.DefaultXValues...)
	}
	if len(cfg.Form.RValues) == 0 {
		cfg.Form.RValues = append([]float64(nil), domain.DefaultRValues...)
	}
	if cfg.Form.YMin == 0 && cfg.Form.YMax == 0 {
		cfg.Form.YMin = domain.DefaultYMin
		cfg.Form.YMax = domain.DefaultYMax
	}
	if cfg.Form.DefaultR == 0 {
		cfg.Form.DefaultR = domain.DefaultRadius
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = domain.BackendFile
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(filesystem.UserHomeDir(), ".areacheck", "storage")
	}
	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = domain.DefaultStorageKey
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = domain.DefaultListenAddr
	}
	if cfg.Server.MaxSessions == 0 {
		cfg.Server.MaxSessions = domain.DefaultMaxSessions
	}
	if cfg.Graph.Unit == 0 {
		cfg.Graph.Unit = domain.DefaultGraphUnit
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if path == "~" {
		return filesystem.UserHomeDir()
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
