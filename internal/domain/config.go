package domain

import "time"

// Config mirrors ~/.areacheck/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Service             ServiceSettings `yaml:"service"`
	Form                FormSettings    `yaml:"form"`
	Storage             StorageSettings `yaml:"storage"`
	Server              ServerSettings  `yaml:"server"`
	Graph               GraphSettings   `yaml:"graph"`
}

// ServiceSettings describes the external calculation service.
type ServiceSettings struct {
	Endpoint       string `yaml:"endpoint"`
	Method         string `yaml:"method"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (s ServiceSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// FormSettings defines the permitted form values.
type FormSettings struct {
	XValues  []float64 `yaml:"x_values"`
	RValues  []float64 `yaml:"r_values"`
	YMin     float64   `yaml:"y_min"`
	YMax     float64   `yaml:"y_max"`
	DefaultR float64   `yaml:"default_r"`
}

// StorageSettings selects the durable storage backend for history.
type StorageSettings struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	DSN     string `yaml:"dsn"`
	Key     string `yaml:"key"`
	Strict  bool   `yaml:"strict"`
}

// ServerSettings configures the web front end.
type ServerSettings struct {
	Listen      string `yaml:"listen"`
	MaxSessions int    `yaml:"max_sessions"`
}

// GraphSettings configures the SVG diagram.
type GraphSettings struct {
	Unit float64 `yaml:"unit"`
}
