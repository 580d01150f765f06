package config

import (
	"strings"
	"testing"

	"github.com/arf/areacheck/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Service: domain.ServiceSettings{
			Endpoint:       domain.DefaultEndpoint,
			Method:         domain.MethodPost,
			TimeoutSeconds: 10,
		},
		Form: domain.FormSettings{
			XValues:  domain.DefaultXValues,
			RValues:  domain.DefaultRValues,
			YMin:     domain.DefaultYMin,
			YMax:     domain.DefaultYMax,
			DefaultR: domain.DefaultRadius,
		},
		Storage: domain.StorageSettings{
			Backend: domain.BackendFile,
			Path:    "/tmp/areacheck",
			Key:     domain.DefaultStorageKey,
		},
		Server: domain.ServerSettings{Listen: domain.DefaultListenAddr, MaxSessions: domain.DefaultMaxSessions},
		Graph:  domain.GraphSettings{Unit: domain.DefaultGraphUnit},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "get method", mutate: func(c *domain.Config) { c.Service.Method = "get" }},
		{name: "memory needs no path", mutate: func(c *domain.Config) {
			c.Storage.Backend = domain.BackendMemory
			c.Storage.Path = ""
		}},
		{name: "inverted y bounds", mutate: func(c *domain.Config) { c.Form.YMin, c.Form.YMax = 5, -3 }, wantErr: "y_min"},
		{name: "equal y bounds", mutate: func(c *domain.Config) { c.Form.YMin, c.Form.YMax = 1, 1 }, wantErr: "y_min"},
		{name: "empty x", mutate: func(c *domain.Config) { c.Form.XValues = nil }, wantErr: "x_values"},
		{name: "empty r", mutate: func(c *domain.Config) { c.Form.RValues = nil }, wantErr: "r_values"},
		{name: "negative r", mutate: func(c *domain.Config) { c.Form.RValues = []float64{-1, 2} }, wantErr: "positive"},
		{name: "default r missing", mutate: func(c *domain.Config) { c.Form.DefaultR = 4 }, wantErr: "default_r"},
		{name: "unknown backend", mutate: func(c *domain.Config) { c.Storage.Backend = "redis" }, wantErr: "storage.backend"},
		{name: "postgres without dsn", mutate: func(c *domain.Config) { c.Storage.Backend = domain.BackendPostgres }, wantErr: "dsn"},
		{name: "unknown method", mutate: func(c *domain.Config) { c.Service.Method = "PUT" }, wantErr: "service.method"},
		{name: "zero timeout", mutate: func(c *domain.Config) { c.Service.TimeoutSeconds = 0 }, wantErr: "timeout"},
		{name: "no endpoint", mutate: func(c *domain.Config) { c.Service.Endpoint = "" }, wantErr: "endpoint"},
		{name: "zero unit", mutate: func(c *domain.Config) { c.Graph.Unit = 0 }, wantErr: "graph.unit"},
		{name: "no key", mutate: func(c *domain.Config) { c.Storage.Key = "" }, wantErr: "storage.key"},
		{name: "zero max sessions", mutate: func(c *domain.Config) { c.Server.MaxSessions = 0 }, wantErr: "server.max_sessions"},
		{name: "backend not normalized", mutate: func(c *domain.Config) { c.Storage.Backend = "SQLite" }, wantErr: "storage.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
