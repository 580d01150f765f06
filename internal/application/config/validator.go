package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/arf/areacheck/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateService(cfg.Service); err != nil {
		return err
	}
	if err := validateForm(cfg.Form); err != nil {
		return err
	}
	if err := validateStorage(cfg.Storage); err != nil {
		return err
	}
	if cfg.Server.Listen == "" {
		return errors.New("server.listen must be set")
	}
	if cfg.Server.MaxSessions <= 0 {
		return fmt.Errorf("server.max_sessions must be > 0, got %d", cfg.Server.MaxSessions)
	}
	if !(cfg.Graph.Unit > 0) || math.IsInf(cfg.Graph.Unit, 0) {
		return fmt.Errorf("graph.unit must be > 0, got %v", cfg.Graph.Unit)
	}
	return nil
}

func validateService(svc domain.ServiceSettings) error {
	if svc.Endpoint == "" {
		return errors.New("service.endpoint must be set")
	}
	switch strings.ToUpper(svc.Method) {
	case domain.MethodPost, domain.MethodGet:
	default:
		return fmt.Errorf("service.method must be POST|GET, got %s", svc.Method)
	}
	if svc.TimeoutSeconds <= 0 {
		return fmt.Errorf("service.timeout_seconds must be > 0")
	}
	return nil
}

func validateForm(form domain.FormSettings) error {
	if len(form.XValues) == 0 {
		return errors.New("form.x_values must not be empty")
	}
	if len(form.RValues) == 0 {
		return errors.New("form.r_values must not be empty")
	}
	for _, r := range form.RValues {
		if !(r > 0) || math.IsInf(r, 0) {
			return fmt.Errorf("form.r_values must be positive, got %v", r)
		}
	}
	if !(form.YMin < form.YMax) {
		return fmt.Errorf("form.y_min (%v) must be below form.y_max (%v)", form.YMin, form.YMax)
	}
	if !contains(form.RValues, form.DefaultR) {
		return fmt.Errorf("form.default_r %v not found in r_values", form.DefaultR)
	}
	return nil
}

func validateStorage(st domain.StorageSettings) error {
	switch st.Backend {
	case domain.BackendMemory:
	case "", domain.BackendFile, domain.BackendSQLite:
		if st.Path == "" {
			return fmt.Errorf("storage.path must be set for backend %s", st.Backend)
		}
	case domain.BackendPostgres:
		if st.DSN == "" {
			return errors.New("storage.dsn must be set for backend postgres")
		}
	default:
		return fmt.Errorf("storage.backend must be memory|file|sqlite|postgres, got %s", st.Backend)
	}
	if st.Key == "" {
		return errors.New("storage.key must be set")
	}
	return nil
}

func contains(values []float64, want float64) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
