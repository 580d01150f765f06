package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	appconfig "github.com/arf/areacheck/internal/application/config"
	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/ports"
)

const probeKey = "areacheck_doctor_probe"

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Store          ports.KeyValueStore
	Prober         ports.ServiceProber
	History        ports.HistoryRepository
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	if s.ConfigProvider == nil {
		return domain.HealthReport{}, errors.New("doctor.Service dependencies not satisfied")
	}
	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("loaded format %s", cfg.ConfigFormatVersion)))
	}

	checks = append(checks, s.storageCheck(ctx, cfg.Storage))

	if s.History != nil {
		records := s.History.Load(ctx)
		checks = append(checks, ok("History", fmt.Sprintf("%d records under %q", len(records), cfg.Storage.Key)))
	}

	if s.Prober != nil {
		start := time.Now()
		if err := s.Prober.Probe(ctx); err != nil {
			checks = append(checks, fail("Calculation service", fmt.Sprintf("%s unreachable: %v", cfg.Service.Endpoint, err)))
		} else {
			checks = append(checks, ok("Calculation service", fmt.Sprintf("%s answered in %s", cfg.Service.Endpoint, time.Since(start).Round(time.Millisecond))))
		}
	} else {
		checks = append(checks, warn("Calculation service", "probe not configured"))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) storageCheck(ctx context.Context, settings domain.StorageSettings) domain.HealthCheck {
	name := fmt.Sprintf("Storage (%s)", settings.Backend)
	if s.Store == nil {
		return warn(name, "storage not initialized")
	}
	payload := []byte(time.Now().UTC().Format(time.RFC3339Nano))
	if err := s.Store.Set(ctx, probeKey, payload); err != nil {
		return fail(name, fmt.Sprintf("write failed: %v", err))
	}
	defer s.Store.Delete(ctx, probeKey)
	got, err := s.Store.Get(ctx, probeKey)
	if err != nil {
		return fail(name, fmt.Sprintf("read failed: %v", err))
	}
	if string(got) != string(payload) {
		return fail(name, "read back a different value")
	}
	return ok(name, "round-trip succeeded")
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
