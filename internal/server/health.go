package server

import (
	"context"
	"errors"

	"github.com/vanshika/costar/internal/graphdb"
	"github.com/vanshika/costar/internal/service"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies database connectivity as part of health checks.
type GraphHealthService struct {
	Client graphdb.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}

// LoadedHealthService reports unhealthy until a graph has been loaded.
type LoadedHealthService struct {
	Service interface{ Loaded() bool }
}

// Probe implements the HealthService interface.
func (s LoadedHealthService) Probe(context.Context) error {
	if s.Service == nil || !s.Service.Loaded() {
		return service.ErrGraphNotLoaded
	}
	return nil
}

// HealthChecks runs every probe and joins the failures.
type HealthChecks []HealthService

// Probe implements the HealthService interface.
func (hc HealthChecks) Probe(ctx context.Context) error {
	var errs []error
	for _, check := range hc {
		if check == nil {
			continue
		}
		if err := check.Probe(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
