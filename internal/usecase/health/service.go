package health

import (
	"context"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	datasets DatasetLister
	bus      BusPinger
}

// New creates a Service. bus can be nil.
func New(datasets DatasetLister, bus BusPinger) *Service {
	return &Service{datasets: datasets, bus: bus}
}

// Check reports one entry per dataset ("dataset.<name>", failing until its
// first load) plus the bus. No registered datasets at all is unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	infos := s.datasets.List(ctx)
	for _, info := range infos {
		if info.LoadedAt().IsZero() {
			checks["dataset."+info.Name()] = CheckError
		} else {
			checks["dataset."+info.Name()] = CheckOK
		}
	}

	if s.bus != nil {
		if err := s.bus.Ping(); err != nil {
			checks["bus"] = CheckError
		} else {
			checks["bus"] = CheckOK
		}
	}

	if len(infos) == 0 {
		return Report{Status: Unhealthy, Checks: checks}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
