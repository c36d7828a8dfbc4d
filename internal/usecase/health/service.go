package health

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates that no index core answers.
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
	cores  map[string]Pinger
	cache  Pinger
	logger *zap.Logger
}

// New creates a Service. cores maps a check name to an index core; cache can be nil.
func New(cores map[string]Pinger, cache Pinger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	cp := make(map[string]Pinger, len(cores))
	for k, v := range cores {
		cp[k] = v
	}
	return &Service{cores: cp, cache: cache, logger: logger}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.cores)+1)

	names := make([]string, 0, len(s.cores))
	for name := range s.cores {
		names = append(names, name)
	}
	sort.Strings(names)

	failedCores := 0
	for _, name := range names {
		if s.check(ctx, checks, "index."+name, s.cores[name]) == CheckError {
			failedCores++
		}
	}
	if s.cache != nil {
		s.check(ctx, checks, "cache", s.cache)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if len(names) > 0 && failedCores == len(names) {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) check(ctx context.Context, checks map[string]CheckResult, name string, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		s.logger.Warn("Health check failed", zap.String("component", name), zap.Error(err))
		checks[name] = CheckError
		return CheckError
	}
	checks[name] = CheckOK
	return CheckOK
}
