// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     health
// Description: Dependency checks aggregated into a service report
// Author:      Mike Stoffels
// Created:     2026-10-03
// License:     MIT
// ============================================================================

// Package health aggregates named dependency checks into one report.
//
// Overall status is the worst individual status. Degraded marks a
// dependency that recovers on its own; only unhealthy fails the HTTP check.
package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the health status of a service
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	case StatusUnhealthy:
		return 3
	default:
		return 2
	}
}

// CheckResult is the outcome of one check
type CheckResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// CheckFunc inspects one dependency. Name and Duration of the result are
// filled in by the registry.
type CheckFunc func(ctx context.Context) CheckResult

// Report is the aggregated result of all checks
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime_ns"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

func (r *Report) String() string {
	return fmt.Sprintf("%s %s: %s (%d checks, up %v)",
		r.Service, r.Version, r.Status, len(r.Checks), r.Uptime.Round(time.Second))
}

// Registry holds the checks of one service
type Registry struct {
	service string
	version string
	started time.Time

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewRegistry creates an empty registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		service: service,
		version: version,
		started: time.Now(),
		checks:  make(map[string]CheckFunc),
	}
}

// Register adds or replaces the check called name
func (r *Registry) Register(name string, fn CheckFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = fn
}

// Names returns the registered check names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.checks))
	for n := range r.checks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Check runs all checks concurrently. A registry without checks is healthy.
func (r *Registry) Check(ctx context.Context) *Report {
	names := r.Names()

	r.mu.RLock()
	fns := make([]CheckFunc, len(names))
	for i, n := range names {
		fns[i] = r.checks[n]
	}
	r.mu.RUnlock()

	results := make([]CheckResult, len(names))
	var g errgroup.Group
	for i := range fns {
		g.Go(func() error {
			start := time.Now()
			res := fns[i](ctx)
			res.Name = names[i]
			res.Duration = time.Since(start)
			if res.Status == "" {
				res.Status = StatusUnknown
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	overall := StatusHealthy
	for _, res := range results {
		if res.Status.rank() > overall.rank() {
			overall = res.Status
		}
	}

	return &Report{
		Service:   r.service,
		Version:   r.version,
		Status:    overall,
		Uptime:    time.Since(r.started),
		Timestamp: time.Now(),
		Checks:    results,
	}
}

// Pinger is implemented by dependencies that can verify their connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck reports unhealthy when Ping fails
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) CheckResult {
		if err := p.Ping(ctx); err != nil {
			return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{Status: StatusHealthy}
	}
}

// ConnectionCheck reports degraded while connected returns false
func ConnectionCheck(connected func() bool) CheckFunc {
	return func(context.Context) CheckResult {
		if !connected() {
			return CheckResult{Status: StatusDegraded, Message: "not connected"}
		}
		return CheckResult{Status: StatusHealthy}
	}
}
