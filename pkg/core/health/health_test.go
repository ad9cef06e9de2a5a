package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fixed(s Status) CheckFunc {
	return func(context.Context) CheckResult { return CheckResult{Status: s} }
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestEmptyRegistryIsHealthy(t *testing.T) {
	report := NewRegistry("svc", "1.0").Check(context.Background())
	if report.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", report.Status)
	}
	if report.Service != "svc" || report.Version != "1.0" {
		t.Errorf("unexpected report header %s", report)
	}
	if len(report.Checks) != 0 {
		t.Errorf("Checks = %v, want none", report.Checks)
	}
}

func TestOverallStatusIsWorst(t *testing.T) {
	tests := []struct {
		name   string
		checks []Status
		want   Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unknown beats degraded", []Status{StatusDegraded, StatusUnknown}, StatusUnknown},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry("svc", "1.0")
			for i, s := range tt.checks {
				r.Register(string(rune('a'+i)), fixed(s))
			}
			if got := r.Check(context.Background()).Status; got != tt.want {
				t.Errorf("Status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckFillsNameAndOrder(t *testing.T) {
	r := NewRegistry("svc", "1.0")
	r.Register("zeta", fixed(StatusHealthy))
	r.Register("alpha", func(context.Context) CheckResult { return CheckResult{} })

	report := r.Check(context.Background())
	if len(report.Checks) != 2 {
		t.Fatalf("got %d checks", len(report.Checks))
	}
	if report.Checks[0].Name != "alpha" || report.Checks[1].Name != "zeta" {
		t.Errorf("checks not sorted: %+v", report.Checks)
	}
	if report.Checks[0].Status != StatusUnknown {
		t.Errorf("empty status = %v, want unknown", report.Checks[0].Status)
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry("svc", "1.0")
	r.Register("db", fixed(StatusUnhealthy))
	r.Register("db", fixed(StatusHealthy))

	if names := r.Names(); len(names) != 1 {
		t.Errorf("Names() = %v", names)
	}
	if got := r.Check(context.Background()).Status; got != StatusHealthy {
		t.Errorf("Status = %v, want healthy", got)
	}
}

func TestChecksRunConcurrently(t *testing.T) {
	r := NewRegistry("svc", "1.0")
	slow := func(context.Context) CheckResult {
		time.Sleep(50 * time.Millisecond)
		return CheckResult{Status: StatusHealthy}
	}
	for _, n := range []string{"a", "b", "c", "d"} {
		r.Register(n, slow)
	}

	start := time.Now()
	r.Check(context.Background())
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("checks took %v, expected concurrent execution", elapsed)
	}
}

func TestPingCheck(t *testing.T) {
	ok := PingCheck(pinger{})(context.Background())
	if ok.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", ok.Status)
	}

	failed := PingCheck(pinger{err: errors.New("database is locked")})(context.Background())
	if failed.Status != StatusUnhealthy || failed.Message != "database is locked" {
		t.Errorf("unexpected result %+v", failed)
	}
}

func TestConnectionCheck(t *testing.T) {
	var connected atomic.Bool
	check := ConnectionCheck(connected.Load)

	if got := check(context.Background()).Status; got != StatusDegraded {
		t.Errorf("Status = %v, want degraded", got)
	}
	connected.Store(true)
	if got := check(context.Background()).Status; got != StatusHealthy {
		t.Errorf("Status = %v, want healthy", got)
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		code   int
	}{
		{"healthy", StatusHealthy, http.StatusOK},
		{"degraded", StatusDegraded, http.StatusOK},
		{"unhealthy", StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry("svc", "1.0")
			r.Register("dep", fixed(tt.status))

			rec := httptest.NewRecorder()
			r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			var report Report
			if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if report.Status != tt.status {
				t.Errorf("Status = %v, want %v", report.Status, tt.status)
			}
		})
	}
}

func TestHandler_Live(t *testing.T) {
	r := NewRegistry("svc", "1.0")
	r.Register("dep", fixed(StatusUnhealthy))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}
}
