package health

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Status is the probe outcome for a component.
type Status int

const (
	// StatusHealthy means the registry answered promptly.
	StatusHealthy Status = iota
	// StatusDegraded means the registry answered, but slowly.
	StatusDegraded
	// StatusUnhealthy means the registry did not answer usefully.
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one probe.
type Result struct {
	Status    Status
	Message   string
	Latency   time.Duration
	CheckedAt time.Time
	Err       error
}

// Checker is a named health probe.
type Checker interface {
	// Name identifies the probed component.
	Name() string

	// Check runs the probe. It must honor ctx.
	Check(ctx context.Context) Result
}

// RegistryCheckerConfig configures a RegistryChecker.
type RegistryCheckerConfig struct {
	// Name identifies the registry, e.g. "modrinth".
	Name string

	// URL is the endpoint probed with a GET.
	URL string

	// HTTPClient is the HTTP client for probes.
	// If nil, a default client with 5s timeout is used.
	HTTPClient *http.Client

	// DegradedAfter marks answers slower than this as degraded.
	// Default: 2s
	DegradedAfter time.Duration
}

// RegistryChecker probes a registry endpoint over HTTP.
type RegistryChecker struct {
	config RegistryCheckerConfig
}

// NewRegistryChecker creates a registry probe, applying defaults for zero
// fields.
func NewRegistryChecker(config RegistryCheckerConfig) *RegistryChecker {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	}
	if config.DegradedAfter <= 0 {
		config.DegradedAfter = 2 * time.Second
	}
	return &RegistryChecker{config: config}
}

// Name returns the registry name.
func (c *RegistryChecker) Name() string {
	return c.config.Name
}

// Check issues a GET against the registry endpoint. Any 2xx-4xx answer
// counts as reachable: a 404 from a probe URL still proves the registry
// is up. 5xx and transport failures are unhealthy.
func (c *RegistryChecker) Check(ctx context.Context) Result {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL, nil)
	if err != nil {
		return Result{
			Status:    StatusUnhealthy,
			Message:   "invalid probe request",
			Err:       err,
			CheckedAt: start,
		}
	}

	resp, err := c.config.HTTPClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Result{
			Status:    StatusUnhealthy,
			Message:   "registry unreachable",
			Latency:   latency,
			Err:       err,
			CheckedAt: start,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return Result{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("registry returned %d", resp.StatusCode),
			Latency:   latency,
			CheckedAt: start,
		}
	}
	if latency > c.config.DegradedAfter {
		return Result{
			Status:    StatusDegraded,
			Message:   "registry slow",
			Latency:   latency,
			CheckedAt: start,
		}
	}
	return Result{
		Status:    StatusHealthy,
		Message:   "ok",
		Latency:   latency,
		CheckedAt: start,
	}
}

// Ensure RegistryChecker implements Checker
var _ Checker = (*RegistryChecker)(nil)
