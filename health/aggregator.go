package health

import (
	"context"
	"sync"
)

// Aggregator runs a set of probes and summarizes them.
type Aggregator struct {
	mu       sync.RWMutex
	checkers []Checker
}

// NewAggregator creates an aggregator over the given probes.
func NewAggregator(checkers ...Checker) *Aggregator {
	return &Aggregator{checkers: checkers}
}

// Register adds a probe.
func (a *Aggregator) Register(c Checker) {
	if c == nil {
		return
	}
	a.mu.Lock()
	a.checkers = append(a.checkers, c)
	a.mu.Unlock()
}

// CheckAll runs every probe concurrently and collects results by name.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make([]Checker, len(a.checkers))
	copy(checkers, a.checkers)
	a.mu.RUnlock()

	results := make(map[string]Result, len(checkers))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, c := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			r := c.Check(ctx)
			mu.Lock()
			results[c.Name()] = r
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	return results
}

// Overall reduces a result set to a single status: unhealthy dominates,
// then degraded; an empty set is healthy.
func (a *Aggregator) Overall(results map[string]Result) Status {
	overall := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}
