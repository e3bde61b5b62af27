package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records the engine's cache and registry activity. A nil
// *Metrics records nothing, so callers never need to guard their calls.
type Metrics struct {
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
	lookups      metric.Int64Counter
	batches      metric.Int64Counter
	batchSize    metric.Int64Histogram
	searches     metric.Int64Counter
	resolutions  metric.Int64Counter
}

// NewMetrics creates the engine's instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	cacheHits, err := meter.Int64Counter(
		"modmeta.cache.hits",
		metric.WithDescription("Persistent cache hits by source tag"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"modmeta.cache.misses",
		metric.WithDescription("Persistent cache misses by source tag"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter(
		"modmeta.registry.lookups",
		metric.WithDescription("Registry lookups by registry and outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	batches, err := meter.Int64Counter(
		"modmeta.batch.flushes",
		metric.WithDescription("Bulk registry batches drained"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, err
	}

	batchSize, err := meter.Int64Histogram(
		"modmeta.batch.size",
		metric.WithDescription("Ids per drained batch"),
		metric.WithUnit("{id}"),
	)
	if err != nil {
		return nil, err
	}

	searches, err := meter.Int64Counter(
		"modmeta.search.attempts",
		metric.WithDescription("Fuzzy-search fallback attempts by outcome"),
		metric.WithUnit("{search}"),
	)
	if err != nil {
		return nil, err
	}

	resolutions, err := meter.Int64Counter(
		"modmeta.resolutions",
		metric.WithDescription("Completed item resolutions by terminal state"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
		lookups:     lookups,
		batches:     batches,
		batchSize:   batchSize,
		searches:    searches,
		resolutions: resolutions,
	}, nil
}

// RecordCacheHit counts a persistent cache hit for a source tag.
func (m *Metrics) RecordCacheHit(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordCacheMiss counts a persistent cache miss for a source tag.
func (m *Metrics) RecordCacheMiss(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordLookup counts a registry lookup with its outcome
// ("hit", "miss", or "error").
func (m *Metrics) RecordLookup(ctx context.Context, registry, outcome string) {
	if m == nil {
		return
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("outcome", outcome),
	))
}

// RecordBatch counts a drained batch and its size.
func (m *Metrics) RecordBatch(ctx context.Context, size int, ok bool) {
	if m == nil {
		return
	}
	m.batches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("ok", ok)))
	m.batchSize.Record(ctx, int64(size))
}

// RecordSearch counts a fuzzy-search fallback attempt.
func (m *Metrics) RecordSearch(ctx context.Context, matched bool) {
	if m == nil {
		return
	}
	m.searches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("matched", matched)))
}

// RecordResolution counts a finished resolution by its terminal state.
func (m *Metrics) RecordResolution(ctx context.Context, state string) {
	if m == nil {
		return
	}
	m.resolutions.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
}
