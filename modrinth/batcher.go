package modrinth

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/modmeta/observe"
)

// BatcherConfig configures the batch scheduler.
type BatcherConfig struct {
	// Client performs the bulk calls. Required.
	Client *Client

	// BatchSize caps the ids per drain.
	// Default (and maximum): MaxBatchSize
	BatchSize int

	// Debounce is how long the first key waits before a drain starts, so
	// a burst of near-simultaneous registrations shares one batch.
	// Default: 100ms
	Debounce time.Duration

	// Cooldown is the pause before draining keys that remained queued
	// after a batch completed.
	// Default: 1s
	Cooldown time.Duration

	// Logger records drain activity. Nil disables logging.
	Logger observe.Logger

	// Metrics records batch counts and sizes. Nil disables metrics.
	Metrics *observe.Metrics
}

// Result is delivered to every waiter of a key.
type Result struct {
	// Meta is the normalized metadata. Zero when Found is false.
	Meta Metadata

	// Found reports whether the registry returned the key. False covers
	// both an id missing from a successful response and a failed batch.
	Found bool
}

// Batcher accumulates bulk-lookup keys and drains them in serialized
// batches: at most one batch is ever in flight, respecting the registry's
// rate limit.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Delivery: every waiter receives exactly one Result. Keys requested
//   while already queued or in flight attach to the existing entry; no
//   duplicate network work is issued.
// - Failure: a failed batch reports Found=false to its waiters and does
//   not re-enqueue its keys.
type Batcher struct {
	config BatcherConfig

	mu         sync.Mutex
	queue      map[string]struct{}
	waiters    map[string][]chan Result
	inBatch    map[string]struct{}
	inFlight   bool
	timerArmed bool
}

// NewBatcher creates a batch scheduler, applying defaults for zero fields.
func NewBatcher(config BatcherConfig) *Batcher {
	if config.BatchSize <= 0 || config.BatchSize > MaxBatchSize {
		config.BatchSize = MaxBatchSize
	}
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if config.Cooldown <= 0 {
		config.Cooldown = time.Second
	}
	if config.Logger == nil {
		config.Logger = observe.Nop()
	}
	return &Batcher{
		config:  config,
		queue:   make(map[string]struct{}),
		waiters: make(map[string][]chan Result),
		inBatch: make(map[string]struct{}),
	}
}

// Lookup registers interest in a key and returns a channel that receives
// exactly one Result. The channel is buffered; an abandoned receive never
// blocks the drain.
func (b *Batcher) Lookup(id string) <-chan Result {
	ch := make(chan Result, 1)

	b.mu.Lock()
	b.waiters[id] = append(b.waiters[id], ch)
	// A key already in the current batch will be answered by that batch;
	// re-queueing it would duplicate the network work.
	if _, pending := b.inBatch[id]; !pending {
		b.queue[id] = struct{}{}
	}
	if !b.inFlight && !b.timerArmed {
		b.timerArmed = true
		time.AfterFunc(b.config.Debounce, b.drain)
	}
	b.mu.Unlock()

	return ch
}

// LookupWait is Lookup plus a blocking receive that honors ctx.
func (b *Batcher) LookupWait(ctx context.Context, id string) (Metadata, bool, error) {
	select {
	case r := <-b.Lookup(id):
		return r.Meta, r.Found, nil
	case <-ctx.Done():
		return Metadata{}, false, ctx.Err()
	}
}

// Pending returns the number of queued keys. Test hook.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// drain takes one batch off the queue, runs it, and fans results out.
// Only one drain runs at a time; remaining keys are rescheduled after the
// cooldown.
func (b *Batcher) drain() {
	b.mu.Lock()
	b.timerArmed = false
	if b.inFlight || len(b.queue) == 0 {
		b.mu.Unlock()
		return
	}
	batch := make([]string, 0, b.config.BatchSize)
	for id := range b.queue {
		if len(batch) == b.config.BatchSize {
			break
		}
		batch = append(batch, id)
		delete(b.queue, id)
		b.inBatch[id] = struct{}{}
	}
	b.inFlight = true
	b.mu.Unlock()

	ctx := context.Background()
	results, err := b.config.Client.Projects(ctx, batch)
	if err != nil {
		b.config.Logger.Warn(ctx, "batch lookup failed",
			observe.F("size", len(batch)), observe.F("error", err.Error()))
		results = nil
	}
	b.config.Metrics.RecordBatch(ctx, len(batch), err == nil)

	b.mu.Lock()
	for _, id := range batch {
		meta, found := results[id]
		for _, ch := range b.waiters[id] {
			ch <- Result{Meta: meta, Found: found}
		}
		delete(b.waiters, id)
		delete(b.inBatch, id)
	}
	b.inFlight = false
	if len(b.queue) > 0 && !b.timerArmed {
		b.timerArmed = true
		time.AfterFunc(b.config.Cooldown, b.drain)
	}
	b.mu.Unlock()
}
