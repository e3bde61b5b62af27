package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/modmeta/cache"
	"github.com/jonwraymond/modmeta/catalog"
	"github.com/jonwraymond/modmeta/coalesce"
	"github.com/jonwraymond/modmeta/curseforge"
	"github.com/jonwraymond/modmeta/match"
	"github.com/jonwraymond/modmeta/modrinth"
	"github.com/jonwraymond/modmeta/observe"
)

// Config configures the resolution engine.
type Config struct {
	// Primary is the bulk registry client. Required.
	Primary *modrinth.Client

	// Secondary is the single-lookup registry client. Nil disables the
	// secondary tier; items fall straight through to the bulk registry.
	Secondary *curseforge.Client

	// Batcher schedules bulk lookups. If nil, one is created over Primary
	// with default debounce and cooldown.
	Batcher *modrinth.Batcher

	// Store persists resolved values across sessions.
	// Default: an in-memory store (session-only).
	Store cache.Store

	// Keyer namespaces store keys.
	// Default: the current cache version.
	Keyer *cache.Keyer

	// SearchFacet narrows the first search attempt to a platform
	// category; the unfiltered query runs only when the narrowed one
	// yields nothing. Empty skips the narrowed attempt.
	// Default: "fabric"
	SearchFacet string

	// SearchLimit caps search hits considered per attempt.
	// Default: 5
	SearchLimit int

	// Logger records engine activity. Nil disables logging.
	Logger observe.Logger

	// Metrics records cache and registry activity. Nil disables metrics.
	Metrics *observe.Metrics

	// Tracer opens a span per resolution. Nil disables tracing.
	Tracer trace.Tracer
}

// Projection is the engine's outbound view of an item.
type Projection struct {
	// Icon is the resolved icon URL, empty when no tier produced one.
	Icon string

	// DocURL is the best documentation link known: a registry's answer
	// when available, otherwise the catalog's static URL.
	DocURL string

	// Loading reports that a resolution is still in flight.
	Loading bool
}

// Engine resolves catalog items against the registries.
//
// Contract:
// - Concurrency: safe for concurrent use; any number of items may resolve
//   at once. Bulk calls stay serialized through the Batcher, and the
//   secondary registry is deduplicated per slug.
// - Errors: never surfaced. Registry misses and transport failures
//   advance the fallback chain; storage failures are logged and ignored.
type Engine struct {
	config Config
	log    observe.Logger

	// cf deduplicates concurrent secondary lookups per slug.
	cf coalesce.Group[curseforge.Metadata]

	mu       sync.Mutex
	searched map[string]struct{}
	states   map[string]State

	// discovered maps an item's name to the slug a search accepted for it,
	// so later resolutions of a slugless item reach the cached value.
	discovered map[string]string
}

// NewEngine creates an engine, applying defaults for zero fields.
func NewEngine(config Config) (*Engine, error) {
	if config.Primary == nil {
		return nil, fmt.Errorf("resolve: primary registry client is required")
	}
	if config.Store == nil {
		config.Store = cache.NewMemoryStore()
	}
	if config.Keyer == nil {
		config.Keyer = cache.NewKeyer("")
	}
	if config.Batcher == nil {
		config.Batcher = modrinth.NewBatcher(modrinth.BatcherConfig{
			Client:  config.Primary,
			Logger:  config.Logger,
			Metrics: config.Metrics,
		})
	}
	if config.SearchFacet == "" {
		config.SearchFacet = "fabric"
	}
	if config.SearchLimit <= 0 {
		config.SearchLimit = 5
	}
	if config.Logger == nil {
		config.Logger = observe.Nop()
	}

	return &Engine{
		config:     config,
		log:        config.Logger.WithComponent("engine"),
		searched:   make(map[string]struct{}),
		states:     make(map[string]State),
		discovered: make(map[string]string),
	}, nil
}

// Cached returns the item's projection from preset data and the
// persistent store alone. It never touches the network; ok reports
// whether an icon is already available.
func (e *Engine) Cached(ctx context.Context, item catalog.Item) (Projection, bool) {
	if item.Icon != "" {
		return Projection{Icon: item.Icon, DocURL: item.Wiki}, true
	}
	if slug, ok := item.SecondarySlug(); ok {
		if icon, doc, hit := e.fromCache(ctx, cache.SourceCurseIcon, cache.SourceCurseDoc, slug); hit {
			return Projection{Icon: icon, DocURL: fallback(doc, item)}, true
		}
	}
	if slug := e.primarySlug(item); slug != "" {
		if icon, doc, hit := e.fromCache(ctx, cache.SourceModrinthIcon, cache.SourceModrinthDoc, slug); hit {
			return Projection{Icon: icon, DocURL: fallback(doc, item)}, true
		}
	}
	return Projection{DocURL: item.Wiki}, false
}

// Request is the visibility-gate entry point. It delivers the initial
// projection synchronously; when that projection is still loading, the
// resolution runs in the background and fn is invoked exactly once more
// with the final projection. fn is called at most twice.
func (e *Engine) Request(ctx context.Context, item catalog.Item, fn func(Projection)) {
	if p, ok := e.Cached(ctx, item); ok {
		fn(p)
		return
	}
	fn(Projection{DocURL: item.Wiki, Loading: true})
	go func() {
		fn(e.Resolve(ctx, item))
	}()
}

// Resolve walks the full fallback chain for one item and blocks until a
// terminal state is reached. Safe to call repeatedly: once a value is
// cached, repeat calls are pure cache reads.
func (e *Engine) Resolve(ctx context.Context, item catalog.Item) Projection {
	if err := item.Validate(); err != nil {
		e.log.Warn(ctx, "unresolvable item", observe.F("error", err.Error()))
		return Projection{DocURL: item.Wiki}
	}
	if e.config.Tracer != nil {
		var span trace.Span
		ctx, span = e.config.Tracer.Start(ctx, "resolve",
			trace.WithAttributes(attribute.String("item.name", item.Name)))
		defer span.End()
	}

	if item.Icon != "" {
		e.setState(item, StateResolved)
		return Projection{Icon: item.Icon, DocURL: item.Wiki}
	}

	// Follows the doc link through the tiers: a tier may contribute a doc
	// URL even when it has no icon, and a later success must not lose it.
	docURL := ""

	// Tier 1: single-lookup registry.
	if slug, ok := item.SecondarySlug(); ok {
		if icon, doc, hit := e.fromCache(ctx, cache.SourceCurseIcon, cache.SourceCurseDoc, slug); hit {
			e.finish(ctx, item, StateResolved)
			return Projection{Icon: icon, DocURL: fallback(doc, item)}
		}
		if e.config.Secondary != nil {
			if p, doc, done := e.lookupSecondary(ctx, item, slug); done {
				return p
			} else if doc != "" {
				docURL = doc
			}
		}
	}

	// Tier 2: bulk registry, batched.
	if slug := e.primarySlug(item); slug != "" {
		if p, doc, done := e.lookupPrimary(ctx, item, slug); done {
			return p
		} else if doc != "" {
			docURL = doc
		}
	}

	// Tier 3: similarity-gated search, once per name per engine lifetime.
	if e.markSearched(item) {
		e.setState(item, StateAwaitingSearch)
		if cand, ok := e.search(ctx, item.Name); ok {
			e.mu.Lock()
			e.discovered[nameKey(item)] = cand.Slug
			e.mu.Unlock()
			if p, doc, done := e.lookupPrimary(ctx, item, cand.Slug); done {
				return p
			} else if doc != "" {
				docURL = doc
			}
		}
	}

	e.finish(ctx, item, StateExhausted)
	return Projection{DocURL: fallback(docURL, item)}
}

// State reports the item's current resolution state.
func (e *Engine) State(item catalog.Item) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.states[nameKey(item)]
}

// lookupSecondary runs the deduplicated single-slug lookup. done reports
// a terminal success; doc carries a documentation URL found without an
// icon, for the caller's fallback projection.
func (e *Engine) lookupSecondary(ctx context.Context, item catalog.Item, slug string) (p Projection, doc string, done bool) {
	e.setState(item, StateAwaitingSecondary)

	meta, err, _ := e.cf.Do(slug, func() (curseforge.Metadata, error) {
		return e.config.Secondary.Lookup(ctx, slug)
	})
	switch {
	case err == nil && meta.IconURL != "":
		e.config.Metrics.RecordLookup(ctx, "curseforge", "hit")
		e.persist(ctx, cache.SourceCurseIcon, slug, meta.IconURL)
		e.persist(ctx, cache.SourceCurseDoc, slug, meta.DocURL)
		e.finish(ctx, item, StateResolved)
		return Projection{Icon: meta.IconURL, DocURL: fallback(meta.DocURL, item)}, "", true

	case err == nil:
		// Reachable but nothing usable: definitive enough to move on,
		// though a doc link alone is still worth keeping.
		e.config.Metrics.RecordLookup(ctx, "curseforge", "miss")
		return Projection{}, meta.DocURL, false

	case errors.Is(err, curseforge.ErrNotFound):
		e.config.Metrics.RecordLookup(ctx, "curseforge", "miss")
		e.log.Debug(ctx, "secondary registry miss", observe.F("slug", slug))
		return Projection{}, "", false

	default:
		e.config.Metrics.RecordLookup(ctx, "curseforge", "error")
		e.log.Warn(ctx, "secondary registry error",
			observe.F("slug", slug), observe.F("error", err.Error()))
		return Projection{}, "", false
	}
}

// lookupPrimary checks the bulk-registry cache tier and, on miss, waits
// on the batch scheduler. done reports a terminal success.
func (e *Engine) lookupPrimary(ctx context.Context, item catalog.Item, slug string) (p Projection, doc string, done bool) {
	if icon, cachedDoc, hit := e.fromCache(ctx, cache.SourceModrinthIcon, cache.SourceModrinthDoc, slug); hit {
		e.finish(ctx, item, StateResolved)
		return Projection{Icon: icon, DocURL: fallback(cachedDoc, item)}, "", true
	}

	e.setState(item, StateAwaitingPrimary)
	meta, found, err := e.config.Batcher.LookupWait(ctx, slug)
	if err != nil {
		e.config.Metrics.RecordLookup(ctx, "modrinth", "error")
		e.log.Warn(ctx, "primary registry error",
			observe.F("slug", slug), observe.F("error", err.Error()))
		return Projection{}, "", false
	}
	if !found {
		e.config.Metrics.RecordLookup(ctx, "modrinth", "miss")
		return Projection{}, "", false
	}

	e.persist(ctx, cache.SourceModrinthDoc, slug, meta.DocURL)
	if meta.IconURL == "" {
		// The registry knows the project but ships no icon; the doc link
		// still supersedes the static one.
		e.config.Metrics.RecordLookup(ctx, "modrinth", "miss")
		return Projection{}, meta.DocURL, false
	}

	e.config.Metrics.RecordLookup(ctx, "modrinth", "hit")
	e.persist(ctx, cache.SourceModrinthIcon, slug, meta.IconURL)
	e.finish(ctx, item, StateResolved)
	return Projection{Icon: meta.IconURL, DocURL: fallback(meta.DocURL, item)}, "", true
}

// search runs the narrowed query first and the unfiltered one only when
// the narrowed query yields nothing, then gates the hits through the
// similarity matcher. At most one candidate is accepted.
func (e *Engine) search(ctx context.Context, name string) (modrinth.Candidate, bool) {
	opts := modrinth.SearchOptions{Facet: e.config.SearchFacet, Limit: e.config.SearchLimit}

	candidates, err := e.config.Primary.Search(ctx, name, opts)
	if (err != nil || len(candidates) == 0) && opts.Facet != "" {
		candidates, err = e.config.Primary.Search(ctx, name,
			modrinth.SearchOptions{Limit: e.config.SearchLimit})
	}
	if err != nil {
		e.config.Metrics.RecordSearch(ctx, false)
		e.log.Warn(ctx, "search failed",
			observe.F("name", name), observe.F("error", err.Error()))
		return modrinth.Candidate{}, false
	}

	for _, cand := range candidates {
		if match.Similar(name, cand.Title) || match.Similar(name, cand.Slug) {
			e.config.Metrics.RecordSearch(ctx, true)
			e.log.Debug(ctx, "search matched",
				observe.F("name", name), observe.F("slug", cand.Slug))
			return cand, true
		}
	}
	e.config.Metrics.RecordSearch(ctx, false)
	return modrinth.Candidate{}, false
}

// fromCache reads an item's icon and doc values for one registry tier.
// hit requires the icon entry; the doc entry alone is not a hit.
func (e *Engine) fromCache(ctx context.Context, iconSrc, docSrc cache.Source, slug string) (icon, doc string, hit bool) {
	icon, hit = e.config.Store.Get(ctx, e.config.Keyer.Key(iconSrc, slug))
	if !hit {
		e.config.Metrics.RecordCacheMiss(ctx, string(iconSrc))
		return "", "", false
	}
	e.config.Metrics.RecordCacheHit(ctx, string(iconSrc))
	doc, _ = e.config.Store.Get(ctx, e.config.Keyer.Key(docSrc, slug))
	return icon, doc, true
}

// persist writes a value through to the store. Storage failures only get
// logged: the engine keeps working in memory.
func (e *Engine) persist(ctx context.Context, src cache.Source, slug, value string) {
	if value == "" {
		return
	}
	if err := e.config.Store.Set(ctx, e.config.Keyer.Key(src, slug), value); err != nil {
		e.log.Warn(ctx, "cache write failed",
			observe.F("source", string(src)), observe.F("slug", slug),
			observe.F("error", err.Error()))
	}
}

// primarySlug returns the item's own bulk-registry slug, or the one a
// prior search discovered for it.
func (e *Engine) primarySlug(item catalog.Item) string {
	if item.Slug != "" {
		return item.Slug
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.discovered[nameKey(item)]
}

// markSearched records the one-shot search attempt for the item's name.
// It returns true only for the first caller.
func (e *Engine) markSearched(item catalog.Item) bool {
	key := nameKey(item)
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, done := e.searched[key]; done {
		return false
	}
	e.searched[key] = struct{}{}
	return true
}

func (e *Engine) setState(item catalog.Item, s State) {
	e.mu.Lock()
	e.states[nameKey(item)] = s
	e.mu.Unlock()
}

// finish records the terminal state and its metric.
func (e *Engine) finish(ctx context.Context, item catalog.Item, s State) {
	e.setState(item, s)
	e.config.Metrics.RecordResolution(ctx, s.String())
}

func nameKey(item catalog.Item) string {
	return strings.ToLower(strings.TrimSpace(item.Name))
}

// fallback substitutes the catalog's static doc link for an empty one.
func fallback(doc string, item catalog.Item) string {
	if doc != "" {
		return doc
	}
	return item.Wiki
}
