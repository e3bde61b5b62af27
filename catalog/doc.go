// Package catalog defines the static catalog item model consumed by the
// resolution engine.
//
// Items are supplied by the catalog owner and are read-only from the
// engine's perspective: the engine only inspects identifiers (registry
// slugs, a known documentation URL, an optional preset icon) to decide
// which resolution path to take.
package catalog
