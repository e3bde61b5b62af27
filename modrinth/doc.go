// Package modrinth is the client for the bulk-capable registry.
//
// The registry exposes a bulk project endpoint (at most ten ids per call)
// and a free-text search endpoint. Client performs the raw calls and
// normalizes responses; Batcher accumulates lookup keys, drains them in
// serialized batches, and fans results out to every waiter, so that any
// number of concurrent lookups costs one network round-trip per unique
// key per batch.
package modrinth
