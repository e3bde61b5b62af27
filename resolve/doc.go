// Package resolve orchestrates metadata resolution for catalog items.
//
// Per item, the engine walks a fallback chain: preset icon, persistent
// cache, the single-lookup registry (when a slug is known or inferable),
// the bulk registry's batched lookup, and finally a similarity-gated
// free-text search. Successful fetches are written through to the cache;
// misses and transport failures silently advance the chain. The worst
// outcome is an item with no icon and its original static doc link,
// never an error surfaced to the consumer.
package resolve
