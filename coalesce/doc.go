// Package coalesce deduplicates concurrent requests for the same key.
//
// It is a typed façade over golang.org/x/sync/singleflight: while a call
// for a key is outstanding, further callers for that key attach to the
// in-flight call instead of starting their own, and every caller receives
// the shared result exactly once.
package coalesce
