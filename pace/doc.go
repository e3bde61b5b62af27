// Package pace provides client-side pacing for calls to rate-limited
// registries.
//
// Both registries throttle anonymous clients aggressively, so lookups and
// searches go through a token bucket tuned well below the published
// limits. The limiter is optional at every call site; a nil *Limiter
// means "no pacing".
package pace
