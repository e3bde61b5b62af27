// Package health probes the reachability of the external registries.
//
// The engine itself never blocks on these probes; they exist so an
// operator (or a readiness endpoint) can distinguish "the registry is
// down" from "the catalog simply has no icons".
package health
