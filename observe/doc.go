// Package observe provides the engine's telemetry: structured JSON
// logging, OpenTelemetry metrics for cache and registry activity, and an
// optional trace span per resolution.
//
// Everything here is optional at the call sites: a nil *Metrics records
// nothing, Nop() is a logger that discards everything, and an Observer
// configured with no exporters is inert. The engine must keep working
// with telemetry absent.
package observe
