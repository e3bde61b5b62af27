// Package cache provides the persistent metadata store for resolved
// registry artifacts.
//
// Values are flat strings (URLs) under versioned keys of the form
// {version}_{source}_{slug}. Presence of an entry means "last known good
// value from a successful fetch"; misses are never stored, and entries
// never expire. Rotating the version tag invalidates the whole tier
// without migrating data.
package cache
