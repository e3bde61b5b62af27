package cache

import "fmt"

// Version is the current cache namespace version. Bumping it orphans every
// prior entry, which is how a format change invalidates the tier.
const Version = "MODMETA_V1"

// Source tags namespace keys by registry and field.
type Source string

// Known source tags.
const (
	SourceModrinthIcon Source = "mr-icon"
	SourceModrinthDoc  Source = "mr-doc"
	SourceCurseIcon    Source = "cf-icon"
	SourceCurseDoc     Source = "cf-doc"
)

// Keyer builds versioned store keys.
//
// Contract:
// - Determinism: the same (source, slug) always yields the same key.
// - Concurrency: safe for concurrent use.
type Keyer struct {
	version string
}

// NewKeyer creates a keyer for the given namespace version. An empty
// version selects the current Version.
func NewKeyer(version string) *Keyer {
	if version == "" {
		version = Version
	}
	return &Keyer{version: version}
}

// Key returns the store key for a (source, slug) pair.
// Format: {version}_{source}_{slug}
func (k *Keyer) Key(source Source, slug string) string {
	return fmt.Sprintf("%s_%s_%s", k.version, source, slug)
}

// Version returns the keyer's namespace version.
func (k *Keyer) Version() string {
	return k.version
}
