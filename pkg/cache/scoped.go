package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants or
// environments can share one backend without colliding.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "relayout:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SolveKey generates a prefixed key for solution caching.
func (k *ScopedKeyer) SolveKey(docHash string) string {
	return k.prefix + k.inner.SolveKey(docHash)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(solutionHash, opts)
}
