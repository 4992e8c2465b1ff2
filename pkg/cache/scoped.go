package cache

// ScopedKeyer wraps a Keyer with a prefix. Prefixing with the tool version
// keeps artifacts from an older theme out of a shared Redis cache.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey returns the prefixed key of the inner keyer.
func (k *ScopedKeyer) RenderKey(dotHash, format string) string {
	return k.prefix + k.inner.RenderKey(dotHash, format)
}
