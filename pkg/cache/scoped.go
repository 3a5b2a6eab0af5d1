package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating one package library
// (or one deployment) from another inside a shared backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "badtechnologies/bpl/main:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) SearchKey(query string) string {
	return k.prefix + k.inner.SearchKey(query)
}
