package cache

// ScopedKeyer prefixes every key of an inner Keyer. Instances sharing one
// Redis database use it to keep their entries apart.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "dontpanic:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// VariationKey returns the prefixed variation key.
func (k *ScopedKeyer) VariationKey(manifestHash string, opts VariationKeyOpts) string {
	return k.prefix + k.inner.VariationKey(manifestHash, opts)
}

// LegendKey returns the prefixed legend key.
func (k *ScopedKeyer) LegendKey(manifestHash string, opts LegendKeyOpts) string {
	return k.prefix + k.inner.LegendKey(manifestHash, opts)
}
