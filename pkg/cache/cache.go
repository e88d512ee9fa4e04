// Package cache stores rendered artifacts between runs.
//
// Rendering a variation is deterministic in the manifest, the style, the
// phrase and the seed, so its PNG can be reused whenever those inputs
// repeat. The [Keyer] turns those inputs into a stable key and a [Cache]
// backend holds the bytes:
//
//   - [FileCache] for the CLI, under the user cache directory
//   - [RedisCache] for a preview server shared by several instances
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries.
const (
	TTLVariation = 7 * 24 * time.Hour
	TTLLegend    = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key. A missing or expired entry
	// is reported as a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// VariationKeyOpts are the render inputs besides the manifest.
type VariationKeyOpts struct {
	Words []string `json:"words"`
	Seed  uint64   `json:"seed"`
	// StyleHash summarizes every setting that affects pixels.
	StyleHash string `json:"style"`
	// Assets fingerprints the spritesheets the manifest points at.
	Assets string `json:"assets"`
}

// LegendKeyOpts are the legend inputs besides the manifest.
type LegendKeyOpts struct {
	Items    []string `json:"items"`
	Terrains []string `json:"terrains"`
	Assets   string   `json:"assets"`
}

// Keyer derives cache keys.
type Keyer interface {
	VariationKey(manifestHash string, opts VariationKeyOpts) string
	LegendKey(manifestHash string, opts LegendKeyOpts) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// VariationKey returns the key of one rendered variation.
func (DefaultKeyer) VariationKey(manifestHash string, opts VariationKeyOpts) string {
	return hashKey("variation", manifestHash, opts)
}

// LegendKey returns the key of a legend image.
func (DefaultKeyer) LegendKey(manifestHash string, opts LegendKeyOpts) string {
	return hashKey("legend", manifestHash, opts)
}

var _ Keyer = DefaultKeyer{}
