// Package cache stores rendered scenes and artifacts between runs.
//
// A [Cache] is a plain byte store with TTLs. [Keyer] derives keys from the
// content hash of the laid-out scene and the options that affect the
// output, so a changed graph or flag never reads a stale entry.
//
// Backends:
//
//   - [FileCache]: one JSON envelope per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for teams rendering the same
//     datasets
//   - [NullCache]: never stores anything (--no-cache)
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default lifetime of a rendered artifact.
const TTLArtifact = 7 * 24 * time.Hour

// KeyTypeArtifact labels artifact entries in observability hooks.
const KeyTypeArtifact = "artifact"

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired and
	// corrupt entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered format of a laid-out scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact. The
// scene hash already covers filtering and layout.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Labels   bool    `json:"labels"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Dataset  string  `json:"dataset,omitempty"`
	Theme    string  `json:"theme,omitempty"` // hash of the render theme
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, sceneHash, opts)
}
