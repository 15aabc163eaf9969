// Package cache stores solved layouts and rendered artifacts.
//
// Backends implement the small Cache interface: FileCache for the CLI,
// RedisCache for servers that share results, NullCache to disable caching.
// Keys are built by a Keyer so that every backend addresses the same entry
// for the same input.
//
// Cached values are opaque bytes. Only successful results are cached; a
// document that fails to solve is solved again on every request.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLSolve    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer builds cache keys.
type Keyer interface {
	// SolveKey addresses the solution of a document.
	SolveKey(docHash string) string
	// ArtifactKey addresses one rendering of a solution.
	ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	ScaleX    float64 `json:"scale_x,omitempty"`
	ScaleY    float64 `json:"scale_y,omitempty"`
	Slots     bool    `json:"slots,omitempty"`
	Highlight string  `json:"highlight,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SolveKey returns "solve:<hash>".
func (DefaultKeyer) SolveKey(docHash string) string {
	return hashKey("solve", docHash)
}

// ArtifactKey returns "artifact:<hash>" over the solution hash and opts.
func (DefaultKeyer) ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", solutionHash, opts)
}
