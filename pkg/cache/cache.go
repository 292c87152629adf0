// Package cache provides the byte-level cache used for registry lookups and
// rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON envelopes under ~/.cache/pomedit, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by `pomedit serve`
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are built by a [Keyer] so that callers never hand-assemble them.
// [ScopedKeyer] prefixes every key, which lets several servers share one
// Redis database.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
//
// Get reports a miss with (nil, false, nil); errors are reserved for
// backend failures. A ttl of 0 means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey is the key for a registry response in namespace (e.g. "maven:").
	HTTPKey(namespace, key string) string

	// ArtifactKey is the key for a rendered artifact of the input identified
	// by inputHash.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Direction string `json:"direction,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
}

// DefaultKeyer is the unprefixed [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ArtifactKey hashes the options so that every format gets its own entry.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

// ScopedKeyer prefixes every key produced by an inner Keyer.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; a nil inner means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}

// DefaultDir is the per-user cache directory, ~/.cache/pomedit, honouring
// XDG_CACHE_HOME when set.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pomedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "pomedit"), nil
}
