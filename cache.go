package tex2html

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// CacheEntry is the ephemeral result of one cache lookup. It is never
// persisted; the sidecar file beside the artifact is the durable state.
type CacheEntry struct {
	// FullyCached is true when both a cached artifact and a byte-identical
	// fingerprint sidecar were found.
	FullyCached bool

	// Fingerprint is the canonical serialization of the freshly computed
	// fingerprint, reusable by the caller to avoid recomputation.
	Fingerprint string

	// CachedArtifactPath and CachedFingerprintPath locate the cache copies
	// (set only when FullyCached).
	CachedArtifactPath    string
	CachedFingerprintPath string
}

// ArtifactCache decides whether a previously built artifact can be reused
// and restores cache copies into the working tree. Cache equality is an
// exact byte comparison of the canonical fingerprint serialization; any
// difference, including key order, is a miss.
type ArtifactCache struct {
	calculator *ChecksumCalculator
	logger     *slog.Logger
}

// CacheOption configures an ArtifactCache.
type CacheOption func(*ArtifactCache)

// WithCacheLogger sets the logger used for hit/miss events.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(c *ArtifactCache) { c.logger = l }
}

// NewArtifactCache creates a cache around the given calculator.
func NewArtifactCache(calculator *ChecksumCalculator, opts ...CacheOption) *ArtifactCache {
	c := &ArtifactCache{calculator: calculator, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup computes the current fingerprint of sourcePath and compares it
// against the sidecar stored under cacheDirectory for keyName. keyName
// defaults to the source file's base name without extension. artifactExt is
// the extension of the cached artifact (e.g. ".pdf").
func (c *ArtifactCache) Lookup(sourcePath, baseDirectory, cacheDirectory, keyName, artifactExt string) (*CacheEntry, error) {
	fp, err := c.calculator.ComputeFingerprint(sourcePath, baseDirectory)
	if err != nil {
		return nil, err
	}
	entry := &CacheEntry{Fingerprint: fp.String()}

	if keyName == "" {
		keyName = cacheKeyFor(sourcePath)
	}
	artifact := filepath.Join(cacheDirectory, keyName+artifactExt)
	sidecar := filepath.Join(cacheDirectory, keyName+FingerprintExtension)

	if !fileutil.FileExists(artifact) || !fileutil.FileExists(sidecar) {
		c.logger.Debug("cache miss", "source", sourcePath, "reason", "absent")
		return entry, nil
	}

	stored, err := os.ReadFile(sidecar) // #nosec G304 -- path built from configured cache dir
	if err != nil {
		c.logger.Debug("cache miss", "source", sourcePath, "reason", "unreadable sidecar")
		return entry, nil
	}
	if string(stored) != entry.Fingerprint {
		c.logger.Debug("cache miss", "source", sourcePath, "reason", "fingerprint mismatch")
		return entry, nil
	}

	entry.FullyCached = true
	entry.CachedArtifactPath = artifact
	entry.CachedFingerprintPath = sidecar
	c.logger.Debug("cache hit", "source", sourcePath, "artifact", artifact)
	return entry, nil
}

// Restore copies a fully cached artifact and its sidecar into the working
// output locations, creating directories as needed.
func (c *ArtifactCache) Restore(entry *CacheEntry, artifactPath, sidecarPath string) error {
	if err := fileutil.CopyFile(entry.CachedArtifactPath, artifactPath); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheRestore, err)
	}
	if err := fileutil.CopyFile(entry.CachedFingerprintPath, sidecarPath); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheRestore, err)
	}
	return nil
}

// Store copies a freshly built artifact and its sidecar into the cache
// directory under keyName, so later builds of identical content hit.
func (c *ArtifactCache) Store(cacheDirectory, keyName, artifactPath, sidecarPath string) error {
	ext := filepath.Ext(artifactPath)
	if err := fileutil.CopyFile(artifactPath, filepath.Join(cacheDirectory, keyName+ext)); err != nil {
		return err
	}
	return fileutil.CopyFile(sidecarPath, filepath.Join(cacheDirectory, keyName+FingerprintExtension))
}

// cacheKeyFor returns the default cache key: the base name without extension.
func cacheKeyFor(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
