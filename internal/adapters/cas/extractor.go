package cas

import (
	"go.trai.ch/modloader/internal/core/ports"
)

var _ ports.Extractor = (*CachingExtractor)(nil)

// CachingExtractor serves dependency names from a NeededStore while the file
// content is unchanged and delegates to the wrapped Extractor otherwise.
type CachingExtractor struct {
	next   ports.Extractor
	hasher ports.Hasher
	store  ports.NeededStore
	logger ports.Logger
}

// NewCachingExtractor wraps next with a content-fingerprinted cache.
func NewCachingExtractor(next ports.Extractor, hasher ports.Hasher, store ports.NeededStore, logger ports.Logger) *CachingExtractor {
	return &CachingExtractor{next: next, hasher: hasher, store: store, logger: logger}
}

// Needed returns the DT_NEEDED names of path.
func (c *CachingExtractor) Needed(path string) ([]string, error) {
	fingerprint, err := c.hasher.ComputeFileHash(path)
	if err != nil {
		// The extractor reports the same failure with its proper kind.
		return c.next.Needed(path)
	}

	if names, ok := c.store.Get(path, fingerprint); ok {
		return names, nil
	}

	names, err := c.next.Needed(path)
	if err != nil {
		return nil, err
	}

	// The names only belong to fingerprint if the file did not change while
	// it was being parsed.
	after, err := c.hasher.ComputeFileHash(path)
	if err != nil || after != fingerprint {
		c.logger.Debug("shared object changed during extraction, not caching", "path", path)
		return names, nil
	}

	if err := c.store.Put(path, fingerprint, names); err != nil {
		c.logger.Warn("failed to update dependency cache", "path", path, "error", err)
	}
	return names, nil
}
