package analyzer

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingExtractor memoizes another Extractor. Entries are keyed by file path
// and content digest, so an edited file is re-extracted and an unchanged one
// is served from memory across Analyze calls.
type CachingExtractor struct {
	next  Extractor
	cache *lru.Cache[string, *FileFacts]
}

// NewCachingExtractor wraps next with an LRU of the given size.
func NewCachingExtractor(next Extractor, size int) (*CachingExtractor, error) {
	cache, err := lru.New[string, *FileFacts](size)
	if err != nil {
		return nil, err
	}
	return &CachingExtractor{next: next, cache: cache}, nil
}

// Extract implements Extractor.
func (c *CachingExtractor) Extract(filePath string, src []byte) (*FileFacts, error) {
	sum := sha256.Sum256(src)
	key := filePath + "\x00" + hex.EncodeToString(sum[:])

	if facts, ok := c.cache.Get(key); ok {
		return facts, nil
	}
	facts, err := c.next.Extract(filePath, src)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, facts)
	return facts, nil
}

// Len returns the number of cached entries.
func (c *CachingExtractor) Len() int {
	return c.cache.Len()
}
