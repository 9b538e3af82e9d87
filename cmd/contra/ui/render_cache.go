package ui

import (
	"hash/fnv"
	"math"
	"sync"
)

// RenderCache caches rendered widget output keyed by a content hash, so
// View() calls do not rebuild charts and markdown on every frame.
type RenderCache struct {
	cache   sync.Map
	maxSize int
	size    int
	mu      sync.Mutex
}

// NewRenderCache creates a cache bounded to maxSize entries.
func NewRenderCache(maxSize int) *RenderCache {
	return &RenderCache{maxSize: maxSize}
}

// Key hashes the inputs into a cache key. Supported types are limited to
// what the widgets actually pass.
func Key(inputs ...any) uint64 {
	h := fnv.New64a()
	var b [8]byte
	for _, input := range inputs {
		switch v := input.(type) {
		case string:
			h.Write([]byte(v))
		case int:
			writeUint64(h.Write, b[:], uint64(v))
		case float64:
			writeUint64(h.Write, b[:], math.Float64bits(v))
		case bool:
			if v {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return h.Sum64()
}

func writeUint64(write func([]byte) (int, error), b []byte, u uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
	write(b[:8])
}

// GetOrCompute returns the cached content for key, computing and storing it
// on a miss. When the cache is full, new entries are computed but not
// stored.
func (rc *RenderCache) GetOrCompute(key uint64, compute func() string) string {
	if val, ok := rc.cache.Load(key); ok {
		return val.(string)
	}
	content := compute()
	rc.mu.Lock()
	if rc.size < rc.maxSize {
		if _, loaded := rc.cache.LoadOrStore(key, content); !loaded {
			rc.size++
		}
	}
	rc.mu.Unlock()
	return content
}

// Invalidate drops all cached entries.
func (rc *RenderCache) Invalidate() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.cache.Range(func(k, _ any) bool {
		rc.cache.Delete(k)
		return true
	})
	rc.size = 0
}
