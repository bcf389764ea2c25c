package service

import "sync"

// CachedVector pairs a chunk id with its stored embedding for bulk loads.
type CachedVector struct {
	ChunkID    string
	DocumentID string
	Embedding  []float32
}

// VectorCache is the in-process embedding cache consulted during search.
// It is a pure performance layer: the chunk repository remains the source
// of truth, and a search must fall back to it on a miss. Implementations
// must make Put atomic per chunk id so concurrent readers never observe a
// partially written vector.
type VectorCache interface {
	Get(chunkID string) ([]float32, bool)
	Put(chunkID, documentID string, embedding []float32)
	Load(entries []CachedVector)
	RemoveDocument(documentID string)
	Len() int
}

// MemoryVectorCache is a mutex-guarded map from chunk id to embedding,
// shared read-mostly across requests in the process.
type MemoryVectorCache struct {
	mu      sync.RWMutex
	vectors map[string][]float32
	byDoc   map[string]map[string]struct{}
}

// NewMemoryVectorCache creates an empty MemoryVectorCache.
func NewMemoryVectorCache() *MemoryVectorCache {
	return &MemoryVectorCache{
		vectors: make(map[string][]float32),
		byDoc:   make(map[string]map[string]struct{}),
	}
}

// Get returns the cached embedding for a chunk id, if present.
func (c *MemoryVectorCache) Get(chunkID string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.vectors[chunkID]
	return vec, ok
}

// Put stores a copy of the embedding under the chunk id. Copying keeps the
// cached vector immutable from the caller's point of view, which is what
// makes lock-free reads of the returned slice safe.
func (c *MemoryVectorCache) Put(chunkID, documentID string, embedding []float32) {
	owned := make([]float32, len(embedding))
	copy(owned, embedding)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[chunkID] = owned
	if documentID != "" {
		if c.byDoc[documentID] == nil {
			c.byDoc[documentID] = make(map[string]struct{})
		}
		c.byDoc[documentID][chunkID] = struct{}{}
	}
}

// Load bulk-populates the cache, typically from persisted chunks at startup.
func (c *MemoryVectorCache) Load(entries []CachedVector) {
	for _, e := range entries {
		c.Put(e.ChunkID, e.DocumentID, e.Embedding)
	}
}

// RemoveDocument drops all cached vectors belonging to a document. Called
// before a reindex replaces the document's chunk set so stale vectors never
// outlive their rows.
func (c *MemoryVectorCache) RemoveDocument(documentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for chunkID := range c.byDoc[documentID] {
		delete(c.vectors, chunkID)
	}
	delete(c.byDoc, documentID)
}

// Len returns the number of cached vectors.
func (c *MemoryVectorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
