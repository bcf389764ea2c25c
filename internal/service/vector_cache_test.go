package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryVectorCache_PutGet(t *testing.T) {
	cache := NewMemoryVectorCache()

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Put("chunk-1", "doc-1", []float32{0.1, 0.2, 0.3})

	vec, ok := cache.Get("chunk-1")
	require.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, 1, cache.Len())
}

func TestMemoryVectorCache_PutCopiesInput(t *testing.T) {
	cache := NewMemoryVectorCache()

	src := []float32{1, 2, 3}
	cache.Put("chunk-1", "doc-1", src)
	src[0] = 99

	vec, ok := cache.Get("chunk-1")
	require.True(t, ok)
	assert.Equal(t, float32(1), vec[0], "cached vector must not alias the caller's slice")
}

func TestMemoryVectorCache_OverwriteSameChunk(t *testing.T) {
	cache := NewMemoryVectorCache()

	cache.Put("chunk-1", "doc-1", []float32{1})
	cache.Put("chunk-1", "doc-1", []float32{2})

	vec, ok := cache.Get("chunk-1")
	require.True(t, ok)
	assert.Equal(t, []float32{2}, vec)
	assert.Equal(t, 1, cache.Len())
}

func TestMemoryVectorCache_RemoveDocument(t *testing.T) {
	cache := NewMemoryVectorCache()

	cache.Put("chunk-1", "doc-1", []float32{1})
	cache.Put("chunk-2", "doc-1", []float32{2})
	cache.Put("chunk-3", "doc-2", []float32{3})
	require.Equal(t, 3, cache.Len())

	cache.RemoveDocument("doc-1")

	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get("chunk-1")
	assert.False(t, ok)
	_, ok = cache.Get("chunk-2")
	assert.False(t, ok)
	_, ok = cache.Get("chunk-3")
	assert.True(t, ok, "other documents' vectors must survive")
}

func TestMemoryVectorCache_RemoveUnknownDocument(t *testing.T) {
	cache := NewMemoryVectorCache()
	cache.Put("chunk-1", "doc-1", []float32{1})

	cache.RemoveDocument("doc-unknown")

	assert.Equal(t, 1, cache.Len())
}

func TestMemoryVectorCache_Load(t *testing.T) {
	cache := NewMemoryVectorCache()

	cache.Load([]CachedVector{
		{ChunkID: "chunk-1", DocumentID: "doc-1", Embedding: []float32{1}},
		{ChunkID: "chunk-2", DocumentID: "doc-1", Embedding: []float32{2}},
		{ChunkID: "chunk-3", DocumentID: "doc-2", Embedding: []float32{3}},
	})

	assert.Equal(t, 3, cache.Len())

	// Bulk-loaded entries keep their document association.
	cache.RemoveDocument("doc-1")
	assert.Equal(t, 1, cache.Len())
}
