package tiledbutil

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// ChunkKey identifies one cached block-array chunk.
type ChunkKey struct {
	ArrayURI             string
	XChunk, YChunk, ZChunk int
}

// ChunkCache is a bounded LRU cache of decoded data-value chunks, avoiding a
// TileDB re-read for every query point that falls in an already-fetched
// chunk during a dense query sweep.
type ChunkCache struct {
	cache *lru.Cache[ChunkKey, [][]float32]
}

// NewChunkCache builds a cache holding up to size chunks.
func NewChunkCache(size int) (*ChunkCache, error) {
	c, err := lru.New[ChunkKey, [][]float32](size)
	if err != nil {
		return nil, err
	}
	return &ChunkCache{cache: c}, nil
}

// Get returns a cached chunk's rows (one []float32 of data values per
// point), if present.
func (c *ChunkCache) Get(key ChunkKey) ([][]float32, bool) {
	return c.cache.Get(key)
}

// Put stores a chunk's decoded rows.
func (c *ChunkCache) Put(key ChunkKey, rows [][]float32) {
	c.cache.Add(key, rows)
}

// Purge empties the cache, used when a model's underlying array is
// rewritten mid-session.
func (c *ChunkCache) Purge() {
	c.cache.Purge()
}
