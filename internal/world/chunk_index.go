package world

import (
	"slices"

	"github.com/wispgrid/chunkstream/internal/core/ecs"
)

// ChunkLookup is the read side of the chunk index. The streaming scheduler and
// tile editor only ever see this view; lifecycle hooks own the writes.
type ChunkLookup interface {
	Get(c ChunkCoord) (ecs.EntityID, bool)
	IsLoaded(c ChunkCoord) bool
}

// ChunkIndex maps chunk coordinates to the entity holding that chunk.
// Layers are created on first insert and dropped once empty.
type ChunkIndex struct {
	layers map[int32]map[Point]ecs.EntityID
	count  int
}

func NewChunkIndex() *ChunkIndex {
	return &ChunkIndex{
		layers: make(map[int32]map[Point]ecs.EntityID),
	}
}

func (ix *ChunkIndex) Get(c ChunkCoord) (ecs.EntityID, bool) {
	layer, ok := ix.layers[c.Layer]
	if !ok {
		return 0, false
	}
	id, ok := layer[c.Plane()]
	return id, ok
}

func (ix *ChunkIndex) IsLoaded(c ChunkCoord) bool {
	_, ok := ix.Get(c)
	return ok
}

// Insert stores id at c and returns the entity it displaced, if any.
func (ix *ChunkIndex) Insert(c ChunkCoord, id ecs.EntityID) (ecs.EntityID, bool) {
	layer, ok := ix.layers[c.Layer]
	if !ok {
		layer = make(map[Point]ecs.EntityID)
		ix.layers[c.Layer] = layer
	}
	prev, had := layer[c.Plane()]
	layer[c.Plane()] = id
	if !had {
		ix.count++
	}
	return prev, had
}

// Remove clears c and returns the entity that was there, if any.
func (ix *ChunkIndex) Remove(c ChunkCoord) (ecs.EntityID, bool) {
	layer, ok := ix.layers[c.Layer]
	if !ok {
		return 0, false
	}
	prev, had := layer[c.Plane()]
	if !had {
		return 0, false
	}
	delete(layer, c.Plane())
	ix.count--
	if len(layer) == 0 {
		delete(ix.layers, c.Layer)
	}
	return prev, true
}

func (ix *ChunkIndex) Len() int { return ix.count }

// Layers returns the populated layer indices in ascending order.
func (ix *ChunkIndex) Layers() []int32 {
	out := make([]int32, 0, len(ix.layers))
	for l := range ix.layers {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Each visits every entry. Order is unspecified. Return false to stop.
func (ix *ChunkIndex) Each(fn func(c ChunkCoord, id ecs.EntityID) bool) {
	for l, layer := range ix.layers {
		for p, id := range layer {
			if !fn(p.On(l), id) {
				return
			}
		}
	}
}
