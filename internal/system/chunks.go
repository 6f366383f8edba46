package system

import (
	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	"github.com/wispgrid/chunkstream/internal/world"
)

// Chunks resolves chunk coordinates to entities and carries the chunk
// commands. It never writes the index itself: every command goes through the
// component stores and the lifecycle hooks keep the index in step.
type Chunks struct {
	world  *ecs.World
	stores *component.Stores
	lookup world.ChunkLookup
	layout world.Layout
}

func NewChunks(w *ecs.World, stores *component.Stores, lookup world.ChunkLookup, layout world.Layout) *Chunks {
	return &Chunks{world: w, stores: stores, lookup: lookup, layout: layout}
}

func (c *Chunks) Layout() world.Layout { return c.layout }

// At returns the chunk entity loaded at coord.
func (c *Chunks) At(coord world.ChunkCoord) (ecs.EntityID, bool) {
	return c.lookup.Get(coord)
}

// Level returns the load level of a chunk entity.
func (c *Chunks) Level(id ecs.EntityID) (component.LoadLevel, bool) {
	l, ok := c.stores.LoadLevel.Get(id)
	if !ok {
		return 0, false
	}
	return *l, true
}

// Spawn creates a chunk at coord. The position goes in first so the transform
// and index hooks can read it; the level goes in last so the materialization
// gate sees a fully indexed chunk. If coord is already loaded nothing is
// spawned and the existing chunk is returned with false.
func (c *Chunks) Spawn(coord world.ChunkCoord, level component.LoadLevel) (ecs.EntityID, bool) {
	if id, ok := c.lookup.Get(coord); ok {
		return id, false
	}
	id := c.world.Spawn()
	c.stores.ChunkPos.Insert(id, component.ChunkPos{Coord: coord})
	c.stores.Chunk.Insert(id, component.Chunk{})
	c.stores.LoadLevel.Insert(id, level)
	return id, true
}

// Raise lifts a chunk's level. Levels never go down: a request at or below
// the current level is ignored and reports false.
func (c *Chunks) Raise(id ecs.EntityID, level component.LoadLevel) bool {
	cur, ok := c.stores.LoadLevel.Get(id)
	if !ok || level <= *cur {
		return false
	}
	c.stores.LoadLevel.Insert(id, level)
	return true
}

// Despawn removes the chunk at coord and all its tiles immediately.
func (c *Chunks) Despawn(coord world.ChunkCoord) bool {
	id, ok := c.lookup.Get(coord)
	if !ok {
		return false
	}
	c.world.Despawn(id)
	return true
}

// MarkDespawn queues the chunk at coord for removal at the end of the tick.
func (c *Chunks) MarkDespawn(coord world.ChunkCoord) bool {
	id, ok := c.lookup.Get(coord)
	if !ok {
		return false
	}
	c.world.MarkForDestruction(id)
	return true
}
