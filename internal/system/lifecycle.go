package system

import (
	"go.uber.org/zap"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	"github.com/wispgrid/chunkstream/internal/core/event"
	"github.com/wispgrid/chunkstream/internal/telemetry"
	"github.com/wispgrid/chunkstream/internal/world"
)

// Materializer builds the tile content of a chunk that reached full detail.
type Materializer interface {
	Materialize(id ecs.EntityID)
}

// ChunkHooks keeps chunk positions, transforms and the chunk index
// consistent. It is the only writer of the index.
type ChunkHooks struct {
	world     *ecs.World
	stores    *component.Stores
	index     *world.ChunkIndex
	layout    world.Layout
	bus       *event.Bus
	gate      Materializer
	metrics   *telemetry.Metrics
	log       *zap.Logger
	chunkInfo bool
}

// RegisterChunkHooks installs the chunk lifecycle hooks on the stores.
// Call once per world, before any chunk is spawned.
func RegisterChunkHooks(w *ecs.World, stores *component.Stores, index *world.ChunkIndex, layout world.Layout,
	bus *event.Bus, gate Materializer, metrics *telemetry.Metrics, log *zap.Logger, chunkInfo bool) *ChunkHooks {
	h := &ChunkHooks{
		world:     w,
		stores:    stores,
		index:     index,
		layout:    layout,
		bus:       bus,
		gate:      gate,
		metrics:   metrics,
		log:       log,
		chunkInfo: chunkInfo,
	}

	stores.ChunkPos.OnInsert(h.onPosInsert)
	stores.ChunkPos.OnReplace(h.onPosReplace)
	stores.Chunk.OnAdd(h.onChunkAdd)
	stores.Chunk.OnRemove(h.onChunkRemove)
	stores.LoadLevel.OnAdd(h.onLevelAdd)
	stores.LoadLevel.OnReplace(h.onLevelReplace)
	stores.LoadLevel.OnInsert(h.onLevelInsert)
	stores.Tile.OnReplace(h.onTileReplace)
	return h
}

// ── position ──

func (h *ChunkHooks) onPosInsert(id ecs.EntityID, p *component.ChunkPos) {
	h.stores.Transform.Insert(id, component.Transform{Translation: h.layout.ChunkOrigin(p.Coord)})
	// a chunk that moved is re-indexed under its new coordinate
	if h.stores.Chunk.Has(id) {
		h.indexInsert(id, p.Coord)
	}
}

func (h *ChunkHooks) onPosReplace(id ecs.EntityID, prev, next *component.ChunkPos) {
	if prev.Coord == next.Coord || !h.stores.Chunk.Has(id) {
		return
	}
	h.indexRemove(id, prev.Coord)
}

// ── chunk marker ──

func (h *ChunkHooks) onChunkAdd(id ecs.EntityID, _ *component.Chunk) {
	p, ok := h.stores.ChunkPos.Get(id)
	if !ok {
		h.log.Warn("chunk added without position", zap.Stringer("entity", id))
		return
	}
	h.indexInsert(id, p.Coord)
}

func (h *ChunkHooks) onChunkRemove(id ecs.EntityID, _ *component.Chunk) {
	p, ok := h.stores.ChunkPos.Get(id)
	if !ok {
		h.log.Warn("chunk removed without position", zap.Stringer("entity", id))
		return
	}
	if h.indexRemove(id, p.Coord) {
		h.metrics.ChunksDespawned.Inc()
		event.Emit(h.bus, event.ChunkDespawned{Chunk: id, Coord: p.Coord})
	}
}

func (h *ChunkHooks) indexInsert(id ecs.EntityID, coord world.ChunkCoord) {
	prev, had := h.index.Insert(coord, id)
	if had && prev != id {
		h.metrics.IndexCollisions.Inc()
		h.log.Warn("pushed out chunk",
			zap.Stringer("coord", coord),
			zap.Stringer("previous", prev),
			zap.Stringer("entity", id))
	}
	h.metrics.ChunksLoaded.Set(float64(h.index.Len()))
}

// indexRemove drops coord from the index if it still points at id. An entry
// owned by another entity is left alone.
func (h *ChunkHooks) indexRemove(id ecs.EntityID, coord world.ChunkCoord) bool {
	cur, ok := h.index.Get(coord)
	if !ok || cur != id {
		h.metrics.IndexMisses.Inc()
		h.log.Warn("no chunk to remove",
			zap.Stringer("coord", coord),
			zap.Stringer("entity", id))
		return false
	}
	h.index.Remove(coord)
	h.metrics.ChunksLoaded.Set(float64(h.index.Len()))
	return true
}

// ── load level ──

func (h *ChunkHooks) onLevelAdd(id ecs.EntityID, l *component.LoadLevel) {
	p, ok := h.stores.ChunkPos.Get(id)
	if !ok {
		h.log.Warn("load level on entity without position", zap.Stringer("entity", id))
		return
	}
	h.metrics.ChunksSpawned.Inc()
	event.Emit(h.bus, event.ChunkSpawned{Chunk: id, Coord: p.Coord, Level: uint8(*l)})
	if h.chunkInfo {
		h.log.Debug("chunk spawned",
			zap.Stringer("entity", id),
			zap.Stringer("level", *l),
			zap.Stringer("coord", p.Coord))
	}
}

func (h *ChunkHooks) onLevelReplace(id ecs.EntityID, prev, next *component.LoadLevel) {
	if *prev == *next {
		return
	}
	p, ok := h.stores.ChunkPos.Get(id)
	if !ok {
		return
	}
	if *next < *prev {
		h.log.Warn("load level lowered",
			zap.Stringer("coord", p.Coord),
			zap.Stringer("from", *prev),
			zap.Stringer("to", *next))
	} else {
		h.metrics.ChunksUpgraded.WithLabelValues(next.String()).Inc()
	}
	event.Emit(h.bus, event.ChunkLevelChanged{Chunk: id, Coord: p.Coord, From: uint8(*prev), To: uint8(*next)})
}

func (h *ChunkHooks) onLevelInsert(id ecs.EntityID, l *component.LoadLevel) {
	if *l != component.LevelFull || h.gate == nil {
		return
	}
	h.gate.Materialize(id)
}

// ── tiles ──

func (h *ChunkHooks) onTileReplace(id ecs.EntityID, prev, next *component.Tile) {
	if prev.Type == next.Type && prev.Terrain == next.Terrain {
		return
	}
	ev := event.TileChanged{
		Tile:        id,
		X:           next.Pos.X,
		Y:           next.Pos.Y,
		FromType:    uint8(prev.Type),
		ToType:      uint8(next.Type),
		FromTerrain: uint8(prev.Terrain),
		ToTerrain:   uint8(next.Terrain),
	}
	if parent, ok := h.world.Parent(id); ok {
		ev.Chunk = parent
		if p, ok := h.stores.ChunkPos.Get(parent); ok {
			ev.Coord = p.Coord
		}
	}
	event.Emit(h.bus, ev)
}
