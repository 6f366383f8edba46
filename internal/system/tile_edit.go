package system

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	"github.com/wispgrid/chunkstream/internal/telemetry"
)

var (
	ErrChunkNotLoaded  = errors.New("chunk not loaded")
	ErrNotMaterialized = errors.New("chunk has no tiles")
	ErrNotTile         = errors.New("entity is not a tile")
)

// TileEditor changes tiles of materialized chunks. Changes go through the
// tile store so renderers get a TileChanged event on the next tick.
type TileEditor struct {
	chunks  *Chunks
	stores  *component.Stores
	metrics *telemetry.Metrics
	log     *zap.Logger
}

func NewTileEditor(chunks *Chunks, stores *component.Stores, metrics *telemetry.Metrics, log *zap.Logger) *TileEditor {
	return &TileEditor{chunks: chunks, stores: stores, metrics: metrics, log: log}
}

// TileAt resolves a world position to its tile entity.
func (e *TileEditor) TileAt(pos mgl32.Vec3) (ecs.EntityID, error) {
	coord, x, y := e.chunks.Layout().LocalTile(pos)
	chunk, ok := e.chunks.At(coord)
	if !ok {
		return 0, ErrChunkNotLoaded
	}
	tm, ok := e.stores.Tilemap.Get(chunk)
	if !ok {
		return 0, ErrNotMaterialized
	}
	tid, ok := tm.At(x, y)
	if !ok {
		return 0, ErrNotMaterialized
	}
	return tid, nil
}

// BreakAt turns the wall at a world position into ground.
func (e *TileEditor) BreakAt(pos mgl32.Vec3) (bool, error) {
	tid, err := e.TileAt(pos)
	if err != nil {
		return false, err
	}
	return e.BreakTile(tid)
}

// BreakTile turns a wall tile into ground and reports whether anything changed.
// Terrain is kept.
func (e *TileEditor) BreakTile(id ecs.EntityID) (bool, error) {
	t, ok := e.stores.Tile.Get(id)
	if !ok {
		return false, ErrNotTile
	}
	if t.Type != component.TileWall {
		return false, nil
	}
	next := *t
	next.Type = component.TileGround
	e.stores.Tile.Insert(id, next)
	e.metrics.TilesBroken.Inc()
	e.log.Debug("tile broken", zap.Stringer("tile", id), zap.Int("x", next.Pos.X), zap.Int("y", next.Pos.Y))
	return true, nil
}

// SetTerrain changes a tile's surface. Its type is kept.
func (e *TileEditor) SetTerrain(id ecs.EntityID, terrain component.TerrainType) (bool, error) {
	t, ok := e.stores.Tile.Get(id)
	if !ok {
		return false, ErrNotTile
	}
	if t.Terrain == terrain {
		return false, nil
	}
	next := *t
	next.Terrain = terrain
	e.stores.Tile.Insert(id, next)
	return true, nil
}
