package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	"github.com/wispgrid/chunkstream/internal/core/event"
	"github.com/wispgrid/chunkstream/internal/telemetry"
	"github.com/wispgrid/chunkstream/internal/terrain"
	"github.com/wispgrid/chunkstream/internal/world"
)

// TilemapBuilder gives a chunk its tiles the first time it reaches full detail.
type TilemapBuilder struct {
	world   *ecs.World
	stores  *component.Stores
	layout  world.Layout
	gen     terrain.Generator
	bus     *event.Bus
	metrics *telemetry.Metrics
	log     *zap.Logger
}

func NewTilemapBuilder(w *ecs.World, stores *component.Stores, layout world.Layout, gen terrain.Generator,
	bus *event.Bus, metrics *telemetry.Metrics, log *zap.Logger) *TilemapBuilder {
	return &TilemapBuilder{
		world:   w,
		stores:  stores,
		layout:  layout,
		gen:     gen,
		bus:     bus,
		metrics: metrics,
		log:     log,
	}
}

// Materialize spawns the chunk's tile grid. It does nothing unless the chunk is
// at full detail and has no tiles yet, so repeated calls build at most once.
func (b *TilemapBuilder) Materialize(id ecs.EntityID) {
	level, ok := b.stores.LoadLevel.Get(id)
	if !ok || *level != component.LevelFull {
		return
	}
	if b.hasTiles(id) {
		return
	}
	pos, ok := b.stores.ChunkPos.Get(id)
	if !ok {
		b.log.Warn("materialize chunk without position", zap.Stringer("entity", id))
		return
	}
	coord := pos.Coord

	w, h := b.layout.TilesPerChunk[0], b.layout.TilesPerChunk[1]
	size := b.layout.TileSize()
	tiles := make([]ecs.EntityID, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tp := component.TilePos{X: x, Y: y}
			tileType, terrainType := b.gen.Generate(tp, coord)

			tid := b.world.Spawn()
			b.stores.Tile.Insert(tid, component.Tile{Pos: tp, Type: tileType, Terrain: terrainType})
			b.stores.Transform.Insert(tid, component.Transform{
				Translation: mgl32.Vec3{float32(x) * size.X(), float32(y) * size.Y(), 0},
			})
			b.world.AddChild(id, tid)
			tiles[b.layout.TileIndex(x, y)] = tid
		}
	}

	b.stores.Tilemap.Insert(id, component.Tilemap{Width: w, Height: h, Tiles: tiles})
	b.metrics.TilesMaterialized.Add(float64(len(tiles)))
	event.Emit(b.bus, event.TilemapBuilt{Chunk: id, Coord: coord, Tiles: len(tiles)})
}

func (b *TilemapBuilder) hasTiles(id ecs.EntityID) bool {
	if b.stores.Tilemap.Has(id) {
		return true
	}
	for _, kid := range b.world.Children(id) {
		if b.stores.Tile.Has(kid) {
			return true
		}
	}
	return false
}
