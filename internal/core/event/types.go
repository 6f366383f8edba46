package event

import (
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	"github.com/wispgrid/chunkstream/internal/world"
)

// Chunk lifecycle notifications. Emitted synchronously by the chunk hooks,
// delivered to subscribers on the following tick.

type ChunkSpawned struct {
	Chunk ecs.EntityID
	Coord world.ChunkCoord
	Level uint8
}

type ChunkLevelChanged struct {
	Chunk ecs.EntityID
	Coord world.ChunkCoord
	From  uint8
	To    uint8
}

type ChunkDespawned struct {
	Chunk ecs.EntityID
	Coord world.ChunkCoord
}

type TilemapBuilt struct {
	Chunk ecs.EntityID
	Coord world.ChunkCoord
	Tiles int
}

// TileChanged fires when a tile's type or terrain changes after creation, so a
// renderer can re-sync the tile texture.
type TileChanged struct {
	Tile        ecs.EntityID
	Chunk       ecs.EntityID
	Coord       world.ChunkCoord
	X, Y        int
	FromType    uint8
	ToType      uint8
	FromTerrain uint8
	ToTerrain   uint8
}
