package component

import "github.com/wispgrid/chunkstream/internal/core/ecs"

// Stores groups every component store of a world.
type Stores struct {
	Chunk     *ecs.Store[Chunk]
	ChunkPos  *ecs.Store[ChunkPos]
	LoadLevel *ecs.Store[LoadLevel]
	Tilemap   *ecs.Store[Tilemap]
	Tile      *ecs.Store[Tile]
	Transform *ecs.Store[Transform]
	Velocity  *ecs.Store[Velocity]
	Loader    *ecs.Store[ChunkLoader]
}

// NewStores registers all stores with w, so despawning an entity clears it
// from every one of them.
func NewStores(w *ecs.World) *Stores {
	return &Stores{
		Chunk:     ecs.Register[Chunk](w),
		ChunkPos:  ecs.Register[ChunkPos](w),
		LoadLevel: ecs.Register[LoadLevel](w),
		Tilemap:   ecs.Register[Tilemap](w),
		Tile:      ecs.Register[Tile](w),
		Transform: ecs.Register[Transform](w),
		Velocity:  ecs.Register[Velocity](w),
		Loader:    ecs.Register[ChunkLoader](w),
	}
}
