package component

import (
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	"github.com/wispgrid/chunkstream/internal/world"
)

// Chunk marks an entity as a streamed chunk. Adding and removing it is what
// puts a chunk in and out of the index.
type Chunk struct{}

// ChunkPos is the grid coordinate of a chunk.
type ChunkPos struct {
	Coord world.ChunkCoord
}

// LoadLevel is a chunk's level of detail. Levels only go up while a chunk lives.
type LoadLevel uint8

const (
	LevelMinimum LoadLevel = iota
	LevelMostly
	LevelFull
)

func (l LoadLevel) String() string {
	switch l {
	case LevelMinimum:
		return "minimum"
	case LevelMostly:
		return "mostly"
	case LevelFull:
		return "full"
	}
	return "unknown"
}

// LevelForTier maps a loader ring tier (0 = innermost) to its level.
func LevelForTier(tier int) LoadLevel {
	switch tier {
	case 0:
		return LevelFull
	case 1:
		return LevelMostly
	}
	return LevelMinimum
}

// Tilemap is the tile storage of a materialized chunk, row-major by Y.
type Tilemap struct {
	Width  int
	Height int
	Tiles  []ecs.EntityID
}

// At returns the tile entity at local (x, y).
func (m *Tilemap) At(x, y int) (ecs.EntityID, bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0, false
	}
	id := m.Tiles[y*m.Width+x]
	return id, !id.IsZero()
}
