package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkCoord identifies one chunk: X/Y on the chunk grid plus a discrete layer.
type ChunkCoord struct {
	X     int32
	Y     int32
	Layer int32
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Layer)
}

// Plane drops the layer.
func (c ChunkCoord) Plane() Point { return Point{X: c.X, Y: c.Y} }

// Point is a position on a single layer's chunk grid.
type Point struct {
	X int32
	Y int32
}

// On lifts p onto a layer.
func (p Point) On(layer int32) ChunkCoord {
	return ChunkCoord{X: p.X, Y: p.Y, Layer: layer}
}

// Layout fixes the world-space geometry of chunks and tiles.
// Chunks are anchored at their bottom-left corner.
type Layout struct {
	ChunkSize     mgl32.Vec2
	TilesPerChunk [2]int
	// LayerDepth is the world z distance between two layers.
	LayerDepth float32
}

// DefaultLayout matches the 10x10 world-unit chunk with a 10x10 tile grid.
func DefaultLayout() Layout {
	return Layout{
		ChunkSize:     mgl32.Vec2{10, 10},
		TilesPerChunk: [2]int{10, 10},
		LayerDepth:    1,
	}
}

// ToChunkCoord floors a world position onto the chunk grid.
func (l Layout) ToChunkCoord(pos mgl32.Vec3) ChunkCoord {
	return ChunkCoord{
		X:     floorDiv(pos.X(), l.ChunkSize.X()),
		Y:     floorDiv(pos.Y(), l.ChunkSize.Y()),
		Layer: l.ToLayer(pos.Z()),
	}
}

// ToLayer maps a world z onto a layer index.
func (l Layout) ToLayer(z float32) int32 {
	depth := l.LayerDepth
	if depth <= 0 {
		depth = 1
	}
	return floorDiv(z, depth)
}

// ChunkOrigin is the world position of a chunk's bottom-left corner.
// Positions are float32, so ToChunkCoord(ChunkOrigin(c)) == c only holds
// while |c.X*ChunkSize.X|, |c.Y*ChunkSize.Y| and |c.Layer*LayerDepth| stay
// below 2^24.
func (l Layout) ChunkOrigin(c ChunkCoord) mgl32.Vec3 {
	depth := l.LayerDepth
	if depth <= 0 {
		depth = 1
	}
	return mgl32.Vec3{
		float32(float64(c.X) * float64(l.ChunkSize.X())),
		float32(float64(c.Y) * float64(l.ChunkSize.Y())),
		float32(float64(c.Layer) * float64(depth)),
	}
}

// TileSize is the world size of one tile.
func (l Layout) TileSize() mgl32.Vec2 {
	return mgl32.Vec2{
		l.ChunkSize.X() / float32(l.TilesPerChunk[0]),
		l.ChunkSize.Y() / float32(l.TilesPerChunk[1]),
	}
}

// TileCount is the number of tiles in a chunk.
func (l Layout) TileCount() int {
	return l.TilesPerChunk[0] * l.TilesPerChunk[1]
}

// TileIndex flattens a tile position, row-major by Y.
func (l Layout) TileIndex(x, y int) int {
	return y*l.TilesPerChunk[0] + x
}

// LocalTile returns the owning chunk of pos and the tile index inside it.
func (l Layout) LocalTile(pos mgl32.Vec3) (ChunkCoord, int, int) {
	c := l.ToChunkCoord(pos)
	origin := l.ChunkOrigin(c)
	ts := l.TileSize()
	x := int(math.Floor(float64(pos.X()-origin.X()) / float64(ts.X())))
	y := int(math.Floor(float64(pos.Y()-origin.Y()) / float64(ts.Y())))
	// float rounding at the far edge can land one past the grid
	x = clamp(x, 0, l.TilesPerChunk[0]-1)
	y = clamp(y, 0, l.TilesPerChunk[1]-1)
	return c, x, y
}

func floorDiv(v, size float32) int32 {
	return int32(math.Floor(float64(v) / float64(size)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
