package terrain

import (
	"github.com/aquilax/go-perlin"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/world"
)

const (
	noiseAlpha   = 2.0 // smoothing
	noiseBeta    = 2.0 // frequency
	noiseOctaves = int32(3)
)

// Noise carves walls out of 2D Perlin noise sampled in world tile space, so
// caves run across chunk borders. Each layer gets its own offset. Terrain is
// chosen per chunk from the chunk seed and varied per tile by a second noise.
type Noise struct {
	seed    int64
	scale   float64
	cutoff  float64
	tiles   [2]int
	walls   *perlin.Perlin
	surface *perlin.Perlin
}

func NewNoise(seed int64, scale, cutoff float64, tilesPerChunk [2]int) *Noise {
	if scale <= 0 {
		scale = 0.08
	}
	return &Noise{
		seed:    seed,
		scale:   scale,
		cutoff:  cutoff,
		tiles:   tilesPerChunk,
		walls:   perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		surface: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed+1),
	}
}

// Sample returns the wall noise at a world tile position, in [0, 1].
func (n *Noise) Sample(wx, wy float64, layer int32) float64 {
	off := float64(layer) * 1024.5
	v := n.walls.Noise2D(wx*n.scale+off, wy*n.scale+off)
	return (v + 1.0) / 2.0
}

func (n *Noise) Generate(pos component.TilePos, coord world.ChunkCoord) (component.TileType, component.TerrainType) {
	wx := float64(int64(coord.X)*int64(n.tiles[0]) + int64(pos.X))
	wy := float64(int64(coord.Y)*int64(n.tiles[1]) + int64(pos.Y))

	tileType := component.TileGround
	if n.Sample(wx, wy, coord.Layer) > n.cutoff {
		tileType = component.TileWall
	}

	base := uint64(ChunkSeed(n.seed, coord)) % 4
	s := (n.surface.Noise2D(wx*n.scale*2, wy*n.scale*2) + 1.0) / 2.0
	shift := uint64(0)
	if s > 0.6 {
		shift = 1
	}
	terrain := component.TerrainType((base + shift) % 4)
	if tileType == component.TileWall {
		terrain = component.TerrainStone
	}
	return tileType, terrain
}
