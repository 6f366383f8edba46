// Package terrain decides the content of each tile when a chunk materializes.
package terrain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/config"
	"github.com/wispgrid/chunkstream/internal/scripting"
	"github.com/wispgrid/chunkstream/internal/world"
)

// Generator produces the tile and terrain type of one tile. Implementations
// must be deterministic in (pos, coord) so a chunk regenerates identically.
type Generator interface {
	Generate(pos component.TilePos, coord world.ChunkCoord) (component.TileType, component.TerrainType)
}

// Flat makes every tile the same.
type Flat struct {
	Type    component.TileType
	Terrain component.TerrainType
}

func (f Flat) Generate(component.TilePos, world.ChunkCoord) (component.TileType, component.TerrainType) {
	return f.Type, f.Terrain
}

// FromConfig builds the generator named in cfg. A script generator owns a Lua
// VM; callers release it with Close when the returned value implements io.Closer.
func FromConfig(cfg config.TerrainConfig, layout world.Layout, log *zap.Logger) (Generator, error) {
	switch cfg.Generator {
	case "flat":
		return Flat{Type: component.TileWall, Terrain: component.TerrainStone}, nil
	case "noise":
		return NewNoise(cfg.Seed, cfg.NoiseScale, cfg.WallCutoff, layout.TilesPerChunk), nil
	case "script":
		eng, err := scripting.NewEngine(cfg.ScriptsDir, log)
		if err != nil {
			return nil, fmt.Errorf("terrain script: %w", err)
		}
		return NewScript(eng, cfg.Seed, log), nil
	}
	return nil, fmt.Errorf("unknown terrain generator %q", cfg.Generator)
}
