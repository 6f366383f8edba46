package terrain

import (
	"go.uber.org/zap"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/scripting"
	"github.com/wispgrid/chunkstream/internal/world"
)

// Script delegates tile generation to the Lua generate_tile function.
type Script struct {
	engine *scripting.Engine
	seed   int64
	log    *zap.Logger
}

func NewScript(engine *scripting.Engine, seed int64, log *zap.Logger) *Script {
	return &Script{engine: engine, seed: seed, log: log}
}

func (s *Script) Generate(pos component.TilePos, coord world.ChunkCoord) (component.TileType, component.TerrainType) {
	res := s.engine.GenerateTile(scripting.TileContext{
		X:      pos.X,
		Y:      pos.Y,
		ChunkX: coord.X,
		ChunkY: coord.Y,
		Layer:  coord.Layer,
		Seed:   ChunkSeed(s.seed, coord),
	})

	tileType := component.TileWall
	switch res.Type {
	case "ground":
		tileType = component.TileGround
	case "wall":
	default:
		s.log.Warn("unknown tile type from script, using wall",
			zap.String("type", res.Type), zap.Stringer("coord", coord))
	}

	terrain, ok := component.ParseTerrain(res.Terrain)
	if !ok {
		s.log.Warn("unknown terrain from script, using stone",
			zap.String("terrain", res.Terrain), zap.Stringer("coord", coord))
		terrain = component.TerrainStone
	}
	return tileType, terrain
}

// Close releases the Lua VM.
func (s *Script) Close() error {
	s.engine.Close()
	return nil
}
