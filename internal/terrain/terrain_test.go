package terrain

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/config"
	"github.com/wispgrid/chunkstream/internal/scripting"
	"github.com/wispgrid/chunkstream/internal/world"
)

func TestChunkSeedStable(t *testing.T) {
	c := world.ChunkCoord{X: 3, Y: -7, Layer: 1}
	assert.Equal(t, ChunkSeed(42, c), ChunkSeed(42, c))
	assert.NotEqual(t, ChunkSeed(42, c), ChunkSeed(43, c))
	assert.NotEqual(t, ChunkSeed(42, c), ChunkSeed(42, world.ChunkCoord{X: 4, Y: -7, Layer: 1}))
	assert.NotEqual(t, ChunkSeed(42, c), ChunkSeed(42, world.ChunkCoord{X: 3, Y: -7}))
}

func TestNoiseDeterministic(t *testing.T) {
	a := NewNoise(7, 0.08, 0.55, [2]int{10, 10})
	b := NewNoise(7, 0.08, 0.55, [2]int{10, 10})
	coord := world.ChunkCoord{X: -2, Y: 5}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			pos := component.TilePos{X: x, Y: y}
			ta, ra := a.Generate(pos, coord)
			tb, rb := b.Generate(pos, coord)
			assert.Equal(t, ta, tb)
			assert.Equal(t, ra, rb)
			if ta == component.TileWall {
				assert.Equal(t, component.TerrainStone, ra)
			}
		}
	}
}

func TestNoiseCutoffExtremes(t *testing.T) {
	pos := component.TilePos{X: 3, Y: 4}
	coord := world.ChunkCoord{X: 1, Y: 1}
	allGround := NewNoise(7, 0.08, 10, [2]int{10, 10})
	tt, _ := allGround.Generate(pos, coord)
	assert.Equal(t, component.TileGround, tt)

	allWall := NewNoise(7, 0.08, -10, [2]int{10, 10})
	tt, _ = allWall.Generate(pos, coord)
	assert.Equal(t, component.TileWall, tt)
}

func TestScriptGenerator(t *testing.T) {
	eng, err := scripting.NewEngineFromString(`
function generate_tile(ctx)
  if ctx.x == 0 then return { type = "ground", terrain = "sand" } end
  return { type = "lava", terrain = "magma" }
end`, zap.NewNop())
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	s := NewScript(eng, 1, zap.New(core))
	defer s.Close()

	tt, tr := s.Generate(component.TilePos{X: 0, Y: 0}, world.ChunkCoord{})
	assert.Equal(t, component.TileGround, tt)
	assert.Equal(t, component.TerrainSand, tr)

	tt, tr = s.Generate(component.TilePos{X: 1, Y: 0}, world.ChunkCoord{})
	assert.Equal(t, component.TileWall, tt)
	assert.Equal(t, component.TerrainStone, tr)
	assert.Equal(t, 2, logs.Len())
}

func TestFromConfig(t *testing.T) {
	layout := world.DefaultLayout()

	g, err := FromConfig(config.TerrainConfig{Generator: "flat"}, layout, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, Flat{}, g)

	g, err = FromConfig(config.TerrainConfig{Generator: "noise", Seed: 3}, layout, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Noise{}, g)

	g, err = FromConfig(config.TerrainConfig{
		Generator:  "script",
		ScriptsDir: filepath.Join("..", "..", "scripts"),
	}, layout, zap.NewNop())
	require.NoError(t, err)
	closer, ok := g.(io.Closer)
	require.True(t, ok)
	defer closer.Close()
	tt, _ := g.Generate(component.TilePos{X: 0, Y: 5}, world.ChunkCoord{X: 2})
	assert.Equal(t, component.TileGround, tt, "chunk borders stay open")

	_, err = FromConfig(config.TerrainConfig{Generator: "bogus"}, layout, zap.NewNop())
	assert.Error(t, err)
}
