package system

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	"github.com/wispgrid/chunkstream/internal/telemetry"
	"github.com/wispgrid/chunkstream/internal/terrain"
	"github.com/wispgrid/chunkstream/internal/world"
)

const frame = 16 * time.Millisecond

// genFunc adapts a function to terrain.Generator.
type genFunc func(pos component.TilePos, coord world.ChunkCoord) (component.TileType, component.TerrainType)

func (f genFunc) Generate(pos component.TilePos, coord world.ChunkCoord) (component.TileType, component.TerrainType) {
	return f(pos, coord)
}

var allWalls = terrain.Flat{Type: component.TileWall, Terrain: component.TerrainStone}

type testEnv struct {
	*Pipeline
	logs    *observer.ObservedLogs
	metrics *telemetry.Metrics
}

func newTestEnv(t *testing.T, layout world.Layout, gen terrain.Generator) *testEnv {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	m := telemetry.NewMetrics(prometheus.NewRegistry())
	return &testEnv{
		Pipeline: NewPipeline(layout, gen, m, zap.New(core), true),
		logs:     logs,
		metrics:  m,
	}
}

// scenarioLayout uses 500x500 world-unit chunks split into 10x10 tiles.
func scenarioLayout() world.Layout {
	return world.Layout{
		ChunkSize:     mgl32.Vec2{500, 500},
		TilesPerChunk: [2]int{10, 10},
		LayerDepth:    1,
	}
}

func scenarioLoader() component.ChunkLoader {
	return component.ChunkLoader{
		Full:    mgl32.Vec2{100, 100},
		Mostly:  mgl32.Vec2{500, 500},
		Minimum: mgl32.Vec2{1000, 1000},
	}
}

func (e *testEnv) levelAt(t *testing.T, c world.ChunkCoord) component.LoadLevel {
	t.Helper()
	id, ok := e.Chunks.At(c)
	require.True(t, ok, "chunk %v not loaded", c)
	l, ok := e.Chunks.Level(id)
	require.True(t, ok, "chunk %v has no level", c)
	return l
}

// requireIndexConsistent checks that the index and the chunk entities agree
// in both directions.
func (e *testEnv) requireIndexConsistent(t *testing.T) {
	t.Helper()
	e.Index.Each(func(c world.ChunkCoord, id ecs.EntityID) bool {
		require.True(t, e.Stores.Chunk.Has(id), "index entry %v points at non-chunk %v", c, id)
		pos, ok := e.Stores.ChunkPos.Get(id)
		require.True(t, ok)
		require.Equal(t, c, pos.Coord)
		return true
	})
	e.Stores.Chunk.Each(func(id ecs.EntityID, _ *component.Chunk) {
		pos, ok := e.Stores.ChunkPos.Get(id)
		require.True(t, ok)
		got, ok := e.Index.Get(pos.Coord)
		require.True(t, ok, "chunk %v at %v missing from index", id, pos.Coord)
		require.Equal(t, id, got)
	})
}
