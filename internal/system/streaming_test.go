package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	coresys "github.com/wispgrid/chunkstream/internal/core/system"
	"github.com/wispgrid/chunkstream/internal/world"
)

func TestStreamingScenario(t *testing.T) {
	env := newTestEnv(t, scenarioLayout(), allWalls)
	env.SpawnLoader(component.Transform{Translation: mgl32.Vec3{250, 250, 0}}, scenarioLoader(), component.Velocity{})

	env.Tick(frame)

	assert.Equal(t, 9, env.Index.Len())
	assert.Equal(t, component.LevelFull, env.levelAt(t, world.ChunkCoord{}))
	for _, p := range []world.Point{{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0}, {X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1}} {
		assert.Equal(t, component.LevelMostly, env.levelAt(t, p.On(0)), "neighbour %v", p)
	}
	assert.False(t, env.Index.IsLoaded(world.ChunkCoord{X: 2}))
	assert.False(t, env.Index.IsLoaded(world.ChunkCoord{Layer: 1}))

	center, _ := env.Chunks.At(world.ChunkCoord{})
	tm, ok := env.Stores.Tilemap.Get(center)
	require.True(t, ok, "full chunk is materialized")
	assert.Len(t, tm.Tiles, 100)
	assert.Len(t, env.World.Children(center), 100)

	east, _ := env.Chunks.At(world.ChunkCoord{X: 1})
	assert.False(t, env.Stores.Tilemap.Has(east), "mostly chunk has no tiles")
	tr, ok := env.Stores.Transform.Get(east)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{500, 0, 0}, tr.Translation)

	assert.Equal(t, 9.0, testutil.ToFloat64(env.metrics.ChunksSpawned))
	assert.Equal(t, 9.0, testutil.ToFloat64(env.metrics.ChunksLoaded))
	assert.Equal(t, 100.0, testutil.ToFloat64(env.metrics.TilesMaterialized))
	env.requireIndexConsistent(t)
}

func TestStreamingIsStableAcrossTicks(t *testing.T) {
	env := newTestEnv(t, scenarioLayout(), allWalls)
	env.SpawnLoader(component.Transform{Translation: mgl32.Vec3{250, 250, 0}}, scenarioLoader(), component.Velocity{})

	env.Tick(frame)
	live := env.World.Len()
	env.Tick(frame)
	env.Tick(frame)

	assert.Equal(t, 9, env.Index.Len())
	assert.Equal(t, live, env.World.Len(), "no entity churn once loaded")
	assert.Equal(t, 9.0, testutil.ToFloat64(env.metrics.ChunksSpawned))
	assert.Equal(t, 100, env.Stores.Tile.Len())
	assert.Zero(t, env.logs.FilterMessage("pushed out chunk").Len())
}

func TestStreamingNeverLowersLevel(t *testing.T) {
	env := newTestEnv(t, scenarioLayout(), allWalls)
	loader := env.SpawnLoader(component.Transform{Translation: mgl32.Vec3{250, 250, 0}}, scenarioLoader(), component.Velocity{})
	env.Tick(frame)

	tr, _ := env.Stores.Transform.Get(loader)
	tr.Translation = mgl32.Vec3{750, 250, 0}
	env.Tick(frame)

	assert.Equal(t, component.LevelFull, env.levelAt(t, world.ChunkCoord{}), "old full chunk keeps its level")
	assert.Equal(t, component.LevelFull, env.levelAt(t, world.ChunkCoord{X: 1}), "raised to full")
	assert.Equal(t, component.LevelMostly, env.levelAt(t, world.ChunkCoord{X: 2}))
	assert.Equal(t, component.LevelMostly, env.levelAt(t, world.ChunkCoord{X: -1}), "no eviction")
	assert.Equal(t, 12, env.Index.Len())

	east, _ := env.Chunks.At(world.ChunkCoord{X: 1})
	assert.True(t, env.Stores.Tilemap.Has(east), "raise to full materializes")
	assert.Equal(t, 200, env.Stores.Tile.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.ChunksUpgraded.WithLabelValues("full")))
	env.requireIndexConsistent(t)
}

func TestStreamingRaisesMinimumChunks(t *testing.T) {
	env := newTestEnv(t, scenarioLayout(), allWalls)
	wide := component.ChunkLoader{
		Full:    mgl32.Vec2{100, 100},
		Mostly:  mgl32.Vec2{500, 500},
		Minimum: mgl32.Vec2{2000, 2000},
	}
	loader := env.SpawnLoader(component.Transform{Translation: mgl32.Vec3{250, 250, 0}}, wide, component.Velocity{})
	env.Tick(frame)
	assert.Equal(t, 25, env.Index.Len())
	assert.Equal(t, component.LevelMinimum, env.levelAt(t, world.ChunkCoord{X: 2}))

	tr, _ := env.Stores.Transform.Get(loader)
	tr.Translation = mgl32.Vec3{1250, 250, 0}
	env.Tick(frame)
	assert.Equal(t, component.LevelFull, env.levelAt(t, world.ChunkCoord{X: 2}))
	assert.Equal(t, component.LevelMostly, env.levelAt(t, world.ChunkCoord{X: 3}))
	assert.Equal(t, component.LevelMostly, env.levelAt(t, world.ChunkCoord{X: 1}), "already mostly, left as is")
}

func TestStreamingFirstLoaderClaimsCoordinate(t *testing.T) {
	env := newTestEnv(t, scenarioLayout(), allWalls)
	// Spawned first, so visited first: (2,0) falls in its minimum ring.
	env.SpawnLoader(component.Transform{Translation: mgl32.Vec3{250, 250, 0}}, component.ChunkLoader{
		Full:    mgl32.Vec2{100, 100},
		Mostly:  mgl32.Vec2{500, 500},
		Minimum: mgl32.Vec2{2000, 2000},
	}, component.Velocity{})
	// (2,0) is the full chunk of this one.
	env.SpawnLoader(component.Transform{Translation: mgl32.Vec3{1250, 250, 0}}, component.ChunkLoader{
		Full: mgl32.Vec2{100, 100},
	}, component.Velocity{})

	env.Tick(frame)
	env.Tick(frame)

	assert.Equal(t, component.LevelMinimum, env.levelAt(t, world.ChunkCoord{X: 2}),
		"the first loader's request wins the tick; the later, higher one is dropped")
	assert.Zero(t, env.logs.FilterMessage("pushed out chunk").Len(), "dedup prevents double spawns")
	env.requireIndexConsistent(t)
}

func TestStreamingOverlappingLoadersShareChunks(t *testing.T) {
	env := newTestEnv(t, scenarioLayout(), allWalls)
	env.SpawnLoader(component.Transform{Translation: mgl32.Vec3{250, 250, 0}}, scenarioLoader(), component.Velocity{})
	env.SpawnLoader(component.Transform{Translation: mgl32.Vec3{750, 250, 0}}, scenarioLoader(), component.Velocity{})

	env.Tick(frame)

	// 3x3 around (0,0) plus the extra column x=2
	assert.Equal(t, 12, env.Index.Len())
	assert.Equal(t, 12.0, testutil.ToFloat64(env.metrics.ChunksSpawned))
	assert.Zero(t, env.logs.FilterMessage("pushed out chunk").Len())
	env.requireIndexConsistent(t)
}

func TestStreamingLayersFollowLoaderZ(t *testing.T) {
	env := newTestEnv(t, scenarioLayout(), allWalls)
	env.SpawnLoader(component.Transform{Translation: mgl32.Vec3{250, 250, 2.5}}, scenarioLoader(), component.Velocity{})
	env.Tick(frame)

	assert.Equal(t, 9, env.Index.Len())
	assert.Equal(t, []int32{2}, env.Index.Layers())
	id, ok := env.Chunks.At(world.ChunkCoord{Layer: 2})
	require.True(t, ok)
	tr, _ := env.Stores.Transform.Get(id)
	assert.Equal(t, float32(2), tr.Translation.Z())
}

func TestStreamingOutOfOrderRadii(t *testing.T) {
	env := newTestEnv(t, scenarioLayout(), allWalls)
	env.SpawnLoader(component.Transform{}, component.ChunkLoader{
		Full:    mgl32.Vec2{1000, 1000},
		Mostly:  mgl32.Vec2{500, 500},
		Minimum: mgl32.Vec2{100, 100},
	}, component.Velocity{})

	assert.NotPanics(t, func() { env.Tick(frame) })
	assert.Equal(t, 9, env.Index.Len())
	env.Index.Each(func(c world.ChunkCoord, _ ecs.EntityID) bool {
		assert.Equal(t, component.LevelFull, env.levelAt(t, c))
		return true
	})
}

func TestStreamingZeroRadiiLoadNothing(t *testing.T) {
	env := newTestEnv(t, scenarioLayout(), allWalls)
	env.SpawnLoader(component.Transform{}, component.ChunkLoader{}, component.Velocity{})
	env.Tick(frame)
	assert.Zero(t, env.Index.Len())
}

func TestStreamingRunsInStreamingPhase(t *testing.T) {
	env := newTestEnv(t, scenarioLayout(), allWalls)
	assert.Equal(t, coresys.PhaseStreaming, env.Streaming.Phase())

	env.SpawnLoader(component.Transform{}, scenarioLoader(), component.Velocity{})
	env.Runner.TickPhase(coresys.PhaseStreaming, frame)
	assert.Equal(t, 9, env.Index.Len())
}
