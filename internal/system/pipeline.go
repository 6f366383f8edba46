package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	"github.com/wispgrid/chunkstream/internal/core/event"
	coresys "github.com/wispgrid/chunkstream/internal/core/system"
	"github.com/wispgrid/chunkstream/internal/telemetry"
	"github.com/wispgrid/chunkstream/internal/terrain"
	"github.com/wispgrid/chunkstream/internal/world"
)

// Pipeline owns one streamed world and the systems that drive it.
type Pipeline struct {
	World  *ecs.World
	Stores *component.Stores
	Index  *world.ChunkIndex
	Bus    *event.Bus
	Runner *coresys.Runner

	Chunks    *Chunks
	Hooks     *ChunkHooks
	Tilemaps  *TilemapBuilder
	Editor    *TileEditor
	Streaming *StreamingSystem

	metrics *telemetry.Metrics
	log     *zap.Logger
}

// NewPipeline builds a world and registers the per-tick systems in phase order:
// event dispatch, loader motion, streaming, cleanup.
func NewPipeline(layout world.Layout, gen terrain.Generator, metrics *telemetry.Metrics, log *zap.Logger, chunkInfo bool) *Pipeline {
	w := ecs.NewWorld()
	stores := component.NewStores(w)
	index := world.NewChunkIndex()
	bus := event.NewBus()

	chunks := NewChunks(w, stores, index, layout)
	tilemaps := NewTilemapBuilder(w, stores, layout, gen, bus, metrics, log)
	hooks := RegisterChunkHooks(w, stores, index, layout, bus, tilemaps, metrics, log, chunkInfo)
	streaming := NewStreamingSystem(stores, chunks, metrics, log)

	runner := coresys.NewRunner()
	runner.Register(NewEventDispatchSystem(bus))
	runner.Register(NewMotionSystem(stores))
	runner.Register(streaming)
	runner.Register(NewCleanupSystem(w, log))

	return &Pipeline{
		World:     w,
		Stores:    stores,
		Index:     index,
		Bus:       bus,
		Runner:    runner,
		Chunks:    chunks,
		Hooks:     hooks,
		Tilemaps:  tilemaps,
		Editor:    NewTileEditor(chunks, stores, metrics, log),
		Streaming: streaming,
		metrics:   metrics,
		log:       log,
	}
}

// AttachJournal subscribes a journal to the world's events and runs it in the
// persist phase.
func (p *Pipeline) AttachJournal(writer JournalWriter, intervalTicks int, timeout time.Duration) *JournalSystem {
	j := NewJournalSystem(p.Bus, writer, p.metrics, p.log, intervalTicks, timeout)
	p.Runner.Register(j)
	return j
}

// SpawnLoader adds a chunk loader. A zero velocity leaves it static.
func (p *Pipeline) SpawnLoader(t component.Transform, l component.ChunkLoader, v component.Velocity) ecs.EntityID {
	id := p.World.Spawn()
	p.Stores.Transform.Insert(id, t)
	p.Stores.Loader.Insert(id, l)
	if v.Linear.Len() > 0 {
		p.Stores.Velocity.Insert(id, v)
	}
	return id
}

func (p *Pipeline) Tick(dt time.Duration) { p.Runner.Tick(dt) }
