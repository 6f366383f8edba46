package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	coresys "github.com/wispgrid/chunkstream/internal/core/system"
	"github.com/wispgrid/chunkstream/internal/telemetry"
	"github.com/wispgrid/chunkstream/internal/world"
)

type chunkRequest struct {
	coord world.ChunkCoord
	level component.LoadLevel
	// zero when the chunk does not exist yet
	chunk ecs.EntityID
}

// StreamingSystem loads chunks around every ChunkLoader, at a level set by the
// loader ring the chunk falls in. Phase 4 (Streaming), after loaders moved.
//
// Enumeration only reads the index. Requests are queued and committed once
// all loaders were visited, which is when the lifecycle hooks fire.
type StreamingSystem struct {
	stores  *component.Stores
	chunks  *Chunks
	layout  world.Layout
	metrics *telemetry.Metrics
	log     *zap.Logger

	seen     map[world.ChunkCoord]struct{}
	requests []chunkRequest
}

func NewStreamingSystem(stores *component.Stores, chunks *Chunks, metrics *telemetry.Metrics, log *zap.Logger) *StreamingSystem {
	return &StreamingSystem{
		stores:   stores,
		chunks:   chunks,
		layout:   chunks.Layout(),
		metrics:  metrics,
		log:      log,
		seen:     make(map[world.ChunkCoord]struct{}, 256),
		requests: make([]chunkRequest, 0, 64),
	}
}

func (s *StreamingSystem) Phase() coresys.Phase { return coresys.PhaseStreaming }

func (s *StreamingSystem) Update(_ time.Duration) {
	start := time.Now()
	clear(s.seen)
	s.requests = s.requests[:0]

	ecs.Each2(s.stores.Loader, s.stores.Transform, func(_ ecs.EntityID, l *component.ChunkLoader, t *component.Transform) {
		s.enumerate(l, t)
	})

	spawned, raised := s.commit()
	s.metrics.StreamingTick.Observe(time.Since(start).Seconds())
	if spawned > 0 || raised > 0 {
		s.log.Debug("chunks streamed", zap.Int("spawned", spawned), zap.Int("raised", raised))
	}
}

// enumerate queues the requests of one loader. The first loader to claim a
// coordinate in a tick decides its requested level.
func (s *StreamingSystem) enumerate(l *component.ChunkLoader, t *component.Transform) {
	anchor := s.layout.ToChunkCoord(t.Translation)
	size := s.layout.ChunkSize
	rings := world.LoaderRings(
		world.ExtentOf(l.Full, size),
		world.ExtentOf(l.Mostly, size),
		world.ExtentOf(l.Minimum, size),
		anchor.Plane(),
	)
	for _, ring := range rings {
		level := component.LevelForTier(ring.Tier)
		for p := range ring.Points {
			coord := p.On(anchor.Layer)
			if _, dup := s.seen[coord]; dup {
				continue
			}
			s.seen[coord] = struct{}{}

			id, loaded := s.chunks.At(coord)
			if !loaded {
				s.requests = append(s.requests, chunkRequest{coord: coord, level: level})
				continue
			}
			if cur, ok := s.chunks.Level(id); ok && level > cur {
				s.requests = append(s.requests, chunkRequest{coord: coord, level: level, chunk: id})
			}
		}
	}
}

func (s *StreamingSystem) commit() (spawned, raised int) {
	for _, r := range s.requests {
		if r.chunk.IsZero() {
			if _, ok := s.chunks.Spawn(r.coord, r.level); ok {
				spawned++
			}
			continue
		}
		if s.chunks.Raise(r.chunk, r.level) {
			raised++
		}
	}
	s.requests = s.requests[:0]
	return spawned, raised
}
