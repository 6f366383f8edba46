package system

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wispgrid/chunkstream/internal/core/event"
	coresys "github.com/wispgrid/chunkstream/internal/core/system"
	"github.com/wispgrid/chunkstream/internal/persist"
	"github.com/wispgrid/chunkstream/internal/telemetry"
	"github.com/wispgrid/chunkstream/internal/world"
)

// JournalWriter stores a batch of journal entries.
type JournalWriter interface {
	WriteJournal(ctx context.Context, entries []persist.JournalEntry) error
}

// maxJournalBacklog bounds the entries kept across failed flushes.
const maxJournalBacklog = 50_000

// JournalSystem records chunk lifecycle events and writes them in batches.
// The journal is an audit trail only; chunks are never rebuilt from it.
// Phase 5 (Persist).
type JournalSystem struct {
	writer   JournalWriter
	metrics  *telemetry.Metrics
	log      *zap.Logger
	interval int
	timeout  time.Duration

	tick      uint64
	tickCount int
	pending   []persist.JournalEntry
}

func NewJournalSystem(bus *event.Bus, writer JournalWriter, metrics *telemetry.Metrics, log *zap.Logger,
	intervalTicks int, timeout time.Duration) *JournalSystem {
	s := &JournalSystem{
		writer:   writer,
		metrics:  metrics,
		log:      log,
		interval: intervalTicks,
		timeout:  timeout,
		pending:  make([]persist.JournalEntry, 0, 256),
	}

	event.Subscribe(bus, func(e event.ChunkSpawned) {
		s.record(persist.KindSpawn, e.Coord, e.Level, "")
	})
	event.Subscribe(bus, func(e event.ChunkLevelChanged) {
		s.record(persist.KindUpgrade, e.Coord, e.To, fmt.Sprintf("from=%d", e.From))
	})
	event.Subscribe(bus, func(e event.ChunkDespawned) {
		s.record(persist.KindDespawn, e.Coord, 0, "")
	})
	event.Subscribe(bus, func(e event.TilemapBuilt) {
		s.record(persist.KindMaterialize, e.Coord, 0, fmt.Sprintf("tiles=%d", e.Tiles))
	})
	event.Subscribe(bus, func(e event.TileChanged) {
		s.record(persist.KindTileChange, e.Coord, 0,
			fmt.Sprintf("x=%d y=%d type=%d->%d terrain=%d->%d", e.X, e.Y, e.FromType, e.ToType, e.FromTerrain, e.ToTerrain))
	})
	return s
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) Update(_ time.Duration) {
	s.tick++
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.log.Warn("journal flush failed", zap.Int("pending", len(s.pending)), zap.Error(err))
	}
}

// Flush writes all pending entries. On failure they stay queued for the next
// flush, up to maxJournalBacklog.
func (s *JournalSystem) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.writer.WriteJournal(ctx, s.pending); err != nil {
		s.metrics.JournalErrors.Inc()
		if over := len(s.pending) - maxJournalBacklog; over > 0 {
			s.log.Warn("journal backlog full, dropping oldest entries", zap.Int("dropped", over))
			s.pending = append(s.pending[:0], s.pending[over:]...)
		}
		return fmt.Errorf("write journal: %w", err)
	}
	s.metrics.JournalFlushed.Add(float64(len(s.pending)))
	s.pending = s.pending[:0]
	return nil
}

// Pending returns the number of entries waiting for a flush.
func (s *JournalSystem) Pending() int { return len(s.pending) }

// record stamps an entry with the tick its event was emitted in. Events reach
// subscribers one tick after emission.
func (s *JournalSystem) record(kind string, coord world.ChunkCoord, level uint8, detail string) {
	tick := s.tick
	if tick > 0 {
		tick--
	}
	s.pending = append(s.pending, persist.JournalEntry{
		Tick:   tick,
		Kind:   kind,
		ChunkX: coord.X,
		ChunkY: coord.Y,
		Layer:  coord.Layer,
		Level:  int16(level),
		Detail: detail,
	})
}
