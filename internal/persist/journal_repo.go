package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Journal entry kinds.
const (
	KindSpawn       = "spawn"
	KindUpgrade     = "upgrade"
	KindDespawn     = "despawn"
	KindMaterialize = "materialize"
	KindTileChange  = "tile_change"
)

// JournalEntry is one streaming event of a run.
type JournalEntry struct {
	Tick   uint64
	Kind   string
	ChunkX int32
	ChunkY int32
	Layer  int32
	Level  int16
	Detail string
}

// RunInfo describes the world a run streamed.
type RunInfo struct {
	ID        uuid.UUID
	Generator string
	Seed      int64
	ChunkW    float32
	ChunkH    float32
}

type JournalRepo struct {
	db    *DB
	runID uuid.UUID
}

func NewJournalRepo(db *DB, runID uuid.UUID) *JournalRepo {
	return &JournalRepo{db: db, runID: runID}
}

// StartRun records the run header. Journal entries reference it.
func (r *JournalRepo) StartRun(ctx context.Context, info RunInfo) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO stream_runs (run_id, generator, seed, chunk_w, chunk_h)
		 VALUES ($1, $2, $3, $4, $5)`,
		info.ID, info.Generator, info.Seed, info.ChunkW, info.ChunkH,
	)
	if err != nil {
		return fmt.Errorf("journal start run %s: %w", info.ID, err)
	}
	return nil
}

// WriteJournal writes a batch of entries in a single transaction.
func (r *JournalRepo) WriteJournal(ctx context.Context, entries []JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO stream_journal (run_id, tick, kind, chunk_x, chunk_y, layer, level, detail)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			r.runID, int64(e.Tick), e.Kind, e.ChunkX, e.ChunkY, e.Layer, e.Level, e.Detail,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}
