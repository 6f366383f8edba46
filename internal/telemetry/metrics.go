package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "chunkstream"

// Metrics holds the streaming collectors. The game loop writes them; the
// /metrics handler reads them from its own goroutine.
type Metrics struct {
	ChunksSpawned     prometheus.Counter
	ChunksUpgraded    *prometheus.CounterVec // by target level
	ChunksDespawned   prometheus.Counter
	IndexCollisions   prometheus.Counter
	IndexMisses       prometheus.Counter
	ChunksLoaded      prometheus.Gauge
	TilesMaterialized prometheus.Counter
	TilesBroken       prometheus.Counter
	JournalFlushed    prometheus.Counter
	JournalErrors     prometheus.Counter
	StreamingTick     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChunksSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_spawned_total",
			Help:      "Chunks spawned by the streaming scheduler.",
		}),
		ChunksUpgraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_upgraded_total",
			Help:      "Load level raises, by target level.",
		}, []string{"level"}),
		ChunksDespawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_despawned_total",
			Help:      "Chunks removed from the index.",
		}),
		IndexCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_collisions_total",
			Help:      "Index inserts that pushed out another chunk.",
		}),
		IndexMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_misses_total",
			Help:      "Chunk removals that found no index entry.",
		}),
		ChunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loaded",
			Help:      "Chunks currently in the index.",
		}),
		TilesMaterialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tiles_materialized_total",
			Help:      "Tile entities created by chunk materialization.",
		}),
		TilesBroken: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tiles_broken_total",
			Help:      "Wall tiles turned into ground.",
		}),
		JournalFlushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_entries_flushed_total",
			Help:      "Journal entries written to the database.",
		}),
		JournalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_flush_errors_total",
			Help:      "Failed journal flushes.",
		}),
		StreamingTick: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "streaming_tick_seconds",
			Help:      "Time spent in one streaming scheduler update.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
	}
	reg.MustRegister(
		m.ChunksSpawned, m.ChunksUpgraded, m.ChunksDespawned,
		m.IndexCollisions, m.IndexMisses, m.ChunksLoaded,
		m.TilesMaterialized, m.TilesBroken,
		m.JournalFlushed, m.JournalErrors, m.StreamingTick,
	)
	return m
}

// Serve exposes g on addr under /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
