package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wispgrid/chunkstream/internal/config"
	"github.com/wispgrid/chunkstream/internal/data"
	"github.com/wispgrid/chunkstream/internal/persist"
	"github.com/wispgrid/chunkstream/internal/system"
	"github.com/wispgrid/chunkstream/internal/telemetry"
	"github.com/wispgrid/chunkstream/internal/terrain"
	"github.com/wispgrid/chunkstream/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

var numbers = message.NewPrinter(language.English)

func printBanner(runID uuid.UUID) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             chunkstream  v0.1.0           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        layered chunk streaming demo       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mrun:\033[0m %s\n\n", runID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := numbers.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

// statusInterval is the number of ticks between status log lines.
const statusInterval = 50

func run() error {
	// 1. Load config
	cfgPath := "config/chunkstream.toml"
	if p := os.Getenv("CHUNKSTREAM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	runID := uuid.New()
	printBanner(runID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. World layout and terrain
	printSection("world")
	layout := world.Layout{
		ChunkSize:     mgl32.Vec2(cfg.World.ChunkSize),
		TilesPerChunk: cfg.World.TilesPerChunk,
		LayerDepth:    cfg.World.LayerDepth,
	}
	gen, err := terrain.FromConfig(cfg.Terrain, layout, log)
	if err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	if c, ok := gen.(io.Closer); ok {
		defer c.Close()
	}
	printOK(fmt.Sprintf("terrain generator %q (seed %d)", cfg.Terrain.Generator, cfg.Terrain.Seed))
	printStat("tiles per chunk", layout.TileCount())

	// 4. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(reg)

	pipe := system.NewPipeline(layout, gen, metrics, log, cfg.Logging.ChunkInfo)

	// 5. Loaders
	presets, err := data.LoadLoaderPresets(cfg.Loaders.Presets)
	if err != nil {
		return fmt.Errorf("loaders: %w", err)
	}
	selected, err := presets.Select(cfg.Loaders.Spawn)
	if err != nil {
		return fmt.Errorf("loaders: %w", err)
	}
	for _, p := range selected {
		id := pipe.SpawnLoader(p.Transform(), p.Loader(), p.Motion())
		log.Debug("loader spawned", zap.String("name", p.Name), zap.Stringer("entity", id))
	}
	printStat("loader presets", presets.Count())
	printStat("chunk loaders", len(selected))
	fmt.Println()

	// 6. Optional journal
	var journal *system.JournalSystem
	if cfg.Journal.Enabled {
		printSection("journal")
		var db *persist.DB
		journal, db, err = openJournal(ctx, cfg, pipe, runID, log)
		if err != nil {
			return err
		}
		defer db.Close()
		fmt.Println()
	}

	if cfg.Metrics.Enabled {
		go func() {
			if err := telemetry.Serve(ctx, cfg.Metrics.BindAddress, reg, log); err != nil {
				log.Error("metrics server", zap.Error(err))
			}
		}()
	}

	// 7. Game loop
	ticker := time.NewTicker(cfg.World.TickRate)
	defer ticker.Stop()

	printSection("ready")
	if cfg.Metrics.Enabled {
		printReady(fmt.Sprintf("metrics on http://%s/metrics", cfg.Metrics.BindAddress))
	}
	printReady(fmt.Sprintf("game loop started (tick: %s)", cfg.World.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			pipe.Tick(cfg.World.TickRate)
			ticks := pipe.Runner.Ticks()
			if ticks%statusInterval == 0 {
				log.Info("streaming",
					zap.Uint64("tick", ticks),
					zap.Int("chunks", pipe.Index.Len()),
					zap.Int("tiles", pipe.Stores.Tile.Len()),
					zap.Int("entities", pipe.World.Len()))
			}
			if cfg.World.MaxTicks > 0 && ticks >= cfg.World.MaxTicks {
				log.Info("tick limit reached", zap.Uint64("ticks", ticks))
				return shutdown(pipe, journal, log)
			}
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return shutdown(pipe, journal, log)
		}
	}
}

func openJournal(ctx context.Context, cfg *config.Config, pipe *system.Pipeline, runID uuid.UUID, log *zap.Logger) (*system.JournalSystem, *persist.DB, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(dbCtx, cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	printOK("PostgreSQL connected")

	if err := persist.RunMigrations(dbCtx, db.Pool, log); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")

	repo := persist.NewJournalRepo(db, runID)
	if err := repo.StartRun(dbCtx, persist.RunInfo{
		ID:        runID,
		Generator: cfg.Terrain.Generator,
		Seed:      cfg.Terrain.Seed,
		ChunkW:    cfg.World.ChunkSize[0],
		ChunkH:    cfg.World.ChunkSize[1],
	}); err != nil {
		db.Close()
		return nil, nil, err
	}
	printOK("run recorded")

	return pipe.AttachJournal(repo, cfg.Journal.FlushEvery, cfg.Journal.FlushTimeout), db, nil
}

func shutdown(pipe *system.Pipeline, journal *system.JournalSystem, log *zap.Logger) error {
	if journal != nil {
		// deliver the last tick's events before the final flush
		pipe.Bus.SwapBuffers()
		pipe.Bus.DispatchAll()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := journal.Flush(ctx); err != nil {
			log.Warn("final journal flush failed", zap.Int("pending", journal.Pending()), zap.Error(err))
		}
	}
	log.Info("stopped",
		zap.Uint64("ticks", pipe.Runner.Ticks()),
		zap.Int("chunks", pipe.Index.Len()))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	// chunk info lines are debug level
	if cfg.ChunkInfo && level > zapcore.DebugLevel {
		level = zapcore.DebugLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
