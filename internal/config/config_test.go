package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunkstream.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[world]
chunk_size = [500.0, 500.0]
tick_rate = "50ms"

[terrain]
generator = "flat"

[logging]
chunk_info = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, [2]float32{500, 500}, cfg.World.ChunkSize)
	assert.Equal(t, 50*time.Millisecond, cfg.World.TickRate)
	assert.Equal(t, [2]int{10, 10}, cfg.World.TilesPerChunk, "untouched keys keep defaults")
	assert.Equal(t, "flat", cfg.Terrain.Generator)
	assert.True(t, cfg.Logging.ChunkInfo)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotZero(t, cfg.StartTime)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsBadGeometry(t *testing.T) {
	path := writeConfig(t, `
[world]
chunk_size = [0.0, 10.0]
tiles_per_chunk = [10, -1]
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk_size")
	assert.Contains(t, err.Error(), "tiles_per_chunk")
}

func TestValidateGenerator(t *testing.T) {
	cfg := defaults()
	require.NoError(t, cfg.Validate())
	cfg.Terrain.Generator = "voronoi"
	assert.ErrorContains(t, cfg.Validate(), "voronoi")
}

func TestValidateJournal(t *testing.T) {
	cfg := defaults()
	cfg.Journal.Enabled = true
	cfg.Journal.FlushEvery = 0
	assert.ErrorContains(t, cfg.Validate(), "flush_every")
}

func TestValidateJournalTimeout(t *testing.T) {
	cfg := defaults()
	cfg.Journal.Enabled = true
	cfg.Journal.FlushTimeout = 0
	err := cfg.Validate()
	assert.ErrorContains(t, err, "flush_timeout")
	assert.NotContains(t, err.Error(), "flush_every")

	cfg.Journal.Enabled = false
	assert.NoError(t, cfg.Validate(), "only checked when the journal is on")
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "chunkstream.toml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Terrain.Generator)
	assert.Empty(t, cfg.Loaders.Spawn)
}
