package component

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wispgrid/chunkstream/internal/core/ecs"
)

func TestLoadLevelOrdering(t *testing.T) {
	assert.Less(t, LevelMinimum, LevelMostly)
	assert.Less(t, LevelMostly, LevelFull)
	assert.Equal(t, LevelFull, LevelForTier(0))
	assert.Equal(t, LevelMostly, LevelForTier(1))
	assert.Equal(t, LevelMinimum, LevelForTier(2))
	assert.Equal(t, "mostly", LevelMostly.String())
}

func TestTilemapAt(t *testing.T) {
	m := Tilemap{Width: 2, Height: 2, Tiles: []ecs.EntityID{
		ecs.NewEntityID(1, 1), ecs.NewEntityID(2, 1), 0, ecs.NewEntityID(4, 1),
	}}
	id, ok := m.At(1, 0)
	assert.True(t, ok)
	assert.Equal(t, ecs.NewEntityID(2, 1), id)
	_, ok = m.At(0, 1)
	assert.False(t, ok, "empty slot")
	_, ok = m.At(2, 0)
	assert.False(t, ok)
}

func TestParseTerrain(t *testing.T) {
	for _, tt := range []TerrainType{TerrainStone, TerrainDirt, TerrainGrass, TerrainSand} {
		got, ok := ParseTerrain(tt.String())
		assert.True(t, ok)
		assert.Equal(t, tt, got)
	}
	_, ok := ParseTerrain("lava")
	assert.False(t, ok)
}

func TestNewStoresRegistersForDespawn(t *testing.T) {
	w := ecs.NewWorld()
	s := NewStores(w)
	id := w.Spawn()
	s.Tile.Insert(id, Tile{Type: TileGround})
	s.Transform.Insert(id, Transform{})
	w.Despawn(id)
	assert.False(t, s.Tile.Has(id))
	assert.False(t, s.Transform.Has(id))
}
