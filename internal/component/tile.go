package component

// TileType is the structural kind of a tile.
type TileType uint8

const (
	TileWall TileType = iota
	TileGround
)

func (t TileType) String() string {
	switch t {
	case TileWall:
		return "wall"
	case TileGround:
		return "ground"
	}
	return "unknown"
}

// TerrainType is the cosmetic surface of a tile, independent of its type.
type TerrainType uint8

const (
	TerrainStone TerrainType = iota
	TerrainDirt
	TerrainGrass
	TerrainSand
)

func (t TerrainType) String() string {
	switch t {
	case TerrainStone:
		return "stone"
	case TerrainDirt:
		return "dirt"
	case TerrainGrass:
		return "grass"
	case TerrainSand:
		return "sand"
	}
	return "unknown"
}

// ParseTerrain maps a terrain name back to its type.
func ParseTerrain(s string) (TerrainType, bool) {
	switch s {
	case "stone":
		return TerrainStone, true
	case "dirt":
		return TerrainDirt, true
	case "grass":
		return TerrainGrass, true
	case "sand":
		return TerrainSand, true
	}
	return 0, false
}

// TilePos is a tile's position inside its chunk's tile grid.
type TilePos struct {
	X int
	Y int
}

// Tile is one cell of a materialized chunk.
type Tile struct {
	Pos     TilePos
	Type    TileType
	Terrain TerrainType
}
