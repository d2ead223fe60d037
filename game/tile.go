package game

// TileKind identifies what occupies a grid cell
type TileKind int

const (
	TileGrass TileKind = iota
	TileBlock
	TileRock
	TileSpawn
)

var tileKindNames = [...]string{
	TileGrass: "Grass",
	TileBlock: "Block",
	TileRock:  "Rock",
	TileSpawn: "Spawn",
}

func (k TileKind) String() string {
	if k < 0 || int(k) >= len(tileKindNames) {
		return "Unknown"
	}
	return tileKindNames[k]
}

// Solid reports whether the kind stops both movement and blasts
func (k TileKind) Solid() bool {
	return k == TileBlock || k == TileRock
}

// Tile is one cell of the level grid. Tiles are handled by pointer: two
// lookups of the same cell return the same *Tile until the cell is replaced.
type Tile struct {
	Col  int      `json:"col"`
	Row  int      `json:"row"`
	Kind TileKind `json:"kind"`
}

// Cell is a bare grid coordinate
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// TileChange records a cell mutation so clients can patch their copy of the map
type TileChange struct {
	Col int      `json:"col"`
	Row int      `json:"row"`
	Old TileKind `json:"old"`
	New TileKind `json:"new"`
}
