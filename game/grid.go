package game

import "fmt"

// GridMap is a fixed-size, row-major grid of tiles
type GridMap struct {
	width  int
	height int
	tiles  []*Tile
}

// NewGridMap creates a grid filled with grass
func NewGridMap(width, height int) *GridMap {
	g := &GridMap{
		width:  width,
		height: height,
		tiles:  make([]*Tile, width*height),
	}
	for i := range g.tiles {
		col, row := g.Coords(i)
		g.tiles[i] = &Tile{Col: col, Row: row, Kind: TileGrass}
	}
	return g
}

func (g *GridMap) Width() int  { return g.width }
func (g *GridMap) Height() int { return g.height }

// Contains reports whether (col,row) addresses a cell of the grid
func (g *GridMap) Contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.width && row < g.height
}

// Index converts grid coordinates to a slot index
func (g *GridMap) Index(col, row int) int {
	return row*g.width + col
}

// Coords converts a slot index back to grid coordinates
func (g *GridMap) Coords(index int) (int, int) {
	return index % g.width, index / g.width
}

// TileAt returns the tile at the given grid coordinates
func (g *GridMap) TileAt(col, row int) (*Tile, error) {
	if !g.Contains(col, row) {
		return nil, fmt.Errorf("%w (%d, %d)", ErrInvalidCoordinate, col, row)
	}
	return g.tiles[g.Index(col, row)], nil
}

// ReplaceTile swaps the cell at (col,row) for a new tile of the given kind.
// The slot keeps its place in the grid; the old *Tile is detached.
func (g *GridMap) ReplaceTile(col, row int, kind TileKind) (*Tile, error) {
	if !g.Contains(col, row) {
		return nil, fmt.Errorf("%w (%d, %d)", ErrInvalidCoordinate, col, row)
	}
	tile := &Tile{Col: col, Row: row, Kind: kind}
	g.tiles[g.Index(col, row)] = tile
	return tile, nil
}

// Kinds returns the row-major tile kinds of the whole grid
func (g *GridMap) Kinds() []TileKind {
	kinds := make([]TileKind, len(g.tiles))
	for i, t := range g.tiles {
		kinds[i] = t.Kind
	}
	return kinds
}

func (g *GridMap) place(index int, tile *Tile) {
	tile.Col, tile.Row = g.Coords(index)
	g.tiles[index] = tile
}
