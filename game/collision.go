package game

import "math"

// Neighbour offsets in compass order: NW, N, NE, W, E, SW, S, SE.
// Row offsets are negative towards the top of the grid.
var neighborOffsets = [8]Cell{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// tileCorner is a corner of a tile, the offsets of the two tiles sharing an
// edge with it at that corner, and the diagonal pointing away from the tile
type tileCorner struct {
	dx, dy  float64
	sides   [2]Cell
	outward [2]float64
}

var tileCorners = [4]tileCorner{
	{0, 0, [2]Cell{{-1, 0}, {0, -1}}, [2]float64{-1, -1}},
	{1, 0, [2]Cell{{1, 0}, {0, -1}}, [2]float64{1, -1}},
	{1, 1, [2]Cell{{1, 0}, {0, 1}}, [2]float64{1, 1}},
	{0, 1, [2]Cell{{-1, 0}, {0, 1}}, [2]float64{-1, 1}},
}

// resolveCollisions pushes the character out of every blocking tile around
// it. Each correction is applied before the next neighbour is looked at.
func (l *Level) resolveCollisions(c *Character) {
	r := c.radiusTiles()
	w, h := float64(l.grid.width), float64(l.grid.height)

	c.X = clamp(c.X, r, w-r)
	c.Y = clamp(c.Y, r, h-r)

	col, row := int(math.Floor(c.X)), int(math.Floor(c.Y))
	for _, off := range neighborOffsets {
		tile, err := l.grid.TileAt(col+off.Col, row+off.Row)
		if err != nil {
			continue
		}
		if !l.IsBlocking(tile, c.ID) {
			continue
		}
		pushOutOfEdges(c, tile, r)
		l.roundCorners(c, tile, r)
	}
}

// pushOutOfEdges stops the character flush against any edge of the tile it
// straddles while its centre lies within that edge's span
func pushOutOfEdges(c *Character, tile *Tile, r float64) {
	tx, ty := float64(tile.Col), float64(tile.Row)

	for side := 0.0; side <= 1; side++ {
		edge := tx + side
		if c.X-r < edge && edge < c.X+r && ty <= c.Y && c.Y <= ty+1 {
			if side == 0 {
				c.X = edge - r
			} else {
				c.X = edge + r
			}
		}
	}
	for side := 0.0; side <= 1; side++ {
		edge := ty + side
		if c.Y-r < edge && edge < c.Y+r && tx <= c.X && c.X <= tx+1 {
			if side == 0 {
				c.Y = edge - r
			} else {
				c.Y = edge + r
			}
		}
	}
}

// roundCorners slides the character around the exposed corners of a tile.
// A corner flanked by another blocking tile is part of a straight wall and
// is left to the edge test.
func (l *Level) roundCorners(c *Character, tile *Tile, r float64) {
	for _, corner := range tileCorners {
		cx := float64(tile.Col) + corner.dx
		cy := float64(tile.Row) + corner.dy

		dist := math.Hypot(c.X-cx, c.Y-cy)
		if dist >= r {
			continue
		}
		if !(c.X-r < cx && cx < c.X+r && c.Y-r < cy && cy < c.Y+r) {
			continue
		}
		if l.blockingAt(tile.Col+corner.sides[0].Col, tile.Row+corner.sides[0].Row, c.ID) ||
			l.blockingAt(tile.Col+corner.sides[1].Col, tile.Row+corner.sides[1].Row, c.ID) {
			continue
		}

		if dist == 0 {
			c.X = cx + corner.outward[0]*r/math.Sqrt2
			c.Y = cy + corner.outward[1]*r/math.Sqrt2
			continue
		}
		ratio := r / dist
		c.X = cx + (c.X-cx)*ratio
		c.Y = cy + (c.Y-cy)*ratio
	}
}

// refreshExemptions drops the character from the exemption set of every
// bomb whose tile it no longer overlaps
func (l *Level) refreshExemptions(c *Character) {
	for _, id := range l.bombOrder {
		b := l.bombs[id]
		if !b.Exempts(c.ID) {
			continue
		}
		if !overlapsTile(c, b.Tile) {
			delete(b.exempt, c.ID)
		}
	}
}

// overlapsTile reports whether the character's bounding box overlaps the
// tile's footprint. Touching edges do not count.
func overlapsTile(c *Character, tile *Tile) bool {
	r := c.radiusTiles()
	tx, ty := float64(tile.Col), float64(tile.Row)
	return c.X-r < tx+1 && c.X+r > tx && c.Y-r < ty+1 && c.Y+r > ty
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
