package game

import "time"

// BombID identifies a bomb within its level
type BombID uint64

// BombState is the fuse state of a bomb
type BombState int

const (
	BombArmed BombState = iota
	BombExploding
)

func (s BombState) String() string {
	if s == BombExploding {
		return "exploding"
	}
	return "armed"
}

// Bomb sits on a tile until its fuse runs out. Owner is a handle into the
// level's characters, not a reference.
type Bomb struct {
	ID      BombID
	Owner   CharacterID
	Tile    *Tile
	Fuse    time.Duration
	ArmedAt time.Duration

	state         BombState
	timer         TimerID
	power         int
	wallTraversal bool
	// Characters standing on Tile when the bomb was placed. They may overlap
	// it until they step fully off.
	exempt map[CharacterID]struct{}
}

func (b *Bomb) State() BombState { return b.state }

// Exempts reports whether id may still overlap the bomb's tile
func (b *Bomb) Exempts(id CharacterID) bool {
	_, ok := b.exempt[id]
	return ok
}

// Exempted returns the number of characters still exempt from the bomb
func (b *Bomb) Exempted() int {
	return len(b.exempt)
}

// Blast is the outcome of one explosion
type Blast struct {
	BombID  BombID       `json:"bomb_id"`
	Owner   CharacterID  `json:"owner"`
	Col     int          `json:"col"`
	Row     int          `json:"row"`
	Reach   []Cell       `json:"reach"`
	Changes []TileChange `json:"changes"`
}

// West, north, east, south
var blastDirections = [4]Cell{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

func (l *Level) explode(id BombID) {
	b, ok := l.bombs[id]
	if !ok {
		return
	}
	b.state = BombExploding

	power, traversal := b.power, b.wallTraversal
	if owner, ok := l.characters[b.Owner]; ok {
		power, traversal = owner.BombPower, owner.BombWallTraversal
	}

	col, row := b.Tile.Col, b.Tile.Row
	blast := Blast{
		BombID: b.ID,
		Owner:  b.Owner,
		Col:    col,
		Row:    row,
		Reach:  []Cell{{col, row}},
	}
	for _, dir := range blastDirections {
		for distance := 1; distance <= power; distance++ {
			tile, err := l.grid.TileAt(col+dir.Col*distance, row+dir.Row*distance)
			if err != nil || tile.Kind == TileRock {
				break
			}
			blast.Reach = append(blast.Reach, Cell{tile.Col, tile.Row})
			if tile.Kind == TileBlock {
				blast.Changes = append(blast.Changes, l.DestroyBlock(tile))
				if !traversal {
					break
				}
			}
		}
	}

	l.removeBomb(b)
	l.blasts = append(l.blasts, blast)
}

func (l *Level) removeBomb(b *Bomb) {
	delete(l.bombs, b.ID)
	for i, id := range l.bombOrder {
		if id == b.ID {
			l.bombOrder = append(l.bombOrder[:i], l.bombOrder[i+1:]...)
			break
		}
	}
	if owner, ok := l.characters[b.Owner]; ok {
		for i, id := range owner.bombs {
			if id == b.ID {
				owner.bombs = append(owner.bombs[:i], owner.bombs[i+1:]...)
				break
			}
		}
	}
}
