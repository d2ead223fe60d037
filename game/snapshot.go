package game

// CharacterView is the wire-friendly state of a character, in world units
type CharacterView struct {
	ID        CharacterID `json:"id"`
	Name      string      `json:"name"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Radius    float64     `json:"radius"`
	Facing    Action      `json:"facing"`
	Moving    bool        `json:"moving"`
	BombCount int         `json:"bomb_count"`
}

// BombView is the wire-friendly state of a bomb
type BombView struct {
	ID        BombID      `json:"id"`
	Owner     CharacterID `json:"owner"`
	Col       int         `json:"col"`
	Row       int         `json:"row"`
	Remaining float64     `json:"remaining"` // seconds
	State     string      `json:"state"`
}

// Snapshot is a full copy of the visible level state
type Snapshot struct {
	Tick       uint64          `json:"tick"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Tiles      []TileKind      `json:"tiles"`
	Characters []CharacterView `json:"characters"`
	Bombs      []BombView      `json:"bombs"`
}

// Snapshot captures the current level state
func (l *Level) Snapshot() Snapshot {
	s := Snapshot{
		Tick:       l.tick,
		Width:      l.grid.width,
		Height:     l.grid.height,
		Tiles:      l.grid.Kinds(),
		Characters: make([]CharacterView, 0, len(l.order)),
		Bombs:      make([]BombView, 0, len(l.bombOrder)),
	}
	for _, c := range l.Characters() {
		s.Characters = append(s.Characters, l.characterView(c))
	}
	for _, b := range l.Bombs() {
		s.Bombs = append(s.Bombs, l.bombView(b))
	}
	return s
}

func (l *Level) characterView(c *Character) CharacterView {
	x, y := l.ToWorld(c.X, c.Y)
	tw, th := l.TileSize()
	return CharacterView{
		ID:        c.ID,
		Name:      c.Name,
		X:         x,
		Y:         y,
		Radius:    c.radiusTiles() * min(tw, th),
		Facing:    c.Facing,
		Moving:    c.Moving,
		BombCount: len(c.bombs),
	}
}

func (l *Level) bombView(b *Bomb) BombView {
	remaining, _ := l.clock.Remaining(b.timer)
	return BombView{
		ID:        b.ID,
		Owner:     b.Owner,
		Col:       b.Tile.Col,
		Row:       b.Tile.Row,
		Remaining: remaining.Seconds(),
		State:     b.state.String(),
	}
}
