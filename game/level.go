package game

import (
	"fmt"
	"math"
	"time"

	"bomberman/server/models"
)

// ReferenceTileSize is the tile footprint, in world units, at which a
// character's scale is 1. Radius and speed are expressed against it.
const ReferenceTileSize = 100.0

// DefaultFuse is how long a bomb stays armed
const DefaultFuse = 3 * time.Second

// Rect is an axis-aligned rectangle in world units
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

type spawnSlot struct {
	index    int
	occupant CharacterID
}

// Spawned is the result of a successful spawn
type Spawned struct {
	Col   int     `json:"col"`
	Row   int     `json:"row"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// StepResult collects what happened during one Level.Step
type StepResult struct {
	Tick   uint64
	Placed []BombView
	Blasts []Blast
}

// Level owns the grid, the spawn slots and every live character and bomb
type Level struct {
	grid   *GridMap
	bounds Rect
	fuse   time.Duration
	clock  *Clock

	spawns []spawnSlot

	characters map[CharacterID]*Character
	order      []CharacterID

	bombs     map[BombID]*Bomb
	bombOrder []BombID
	nextBomb  BombID

	tick   uint64
	placed []BombView
	blasts []Blast
}

// Option configures a Level at construction
type Option func(*Level)

// WithBounds places the level in world space. The default is one
// ReferenceTileSize square per tile, origin at zero.
func WithBounds(r Rect) Option {
	return func(l *Level) { l.bounds = r }
}

// WithFuse overrides the bomb fuse duration
func WithFuse(d time.Duration) Option {
	return func(l *Level) { l.fuse = d }
}

// WithClock shares an existing clock with the level
func WithClock(c *Clock) Option {
	return func(l *Level) { l.clock = c }
}

// NewLevel builds a level from a map layout. It fails when the layout is
// malformed, names an unknown tile kind, or has no spawn.
func NewLevel(layout *models.MapLayout, opts ...Option) (*Level, error) {
	if layout == nil || layout.Width <= 0 || layout.Height <= 0 {
		return nil, fmt.Errorf("%w: empty map", ErrLayoutSize)
	}
	if len(layout.Data) != layout.Width*layout.Height {
		return nil, fmt.Errorf("%w: %dx%d needs %d symbols, got %d",
			ErrLayoutSize, layout.Width, layout.Height, layout.Width*layout.Height, len(layout.Data))
	}

	spawnSymbols := make(map[string]bool)
	for symbol, name := range layout.Legend {
		if name == TileSpawn.String() {
			spawnSymbols[symbol] = true
		}
	}
	if len(spawnSymbols) == 0 {
		return nil, fmt.Errorf("%w tiles description", ErrNoSpawn)
	}

	l := &Level{
		grid:       NewGridMap(layout.Width, layout.Height),
		fuse:       DefaultFuse,
		characters: make(map[CharacterID]*Character),
		bombs:      make(map[BombID]*Bomb),
	}
	l.bounds = Rect{W: float64(layout.Width) * ReferenceTileSize, H: float64(layout.Height) * ReferenceTileSize}
	for _, opt := range opts {
		opt(l)
	}
	if l.clock == nil {
		l.clock = NewClock()
	}

	for index, symbol := range layout.Data {
		name, ok := layout.Legend[symbol]
		if !ok {
			return nil, fmt.Errorf("%w %q at index %d", ErrUnknownSymbol, symbol, index)
		}
		ctor, err := defaultRegistry.Lookup(name)
		if err != nil {
			return nil, err
		}
		tile := ctor()
		l.grid.place(index, tile)
		if tile.Kind == TileSpawn {
			l.spawns = append(l.spawns, spawnSlot{index: index})
		}
	}
	if len(l.spawns) == 0 {
		return nil, fmt.Errorf("%w tiles data", ErrNoSpawn)
	}

	return l, nil
}

func (l *Level) Grid() *GridMap { return l.grid }
func (l *Level) Bounds() Rect   { return l.bounds }
func (l *Level) Clock() *Clock  { return l.clock }
func (l *Level) Tick() uint64   { return l.tick }

// Fuse returns the fuse duration given to new bombs
func (l *Level) Fuse() time.Duration { return l.fuse }

// TileSize returns the world footprint of one tile
func (l *Level) TileSize() (float64, float64) {
	return l.bounds.W / float64(l.grid.width), l.bounds.H / float64(l.grid.height)
}

// SpawnSlots returns the number of spawn slots and how many are free
func (l *Level) SpawnSlots() (total, free int) {
	for _, s := range l.spawns {
		if s.occupant == "" {
			free++
		}
	}
	return len(l.spawns), free
}

// WorldToGrid converts a world position to the grid cell containing it
func (l *Level) WorldToGrid(x, y float64) (int, int, error) {
	b := l.bounds
	if x < b.X || y < b.Y || x > b.Right() || y > b.Bottom() {
		return 0, 0, fmt.Errorf("%w (%g, %g)", ErrInvalidPosition, x, y)
	}
	col := int(math.Floor((x - b.X) / b.W * float64(l.grid.width)))
	row := int(math.Floor((y - b.Y) / b.H * float64(l.grid.height)))
	// The far edges are inside the bounds but past the last cell.
	if col >= l.grid.width {
		col = l.grid.width - 1
	}
	if row >= l.grid.height {
		row = l.grid.height - 1
	}
	return col, row, nil
}

// CenterOf returns the world position of a cell's centre
func (l *Level) CenterOf(col, row int) (float64, float64, error) {
	if !l.grid.Contains(col, row) {
		return 0, 0, fmt.Errorf("%w (%d, %d)", ErrInvalidCoordinate, col, row)
	}
	x, y := l.ToWorld(float64(col)+.5, float64(row)+.5)
	return x, y, nil
}

// ToWorld converts a tile-space position to world units
func (l *Level) ToWorld(tx, ty float64) (float64, float64) {
	tw, th := l.TileSize()
	return l.bounds.X + tx*tw, l.bounds.Y + ty*th
}

// Spawn places a character on the next free spawn slot and registers it
func (l *Level) Spawn(c *Character) (Spawned, error) {
	if _, exists := l.characters[c.ID]; exists {
		return Spawned{}, fmt.Errorf("character %s already spawned", c.ID)
	}
	slot := -1
	for i := range l.spawns {
		if l.spawns[i].occupant == "" {
			slot = i
			break
		}
	}
	if slot < 0 {
		return Spawned{}, ErrNoSpawnAvailable
	}

	tile := l.grid.tiles[l.spawns[slot].index]
	tw, th := l.TileSize()
	c.Scale = math.Min(tw, th) / ReferenceTileSize
	c.X = float64(tile.Col) + .5
	c.Y = float64(tile.Row) + .5
	c.slot = slot

	l.spawns[slot].occupant = c.ID
	l.characters[c.ID] = c
	l.order = append(l.order, c.ID)

	x, y := l.ToWorld(c.X, c.Y)
	return Spawned{Col: tile.Col, Row: tile.Row, X: x, Y: y, Scale: c.Scale}, nil
}

// Remove unregisters a character and frees its spawn slot. Bombs it placed
// stay armed.
func (l *Level) Remove(id CharacterID) error {
	c, ok := l.characters[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCharacter, id)
	}
	l.spawns[c.slot].occupant = ""
	delete(l.characters, id)
	for i, oid := range l.order {
		if oid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	for _, b := range l.bombs {
		delete(b.exempt, id)
	}
	c.Input().Reset()
	return nil
}

// Character looks up a live character
func (l *Level) Character(id CharacterID) (*Character, bool) {
	c, ok := l.characters[id]
	return c, ok
}

// Characters returns the live characters in join order
func (l *Level) Characters() []*Character {
	out := make([]*Character, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.characters[id])
	}
	return out
}

// Bomb looks up a live bomb
func (l *Level) Bomb(id BombID) (*Bomb, bool) {
	b, ok := l.bombs[id]
	return b, ok
}

// Bombs returns the live bombs in placement order
func (l *Level) Bombs() []*Bomb {
	out := make([]*Bomb, 0, len(l.bombOrder))
	for _, id := range l.bombOrder {
		out = append(out, l.bombs[id])
	}
	return out
}

// BombAt returns the live bomb sitting on tile, if any
func (l *Level) BombAt(tile *Tile) *Bomb {
	for _, id := range l.bombOrder {
		if b := l.bombs[id]; b.Tile == tile {
			return b
		}
	}
	return nil
}

// IsBlocking reports whether tile stops the given character: solid tiles
// always do, a bomb's tile does unless the character is exempt from it.
func (l *Level) IsBlocking(tile *Tile, id CharacterID) bool {
	if tile == nil {
		return false
	}
	if tile.Kind.Solid() {
		return true
	}
	if b := l.BombAt(tile); b != nil && !b.Exempts(id) {
		return true
	}
	return false
}

func (l *Level) blockingAt(col, row int, id CharacterID) bool {
	tile, err := l.grid.TileAt(col, row)
	if err != nil {
		return false
	}
	return l.IsBlocking(tile, id)
}

// DestroyBlock turns a block into grass. Calling it on anything else is a
// bug in the caller and panics.
func (l *Level) DestroyBlock(tile *Tile) TileChange {
	if tile == nil || tile.Kind != TileBlock {
		panic(fmt.Sprintf("game: DestroyBlock on non-block tile %+v", tile))
	}
	if current, err := l.grid.TileAt(tile.Col, tile.Row); err != nil || current != tile {
		panic(fmt.Sprintf("game: DestroyBlock on detached tile %+v", tile))
	}
	l.grid.ReplaceTile(tile.Col, tile.Row, TileGrass)
	return TileChange{Col: tile.Col, Row: tile.Row, Old: TileBlock, New: TileGrass}
}

// PlaceBomb arms a bomb on the tile under the character. It reports false
// when the tile already holds a live bomb.
func (l *Level) PlaceBomb(id CharacterID) (*Bomb, bool) {
	c, ok := l.characters[id]
	if !ok {
		return nil, false
	}
	tile, err := l.tileUnder(c)
	if err != nil || l.BombAt(tile) != nil {
		return nil, false
	}

	l.nextBomb++
	b := &Bomb{
		ID:            l.nextBomb,
		Owner:         id,
		Tile:          tile,
		Fuse:          l.fuse,
		ArmedAt:       l.clock.Now(),
		power:         c.BombPower,
		wallTraversal: c.BombWallTraversal,
		exempt:        make(map[CharacterID]struct{}),
	}
	for _, oid := range l.order {
		other := l.characters[oid]
		if t, err := l.tileUnder(other); err == nil && t == tile {
			b.exempt[oid] = struct{}{}
		}
	}

	l.bombs[b.ID] = b
	l.bombOrder = append(l.bombOrder, b.ID)
	c.bombs = append(c.bombs, b.ID)
	bombID := b.ID
	b.timer = l.clock.Schedule(b.Fuse, func() { l.explode(bombID) })
	l.placed = append(l.placed, l.bombView(b))
	return b, true
}

func (l *Level) tileUnder(c *Character) (*Tile, error) {
	x, y := l.ToWorld(c.X, c.Y)
	col, row, err := l.WorldToGrid(x, y)
	if err != nil {
		return nil, err
	}
	return l.grid.TileAt(col, row)
}

// Step advances the level by one tick: characters update in join order,
// then the clock advances and due fuses fire.
func (l *Level) Step(dt time.Duration) StepResult {
	l.tick++
	for _, id := range append([]CharacterID(nil), l.order...) {
		if c, ok := l.characters[id]; ok {
			c.update(l, dt)
		}
	}
	l.clock.Advance(dt)

	res := StepResult{Tick: l.tick, Placed: l.placed, Blasts: l.blasts}
	l.placed = nil
	l.blasts = nil
	return res
}
