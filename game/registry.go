package game

import "fmt"

// TileConstructor builds a fresh tile of one kind
type TileConstructor func() *Tile

// TileRegistry resolves tile kind names used in map legends
type TileRegistry struct {
	constructors map[string]TileConstructor
}

// NewTileRegistry creates a registry holding every known tile kind
func NewTileRegistry() *TileRegistry {
	r := &TileRegistry{constructors: make(map[string]TileConstructor, len(tileKindNames))}
	for i := range tileKindNames {
		kind := TileKind(i)
		r.constructors[kind.String()] = func() *Tile { return &Tile{Kind: kind} }
	}
	return r
}

// Lookup returns the constructor registered under name
func (r *TileRegistry) Lookup(name string) (TileConstructor, error) {
	ctor, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTileKind, name)
	}
	return ctor, nil
}

// Kind resolves a name straight to its tile kind
func (r *TileRegistry) Kind(name string) (TileKind, error) {
	ctor, err := r.Lookup(name)
	if err != nil {
		return 0, err
	}
	return ctor().Kind, nil
}

var defaultRegistry = NewTileRegistry()
