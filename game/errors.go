package game

import "errors"

var (
	// ErrInvalidCoordinate is returned for grid lookups outside the map
	ErrInvalidCoordinate = errors.New("invalid coordinates")
	// ErrInvalidPosition is returned for world positions outside the level bounds
	ErrInvalidPosition = errors.New("invalid position")
	// ErrNoSpawnAvailable is returned when every spawn slot is taken
	ErrNoSpawnAvailable = errors.New("no spawns remaining in map")
	// ErrUnknownTileKind is returned when a tile kind name has no constructor
	ErrUnknownTileKind = errors.New("unknown tile kind")
	// ErrUnknownSymbol is returned when map data uses a symbol missing from the legend
	ErrUnknownSymbol = errors.New("unknown map symbol")
	// ErrNoSpawn is returned when a map has no spawn tile
	ErrNoSpawn = errors.New("no spawn in map")
	// ErrLayoutSize is returned when map data does not fill width by height
	ErrLayoutSize = errors.New("map data does not match map size")
	// ErrUnknownAction is returned for binding names that are not actions
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnknownCharacter is returned for IDs that are not registered in the level
	ErrUnknownCharacter = errors.New("character not found")
)
