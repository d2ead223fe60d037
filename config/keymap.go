package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"bomberman/server/game"
)

// Key names accepted in place of numeric codes
var keyAliases = map[string]game.KeyCode{
	"up":    game.KeyCodeUp,
	"down":  game.KeyCodeDown,
	"right": game.KeyCodeRight,
	"left":  game.KeyCodeLeft,
	"space": game.KeyCodeSpace,
}

type keymapFile struct {
	Keys map[string]string `toml:"keys"`
}

// ParseKeymap reads a TOML keymap:
//
//	[keys]
//	273 = "+up"
//	space = "bomb"
//
// An empty or missing [keys] table yields the default keymap.
func ParseKeymap(data []byte) (game.Keymap, error) {
	var f keymapFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("keymap parse: %w", err)
	}
	if len(f.Keys) == 0 {
		return game.DefaultKeymap(), nil
	}

	raw := make(map[game.KeyCode]string, len(f.Keys))
	for name, spec := range f.Keys {
		code, err := resolveKey(name)
		if err != nil {
			return nil, err
		}
		raw[code] = spec
	}
	return game.NewKeymap(raw)
}

// LoadKeymapFile reads and parses a keymap file. An empty path yields the
// default keymap.
func LoadKeymapFile(path string) (game.Keymap, error) {
	if path == "" {
		return game.DefaultKeymap(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keymap %s: %w", path, err)
	}
	return ParseKeymap(data)
}

func resolveKey(name string) (game.KeyCode, error) {
	if code, ok := keyAliases[strings.ToLower(name)]; ok {
		return code, nil
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid key %q", name)
	}
	return game.KeyCode(n), nil
}
