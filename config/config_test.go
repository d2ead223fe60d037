package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bomberman/server/game"
)

func TestLoadDefaults(t *testing.T) {
	cfg := load(func(string) string { return "" })
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if len(cfg.LevelOptions()) != 1 {
		t.Fatalf("expected only the fuse option without LEVEL_SIZE")
	}
}

func TestLoadFromEnv(t *testing.T) {
	env := map[string]string{
		"PORT":       "9000",
		"DB_TYPE":    "Bolt",
		"TICK_RATE":  "30",
		"BOMB_FUSE":  "1500ms",
		"LEVEL_SIZE": "650x390",
		"MAP_NAME":   "tiny",
	}
	cfg := load(func(k string) string { return env[k] })

	if cfg.Port != "9000" || cfg.DBType != "bolt" || cfg.MapName != "tiny" {
		t.Fatalf("unexpected strings %+v", cfg)
	}
	if cfg.TickRate != 30 || cfg.BombFuse != 1500*time.Millisecond {
		t.Fatalf("unexpected numbers %+v", cfg)
	}
	if cfg.LevelWidth != 650 || cfg.LevelHeight != 390 {
		t.Fatalf("unexpected level size %vx%v", cfg.LevelWidth, cfg.LevelHeight)
	}
	if len(cfg.LevelOptions()) != 2 {
		t.Fatalf("expected fuse and bounds options")
	}
}

func TestLoadKeepsDefaultsOnBadNumbers(t *testing.T) {
	env := map[string]string{"TICK_RATE": "fast", "BOMB_FUSE": "-1s", "LEVEL_SIZE": "big"}
	cfg := load(func(k string) string { return env[k] })
	def := Default()
	if cfg.TickRate != def.TickRate || cfg.BombFuse != def.BombFuse || cfg.LevelWidth != 0 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestParseKeymap(t *testing.T) {
	data := []byte(`
[keys]
119 = "+up"
115 = "+down"
space = "bomb"
left = "-right"
`)
	km, err := ParseKeymap(data)
	if err != nil {
		t.Fatalf("ParseKeymap: %v", err)
	}
	want := game.Keymap{
		119:               {Action: game.ActionUp, Mode: game.ModeMomentary},
		115:               {Action: game.ActionDown, Mode: game.ModeMomentary},
		game.KeyCodeSpace: {Action: game.ActionBomb, Mode: game.ModeOneShot},
		game.KeyCodeLeft:  {Action: game.ActionRight, Mode: game.ModeReverse},
	}
	if len(km) != len(want) {
		t.Fatalf("expected %d bindings, got %+v", len(want), km)
	}
	for code, b := range want {
		if km[code] != b {
			t.Errorf("key %d = %+v, want %+v", code, km[code], b)
		}
	}
}

func TestParseKeymapErrors(t *testing.T) {
	if _, err := ParseKeymap([]byte("[keys]\n273 = \"+jump\"\n")); !errors.Is(err, game.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if _, err := ParseKeymap([]byte("[keys]\nescape = \"+up\"\n")); err == nil {
		t.Fatalf("expected error for unknown key name")
	}
	if _, err := ParseKeymap([]byte("[keys\n")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadKeymapFile(t *testing.T) {
	km, err := LoadKeymapFile("")
	if err != nil || len(km) != len(game.DefaultKeymap()) {
		t.Fatalf("empty path = %+v, %v", km, err)
	}

	path := filepath.Join(t.TempDir(), "keys.toml")
	if err := os.WriteFile(path, []byte("[keys]\n32 = \"bomb\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	km, err = LoadKeymapFile(path)
	if err != nil {
		t.Fatalf("LoadKeymapFile: %v", err)
	}
	if len(km) != 1 || km[game.KeyCodeSpace].Action != game.ActionBomb {
		t.Fatalf("unexpected keymap %+v", km)
	}
	if _, err := LoadKeymapFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
