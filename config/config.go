package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"bomberman/server/game"
	"bomberman/server/models"
)

// Config holds the server settings read from the environment
type Config struct {
	Port        string
	DBType      string
	DatabaseURL string
	DBFile      string
	BoltFile    string
	MapName     string
	TickRate    int
	QueueSize   int
	KeymapFile  string
	BombFuse    time.Duration
	// LevelWidth and LevelHeight are the world size of the level. Zero
	// means one reference tile size per tile.
	LevelWidth  float64
	LevelHeight float64
}

// Default returns the settings used when no variable is set
func Default() Config {
	return Config{
		Port:        "8080",
		DBType:      "json",
		DatabaseURL: "host=localhost user=bomberman password=bomberman dbname=bomberman sslmode=disable",
		DBFile:      "db.json",
		BoltFile:    "arena.db",
		MapName:     models.DefaultMapName,
		TickRate:    60,
		QueueSize:   1024,
		BombFuse:    game.DefaultFuse,
	}
}

// Load reads the configuration from the environment. Malformed numeric
// values are logged and left at their defaults.
func Load() Config {
	return load(os.Getenv)
}

func load(getenv func(string) string) Config {
	cfg := Default()

	if v := getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := getenv("DB_TYPE"); v != "" {
		cfg.DBType = strings.ToLower(v)
	}
	if v := getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := getenv("DB_FILE"); v != "" {
		cfg.DBFile = v
	}
	if v := getenv("BOLT_FILE"); v != "" {
		cfg.BoltFile = v
	}
	if v := getenv("MAP_NAME"); v != "" {
		cfg.MapName = v
	}
	cfg.KeymapFile = getenv("KEYMAP_FILE")

	if raw := getenv("TICK_RATE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.TickRate = value
		} else {
			log.Printf("invalid TICK_RATE=%q, using %d", raw, cfg.TickRate)
		}
	}
	if raw := getenv("QUEUE_SIZE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.QueueSize = value
		} else {
			log.Printf("invalid QUEUE_SIZE=%q, using %d", raw, cfg.QueueSize)
		}
	}
	if raw := getenv("BOMB_FUSE"); raw != "" {
		if value, err := time.ParseDuration(raw); err == nil && value > 0 {
			cfg.BombFuse = value
		} else {
			log.Printf("invalid BOMB_FUSE=%q, using %s", raw, cfg.BombFuse)
		}
	}
	if raw := getenv("LEVEL_SIZE"); raw != "" {
		if w, h, err := ParseSize(raw); err == nil {
			cfg.LevelWidth, cfg.LevelHeight = w, h
		} else {
			log.Printf("invalid LEVEL_SIZE=%q: %v", raw, err)
		}
	}
	return cfg
}

// ParseSize reads a "WIDTHxHEIGHT" world size such as "650x390"
func ParseSize(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("expected WIDTHxHEIGHT, got %q", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(ws), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size must be positive, got %q", s)
	}
	return w, h, nil
}

// LevelOptions turns the level settings into game options
func (c Config) LevelOptions() []game.Option {
	opts := []game.Option{game.WithFuse(c.BombFuse)}
	if c.LevelWidth > 0 && c.LevelHeight > 0 {
		opts = append(opts, game.WithBounds(game.Rect{W: c.LevelWidth, H: c.LevelHeight}))
	}
	return opts
}
