package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"bomberman/server/config"
	"bomberman/server/game"
	"bomberman/server/models"
)

const localPlayer game.CharacterID = "local"

var tileRunes = map[game.TileKind]rune{
	game.TileGrass: ' ',
	game.TileBlock: '▒',
	game.TileRock:  '█',
	game.TileSpawn: '·',
}

var tileStyles = map[game.TileKind]tcell.Style{
	game.TileGrass: tcell.StyleDefault,
	game.TileBlock: tcell.StyleDefault.Foreground(tcell.ColorOlive),
	game.TileRock:  tcell.StyleDefault.Foreground(tcell.ColorGray),
	game.TileSpawn: tcell.StyleDefault.Foreground(tcell.ColorGreen),
}

// Arena is a local single player session drawn in the terminal
type Arena struct {
	screen tcell.Screen
	level  *game.Level
	player *game.Character
	keys   *keyTracker
	blasts map[game.Cell]time.Time
}

func NewArena(cfg config.Config) (*Arena, error) {
	keymap, err := config.LoadKeymapFile(cfg.KeymapFile)
	if err != nil {
		return nil, err
	}
	level, err := game.NewLevel(models.DefaultMapLayout(), cfg.LevelOptions()...)
	if err != nil {
		return nil, err
	}
	player := game.NewCharacter(localPlayer, "you", keymap)
	if _, err := level.Spawn(player); err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	return &Arena{
		screen: screen,
		level:  level,
		player: player,
		keys:   newKeyTracker(),
		blasts: make(map[game.Cell]time.Time),
	}, nil
}

func (a *Arena) handleInput(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		code, ok := keyCode(ev.Key(), ev.Rune())
		if !ok {
			return true
		}
		if a.keys.press(code, now) {
			a.player.ApplyKeyEvent(game.KeyDown, code)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *Arena) step(dt time.Duration, now time.Time) {
	for _, code := range a.keys.expire(now) {
		a.player.ApplyKeyEvent(game.KeyUp, code)
	}
	res := a.level.Step(dt)
	for _, b := range res.Blasts {
		a.blasts[game.Cell{Col: b.Col, Row: b.Row}] = now
		for _, c := range b.Reach {
			a.blasts[c] = now
		}
	}
	for c, at := range a.blasts {
		if now.Sub(at) > 300*time.Millisecond {
			delete(a.blasts, c)
		}
	}
}

// Each tile is two cells wide so the grid looks square
func (a *Arena) setTile(col, row int, r rune, style tcell.Style) {
	a.screen.SetContent(col*2, row+1, r, nil, style)
	a.screen.SetContent(col*2+1, row+1, r, nil, style)
}

func (a *Arena) draw() {
	a.screen.Clear()
	snap := a.level.Snapshot()

	for i, kind := range snap.Tiles {
		col, row := i%snap.Width, i/snap.Width
		a.setTile(col, row, tileRunes[kind], tileStyles[kind])
	}
	for _, b := range snap.Bombs {
		a.setTile(b.Col, b.Row, '●', tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
	fire := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for c := range a.blasts {
		a.setTile(c.Col, c.Row, '*', fire)
	}
	for _, c := range snap.Characters {
		col, row, err := a.level.WorldToGrid(c.X, c.Y)
		if err != nil {
			continue
		}
		a.setTile(col, row, '@', tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true))
	}

	me := snap.Characters[0]
	status := fmt.Sprintf("tick %d  pos %.0f,%.0f  bombs %d  arrows move, space drops, q quits",
		snap.Tick, me.X, me.Y, me.BombCount)
	for i, r := range status {
		a.screen.SetContent(i, 0, r, nil, tcell.StyleDefault)
	}
	a.screen.Show()
}

func (a *Arena) run(rate int) {
	dt := time.Second / time.Duration(rate)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev, time.Now()) {
				return
			}
		case now := <-ticker.C:
			a.step(dt, now)
			a.draw()
		}
	}
}

func (a *Arena) cleanup() {
	a.screen.Fini()
}

func main() {
	cfg := config.Load()

	arena, err := NewArena(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer arena.cleanup()

	arena.run(cfg.TickRate)
}
