package game

import (
	"strings"
	"testing"
	"time"
)

func rowString(l *Level, row int) string {
	var sb strings.Builder
	for col := 0; col < l.Grid().Width(); col++ {
		tile, _ := l.Grid().TileAt(col, row)
		sb.WriteByte(" oxs"[tile.Kind])
	}
	return sb.String()
}

func TestSecondBombOnSameTileIsIgnored(t *testing.T) {
	l := newTestLevel(t, "s  ")
	c := spawnAt(t, l, "a", .5, .5)
	press(c, ActionBomb)
	press(c, ActionBomb)
	res := l.Step(tickDT)
	if len(res.Placed) != 1 {
		t.Fatalf("expected one placement, got %d", len(res.Placed))
	}
	press(c, ActionBomb)
	l.Step(tickDT)
	if got := len(l.Bombs()); got != 1 {
		t.Fatalf("expected 1 bomb on the tile, got %d", got)
	}
	if got := len(c.Bombs()); got != 1 {
		t.Fatalf("expected owner to hold 1 bomb, got %d", got)
	}
	if _, ok := l.PlaceBomb(c.ID); ok {
		t.Fatalf("PlaceBomb on an occupied tile must report false")
	}
}

func TestBlastPropagation(t *testing.T) {
	tests := []struct {
		name      string
		row       string
		power     int
		traversal bool
		want      string
	}{
		{"block then rock", "s ox", 2, false, "s  x"},
		{"stops at first block", "s oox", 5, false, "s  ox"},
		{"traversal stops at rock", "s ooxoo", 9, true, "s   xoo"},
		{"traversal limited by power", "soooo", 3, true, "s   o"},
		{"power limits reach", "s  o", 2, false, "s  o"},
		{"rock shields block", "sxo", 3, false, "sxo"},
		{"both sides", "o s o", 2, false, "  s  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLevel(t, tt.row)
			c := NewCharacter("a", "a", nil)
			if _, err := l.Spawn(c); err != nil {
				t.Fatalf("Spawn: %v", err)
			}
			c.BombPower = tt.power
			c.BombWallTraversal = tt.traversal
			if _, ok := l.PlaceBomb(c.ID); !ok {
				t.Fatalf("PlaceBomb failed")
			}
			res := l.Step(DefaultFuse)
			if len(res.Blasts) != 1 {
				t.Fatalf("expected one blast, got %d", len(res.Blasts))
			}
			if got := rowString(l, 0); got != tt.want {
				t.Fatalf("after blast %q, want %q", got, tt.want)
			}
			destroyed := strings.Count(tt.row, "o") - strings.Count(tt.want, "o")
			if len(res.Blasts[0].Changes) != destroyed {
				t.Fatalf("expected %d tile changes, got %+v", destroyed, res.Blasts[0].Changes)
			}
		})
	}
}

func TestBlastReach(t *testing.T) {
	l := newTestLevel(t, "s ox")
	c := spawnAt(t, l, "a", .5, .5)
	c.BombPower = 5
	l.PlaceBomb(c.ID)
	res := l.Step(DefaultFuse)
	want := []Cell{{0, 0}, {1, 0}, {2, 0}}
	if got := res.Blasts[0].Reach; len(got) != len(want) {
		t.Fatalf("reach = %v, want %v", got, want)
	}
	for i, cell := range want {
		if res.Blasts[0].Reach[i] != cell {
			t.Fatalf("reach = %v, want %v", res.Blasts[0].Reach, want)
		}
	}
}

func TestFuseExpiryRemovesBomb(t *testing.T) {
	l := newTestLevel(t, "s o")
	c := spawnAt(t, l, "a", .5, .5)
	press(c, ActionBomb)

	l.Step(time.Second)
	l.Step(time.Second)
	if len(l.Bombs()) != 1 || len(c.Bombs()) != 1 {
		t.Fatalf("bomb exploded early")
	}
	b := l.Bombs()[0]
	if b.State() != BombArmed {
		t.Fatalf("state = %v", b.State())
	}

	res := l.Step(time.Second)
	if len(res.Blasts) != 1 || res.Blasts[0].BombID != b.ID {
		t.Fatalf("expected bomb %d to explode, got %+v", b.ID, res.Blasts)
	}
	if b.State() != BombExploding {
		t.Fatalf("state = %v", b.State())
	}
	if len(l.Bombs()) != 0 || len(c.Bombs()) != 0 {
		t.Fatalf("bomb still registered: level %d, owner %d", len(l.Bombs()), len(c.Bombs()))
	}
	if _, ok := l.Bomb(b.ID); ok {
		t.Fatalf("bomb lookup still succeeds")
	}
	if got := rowString(l, 0); got != "s  " {
		t.Fatalf("row = %q", got)
	}
}

func TestBlastUsesLiveOwnerPower(t *testing.T) {
	l := newTestLevel(t, "s o")
	c := spawnAt(t, l, "a", .5, .5)
	c.BombPower = 1
	l.PlaceBomb(c.ID)
	c.BombPower = 2
	l.Step(DefaultFuse)
	if got := rowString(l, 0); got != "s  " {
		t.Fatalf("row = %q", got)
	}
}

func TestBlastAfterOwnerLeft(t *testing.T) {
	l := newTestLevel(t, "s o")
	c := spawnAt(t, l, "a", .5, .5)
	c.BombPower = 1
	l.PlaceBomb(c.ID)
	c.BombPower = 2
	if err := l.Remove(c.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	res := l.Step(DefaultFuse)
	if len(res.Blasts) != 1 {
		t.Fatalf("orphaned bomb did not explode")
	}
	if got := rowString(l, 0); got != "s o" {
		t.Fatalf("orphaned bomb should use its placement power, row = %q", got)
	}
}
