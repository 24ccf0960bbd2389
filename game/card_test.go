package game

import (
	"math/rand"
	"testing"
)

func TestNewCard_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		c, err := NewCard(rng)
		if err != nil {
			t.Fatalf("card %d: generation failed: %v", i, err)
		}
		if c.ID == "" {
			t.Fatalf("card %d: empty id", i)
		}
		if c.Numbers[FreeRow][FreeCol] != 0 {
			t.Fatalf("card %d: center = %d, want free (0)", i, c.Numbers[FreeRow][FreeCol])
		}
		for col := 0; col < GridSize; col++ {
			lo := col*15 + 1
			hi := lo + 14
			seen := make(map[int]bool)
			for row := 0; row < GridSize; row++ {
				if row == FreeRow && col == FreeCol {
					continue
				}
				n := c.Numbers[row][col]
				if n < lo || n > hi {
					t.Fatalf("card %d: cell (%d,%d) = %d, outside band %d-%d", i, row, col, n, lo, hi)
				}
				if seen[n] {
					t.Fatalf("card %d: duplicate %d in column %d", i, n, col)
				}
				seen[n] = true
			}
		}
		if !c.Validate() {
			t.Fatalf("card %d: Validate() = false for a generated card", i)
		}
	}
}

func TestCard_Find(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	c, err := NewCard(rng)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	n := c.Numbers[0][3]
	row, col, ok := c.Find(n)
	if !ok || row != 0 || col != 3 {
		t.Errorf("Find(%d) = (%d,%d,%v), want (0,3,true)", n, row, col, ok)
	}

	// A G-band number the card does not carry.
	for probe := 46; probe <= 60; probe++ {
		if _, _, ok := c.Find(probe); !ok {
			carried := false
			for row := 0; row < GridSize; row++ {
				if c.Numbers[row][3] == probe {
					carried = true
				}
			}
			if carried {
				t.Errorf("Find(%d) = false for a carried number", probe)
			}
		}
	}

	if _, _, ok := c.Find(0); ok {
		t.Error("Find(0) = true, want false")
	}
	if _, _, ok := c.Find(76); ok {
		t.Error("Find(76) = true, want false")
	}
}

func TestLetterFor(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "B"}, {15, "B"}, {16, "I"}, {30, "I"}, {31, "N"},
		{45, "N"}, {46, "G"}, {60, "G"}, {61, "O"}, {75, "O"},
		{0, ""}, {76, ""},
	}
	for _, c := range cases {
		if got := LetterFor(c.n); got != c.want {
			t.Errorf("LetterFor(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestReplayMarks_MatchesLiveMarks(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	c, err := NewCard(rng)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	p := NewStandardPool()
	live := NewMarkGrid()
	var history []int
	for i := 0; i < 40; i++ {
		n, err := p.Draw()
		if err != nil {
			t.Fatalf("draw failed: %v", err)
		}
		history = append(history, n)
		if row, col, ok := c.Find(n); ok {
			live.Mark(row, col)
		}

		// Every prefix of the history replays to the live grid.
		if got := ReplayMarks(c, history); got != live {
			t.Fatalf("after %d draws, replayed grid differs from live grid", i+1)
		}
	}
}

func TestMarkGrid_Idempotent(t *testing.T) {
	g := NewMarkGrid()
	if !g.Marked(FreeRow, FreeCol) {
		t.Fatal("center not marked on a fresh grid")
	}
	if !g.Mark(0, 0) {
		t.Error("first Mark(0,0) = false, want true")
	}
	if g.Mark(0, 0) {
		t.Error("second Mark(0,0) = true, want false")
	}
	if !g.Marked(0, 0) {
		t.Error("Marked(0,0) = false after marking")
	}
}
