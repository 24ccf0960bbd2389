package game

import (
	"math/rand"

	"github.com/google/uuid"
)

const (
	GridSize = 5
	// FreeRow and FreeCol locate the permanent free space.
	FreeRow = 2
	FreeCol = 2

	// Numbers per letter band (B:1-15 ... O:61-75).
	bandWidth = 15

	// Retry budget for finding a fresh number inside a column band.
	maxColumnAttempts = 50
)

// Letters indexes the five columns.
var Letters = [GridSize]string{"B", "I", "N", "G", "O"}

// LetterFor maps a drawn number onto its column letter. Returns "" for
// numbers outside 1-75.
func LetterFor(n int) string {
	if n < 1 || n > GridSize*bandWidth {
		return ""
	}
	return Letters[(n-1)/bandWidth]
}

// Card is a 5x5 bingo card. Numbers[FreeRow][FreeCol] is 0: the free
// space. Every other cell in column c lies in that column's 15-wide
// band and is unique within the column.
type Card struct {
	ID      string                  `json:"cardId"`
	Numbers [GridSize][GridSize]int `json:"numbers"`
}

// NewCard generates a validated card. Column numbers are drawn at
// random with a bounded retry budget per cell; exceeding it fails with
// ErrCardGeneration.
func NewCard(rng *rand.Rand) (*Card, error) {
	c := &Card{ID: uuid.NewString()}
	for col := 0; col < GridSize; col++ {
		lo := col*bandWidth + 1
		used := make(map[int]bool, GridSize)
		for row := 0; row < GridSize; row++ {
			if row == FreeRow && col == FreeCol {
				continue
			}
			n, ok := pickUnused(rng, lo, used)
			if !ok {
				return nil, ErrCardGeneration
			}
			used[n] = true
			c.Numbers[row][col] = n
		}
	}
	return c, nil
}

func pickUnused(rng *rand.Rand, lo int, used map[int]bool) (int, bool) {
	for i := 0; i < maxColumnAttempts; i++ {
		n := lo + rng.Intn(bandWidth)
		if !used[n] {
			return n, true
		}
	}
	return 0, false
}

// Find returns the cell holding n, if the card carries it.
func (c *Card) Find(n int) (row, col int, ok bool) {
	if n < 1 {
		return 0, 0, false
	}
	col = (n - 1) / bandWidth
	if col >= GridSize {
		return 0, 0, false
	}
	for row = 0; row < GridSize; row++ {
		if row == FreeRow && col == FreeCol {
			continue
		}
		if c.Numbers[row][col] == n {
			return row, col, true
		}
	}
	return 0, 0, false
}

// Validate re-checks the card invariants: free center, per-column band
// membership, and per-column uniqueness.
func (c *Card) Validate() bool {
	if c.Numbers[FreeRow][FreeCol] != 0 {
		return false
	}
	for col := 0; col < GridSize; col++ {
		lo := col*bandWidth + 1
		hi := lo + bandWidth - 1
		seen := make(map[int]bool, GridSize)
		for row := 0; row < GridSize; row++ {
			if row == FreeRow && col == FreeCol {
				continue
			}
			n := c.Numbers[row][col]
			if n < lo || n > hi || seen[n] {
				return false
			}
			seen[n] = true
		}
	}
	return true
}

// MarkGrid tracks which cells of one card are daubed. The center is
// always marked.
type MarkGrid [GridSize][GridSize]bool

// NewMarkGrid returns a grid with only the free space marked.
func NewMarkGrid() MarkGrid {
	var g MarkGrid
	g[FreeRow][FreeCol] = true
	return g
}

// Mark daubs a cell. Idempotent; reports whether the cell was newly
// marked.
func (g *MarkGrid) Mark(row, col int) bool {
	if g[row][col] {
		return false
	}
	g[row][col] = true
	return true
}

func (g *MarkGrid) Marked(row, col int) bool { return g[row][col] }

// ReplayMarks rebuilds the mark grid a card must have after the given
// draw sequence. Marks are a pure function of card plus draw history,
// which is what makes crashed rooms recoverable from a snapshot.
func ReplayMarks(c *Card, draws []int) MarkGrid {
	g := NewMarkGrid()
	for _, n := range draws {
		if row, col, ok := c.Find(n); ok {
			g.Mark(row, col)
		}
	}
	return g
}
