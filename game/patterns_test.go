package game

import (
	"errors"
	"testing"
)

func markCells(cells ...Cell) MarkGrid {
	g := NewMarkGrid()
	for _, c := range cells {
		g.Mark(c[0], c[1])
	}
	return g
}

func TestEvaluate_Line(t *testing.T) {
	m := NewPatternMatcher()

	g := markCells(Cell{0, 0}, Cell{0, 1}, Cell{0, 2}, Cell{0, 3}, Cell{0, 4})
	res, err := m.Evaluate(g, "line1")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !res.Matched {
		t.Errorf("complete top row not matched, missing %v", res.Missing)
	}

	g2 := markCells(Cell{0, 0}, Cell{0, 1}, Cell{0, 3}, Cell{0, 4})
	res2, err := m.Evaluate(g2, "line1")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res2.Matched {
		t.Error("incomplete top row reported matched")
	}
	if len(res2.Missing) != 1 || res2.Missing[0] != (Cell{0, 2}) {
		t.Errorf("Missing = %v, want [[0 2]]", res2.Missing)
	}
}

func TestEvaluate_MiddleRowUsesFreeCenter(t *testing.T) {
	m := NewPatternMatcher()
	// Middle row minus the center, which is free.
	g := markCells(Cell{2, 0}, Cell{2, 1}, Cell{2, 3}, Cell{2, 4})
	res, err := m.Evaluate(g, "line3")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !res.Matched {
		t.Errorf("middle row with free center not matched, missing %v", res.Missing)
	}
}

func TestEvaluate_FullHouse(t *testing.T) {
	m := NewPatternMatcher()

	var g MarkGrid
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			g[r][c] = true
		}
	}
	g[FreeRow][FreeCol] = false // free cell is pre-satisfied regardless

	res, err := m.Evaluate(g, "full_house")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !res.Matched {
		t.Errorf("full card not matched as full house, missing %v", res.Missing)
	}

	g[4][4] = false
	res, err = m.Evaluate(g, "full_house")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Matched {
		t.Error("full house matched with an unmarked cell")
	}
	if len(res.Missing) != 1 || res.Missing[0] != (Cell{4, 4}) {
		t.Errorf("Missing = %v, want [[4 4]]", res.Missing)
	}
}

func TestEvaluate_UnknownPattern(t *testing.T) {
	m := NewPatternMatcher()
	if _, err := m.Evaluate(NewMarkGrid(), "nope"); !errors.Is(err, ErrPatternNotFound) {
		t.Errorf("Evaluate unknown = %v, want ErrPatternNotFound", err)
	}
}

func TestEvaluate_Pure(t *testing.T) {
	m := NewPatternMatcher()
	g := markCells(Cell{0, 0}, Cell{0, 4}, Cell{4, 0}, Cell{4, 4})

	first, err := m.Evaluate(g, "corners")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := m.Evaluate(g, "corners")
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if again.Matched != first.Matched || len(again.Missing) != len(first.Missing) {
			t.Fatal("repeated evaluation of the same grid differed")
		}
	}
}

func TestEvaluateAll_CatalogOrder(t *testing.T) {
	m := NewPatternMatcher()

	// Column 0 fully marked also completes nothing else except what
	// shares its cells; order must follow catalog declaration order.
	g := markCells(Cell{0, 0}, Cell{1, 0}, Cell{2, 0}, Cell{3, 0}, Cell{4, 0})
	got := m.EvaluateAll(g, nil)
	if len(got) != 1 || got[0].PatternID != "col1" {
		ids := make([]string, len(got))
		for i, r := range got {
			ids[i] = r.PatternID
		}
		t.Fatalf("EvaluateAll = %v, want [col1]", ids)
	}

	// Full grid: every pattern matches in declaration order.
	var full MarkGrid
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			full[r][c] = true
		}
	}
	all := m.EvaluateAll(full, nil)
	list := m.List()
	if len(all) != len(list) {
		t.Fatalf("EvaluateAll on full grid = %d results, want %d", len(all), len(list))
	}
	for i := range all {
		if all[i].PatternID != list[i].ID {
			t.Errorf("result %d = %s, want %s (catalog order)", i, all[i].PatternID, list[i].ID)
		}
	}
}

func TestEvaluateAll_EnabledSubset(t *testing.T) {
	m := NewPatternMatcher()
	var full MarkGrid
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			full[r][c] = true
		}
	}
	got := m.EvaluateAll(full, []string{"corners", "line1", "bogus"})
	if len(got) != 2 {
		t.Fatalf("EvaluateAll subset returned %d results, want 2", len(got))
	}
	// Catalog order, not the order of the enabled list.
	if got[0].PatternID != "line1" || got[1].PatternID != "corners" {
		t.Errorf("subset order = [%s %s], want [line1 corners]", got[0].PatternID, got[1].PatternID)
	}
}

func TestDiffNewMatches(t *testing.T) {
	m := NewPatternMatcher()
	g := markCells(Cell{0, 0}, Cell{0, 1}, Cell{0, 2}, Cell{0, 3}, Cell{0, 4},
		Cell{1, 0}, Cell{1, 1})

	already := map[string]bool{"line1": true}
	got := m.DiffNewMatches(g, nil, already)
	for _, res := range got {
		if already[res.PatternID] {
			t.Errorf("DiffNewMatches returned already-matched %s", res.PatternID)
		}
	}
	if len(got) != 1 || got[0].PatternID != "postage_stamp" {
		ids := make([]string, len(got))
		for i, r := range got {
			ids[i] = r.PatternID
		}
		t.Errorf("DiffNewMatches = %v, want [postage_stamp]", ids)
	}
}

func TestRegisterRemove(t *testing.T) {
	m := NewPatternMatcher()

	custom := Pattern{ID: "letter_x", Name: "Letter X", Cells: []Cell{
		{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}, {0, 4}, {1, 3}, {3, 1}, {4, 0},
	}}
	if err := m.Register(custom); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := m.Register(custom); !errors.Is(err, ErrPatternExists) {
		t.Errorf("duplicate Register = %v, want ErrPatternExists", err)
	}

	g := markCells(custom.Cells...)
	res, err := m.Evaluate(g, "letter_x")
	if err != nil {
		t.Fatalf("Evaluate custom failed: %v", err)
	}
	if !res.Matched {
		t.Error("custom pattern not matched")
	}

	if err := m.Remove("letter_x"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := m.Remove("letter_x"); !errors.Is(err, ErrPatternNotFound) {
		t.Errorf("second Remove = %v, want ErrPatternNotFound", err)
	}
	if _, err := m.Evaluate(g, "letter_x"); !errors.Is(err, ErrPatternNotFound) {
		t.Errorf("Evaluate removed = %v, want ErrPatternNotFound", err)
	}
}
