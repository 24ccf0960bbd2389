package game

// Cell addresses one grid position as (row, col).
type Cell [2]int

// Pattern is a named winning shape. FullHouse patterns ignore Cells and
// require every non-free cell instead.
type Pattern struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Cells     []Cell `json:"cells,omitempty"`
	FullHouse bool   `json:"fullHouse,omitempty"`
}

// MatchResult reports one pattern evaluation.
type MatchResult struct {
	PatternID   string `json:"patternId"`
	PatternName string `json:"patternName"`
	Matched     bool   `json:"matched"`
	Missing     []Cell `json:"missingCells,omitempty"`
}

// PatternMatcher holds the pattern catalog. Evaluation order is the
// registration order, so results are deterministic. Patterns are data:
// custom shapes can be added or removed without touching evaluation.
type PatternMatcher struct {
	order []string
	byID  map[string]*Pattern
}

func row(r int) []Cell {
	cells := make([]Cell, GridSize)
	for c := 0; c < GridSize; c++ {
		cells[c] = Cell{r, c}
	}
	return cells
}

func column(c int) []Cell {
	cells := make([]Cell, GridSize)
	for r := 0; r < GridSize; r++ {
		cells[r] = Cell{r, c}
	}
	return cells
}

// NewPatternMatcher builds the stock catalog: five rows, five columns,
// both diagonals, four corners, postage stamp, small diamond, and full
// house.
func NewPatternMatcher() *PatternMatcher {
	m := &PatternMatcher{byID: make(map[string]*Pattern)}
	stock := []Pattern{
		{ID: "line1", Name: "Top Row", Cells: row(0)},
		{ID: "line2", Name: "Second Row", Cells: row(1)},
		{ID: "line3", Name: "Middle Row", Cells: row(2)},
		{ID: "line4", Name: "Fourth Row", Cells: row(3)},
		{ID: "line5", Name: "Bottom Row", Cells: row(4)},
		{ID: "col1", Name: "First Column", Cells: column(0)},
		{ID: "col2", Name: "Second Column", Cells: column(1)},
		{ID: "col3", Name: "Third Column", Cells: column(2)},
		{ID: "col4", Name: "Fourth Column", Cells: column(3)},
		{ID: "col5", Name: "Fifth Column", Cells: column(4)},
		{ID: "diag1", Name: "Main Diagonal", Cells: []Cell{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}},
		{ID: "diag2", Name: "Anti Diagonal", Cells: []Cell{{0, 4}, {1, 3}, {2, 2}, {3, 1}, {4, 0}}},
		{ID: "corners", Name: "Four Corners", Cells: []Cell{{0, 0}, {0, 4}, {4, 0}, {4, 4}}},
		{ID: "postage_stamp", Name: "Postage Stamp", Cells: []Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
		{ID: "small_diamond", Name: "Small Diamond", Cells: []Cell{{1, 2}, {2, 1}, {2, 2}, {2, 3}, {3, 2}}},
		{ID: "full_house", Name: "Full House", FullHouse: true},
	}
	for i := range stock {
		p := stock[i]
		m.order = append(m.order, p.ID)
		m.byID[p.ID] = &p
	}
	return m
}

// Register adds a custom pattern. Duplicate ids fail with
// ErrPatternExists.
func (m *PatternMatcher) Register(p Pattern) error {
	if _, ok := m.byID[p.ID]; ok {
		return ErrPatternExists
	}
	m.order = append(m.order, p.ID)
	m.byID[p.ID] = &p
	return nil
}

// Remove drops a pattern from the catalog.
func (m *PatternMatcher) Remove(id string) error {
	if _, ok := m.byID[id]; !ok {
		return ErrPatternNotFound
	}
	delete(m.byID, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get looks up one pattern.
func (m *PatternMatcher) Get(id string) (*Pattern, bool) {
	p, ok := m.byID[id]
	return p, ok
}

// List returns the catalog in registration order.
func (m *PatternMatcher) List() []Pattern {
	out := make([]Pattern, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.byID[id])
	}
	return out
}

// Evaluate checks one pattern against a mark grid. Full house treats
// the free center as pre-satisfied and requires the other 24 cells.
func (m *PatternMatcher) Evaluate(grid MarkGrid, patternID string) (MatchResult, error) {
	p, ok := m.byID[patternID]
	if !ok {
		return MatchResult{}, ErrPatternNotFound
	}
	res := MatchResult{PatternID: p.ID, PatternName: p.Name, Matched: true}
	if p.FullHouse {
		for r := 0; r < GridSize; r++ {
			for c := 0; c < GridSize; c++ {
				if r == FreeRow && c == FreeCol {
					continue
				}
				if !grid[r][c] {
					res.Matched = false
					res.Missing = append(res.Missing, Cell{r, c})
				}
			}
		}
		return res, nil
	}
	for _, cell := range p.Cells {
		if !grid[cell[0]][cell[1]] {
			res.Matched = false
			res.Missing = append(res.Missing, cell)
		}
	}
	return res, nil
}

// EvaluateAll checks the enabled patterns in catalog order and returns
// the matched ones. Unknown ids in enabled are skipped. A nil enabled
// slice means the whole catalog.
func (m *PatternMatcher) EvaluateAll(grid MarkGrid, enabled []string) []MatchResult {
	ids := m.order
	if enabled != nil {
		allow := make(map[string]bool, len(enabled))
		for _, id := range enabled {
			allow[id] = true
		}
		ids = make([]string, 0, len(enabled))
		for _, id := range m.order {
			if allow[id] {
				ids = append(ids, id)
			}
		}
	}
	var matched []MatchResult
	for _, id := range ids {
		res, err := m.Evaluate(grid, id)
		if err == nil && res.Matched {
			matched = append(matched, res)
		}
	}
	return matched
}

// DiffNewMatches returns matches not already present in alreadyMatched,
// in catalog order. Used after every mark so the same pattern is never
// announced twice.
func (m *PatternMatcher) DiffNewMatches(grid MarkGrid, enabled []string, alreadyMatched map[string]bool) []MatchResult {
	var fresh []MatchResult
	for _, res := range m.EvaluateAll(grid, enabled) {
		if !alreadyMatched[res.PatternID] {
			fresh = append(fresh, res)
		}
	}
	return fresh
}
