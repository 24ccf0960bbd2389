package game

import (
	"math/rand"
	"time"
)

// NumberPool draws unique numbers without replacement from [min, max].
// It is pure state with no locking of its own: the owning coordinator
// serializes access.
type NumberPool struct {
	min       int
	max       int
	drawn     []int
	remaining []int
	drawnSet  map[int]bool
	rng       *rand.Rand
}

// NewNumberPool builds a pool over the inclusive range [min, max].
func NewNumberPool(min, max int) *NumberPool {
	p := &NumberPool{
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	p.Reset()
	return p
}

// NewStandardPool is the classic 75-ball pool.
func NewStandardPool() *NumberPool {
	return NewNumberPool(1, 75)
}

// Draw removes and returns a uniformly random remaining number.
// Fails with ErrPoolExhausted once every number has been drawn.
func (p *NumberPool) Draw() (int, error) {
	if len(p.remaining) == 0 {
		return 0, ErrPoolExhausted
	}
	i := p.rng.Intn(len(p.remaining))
	n := p.remaining[i]
	p.takeAt(i, n)
	return n, nil
}

// DrawSpecific removes a chosen number, bypassing randomness. Used by
// tests and debug tooling; otherwise identical to Draw.
func (p *NumberPool) DrawSpecific(n int) error {
	if n < p.min || n > p.max {
		return ErrOutOfRange
	}
	if p.drawnSet[n] {
		return ErrAlreadyDrawn
	}
	for i, rem := range p.remaining {
		if rem == n {
			p.takeAt(i, n)
			return nil
		}
	}
	return ErrAlreadyDrawn
}

// takeAt swap-removes remaining[i] and records n as drawn.
func (p *NumberPool) takeAt(i, n int) {
	last := len(p.remaining) - 1
	p.remaining[i] = p.remaining[last]
	p.remaining = p.remaining[:last]
	p.drawn = append(p.drawn, n)
	p.drawnSet[n] = true
}

// Reset restores the full range and clears the draw history.
func (p *NumberPool) Reset() {
	size := p.max - p.min + 1
	p.drawn = p.drawn[:0]
	p.remaining = make([]int, 0, size)
	p.drawnSet = make(map[int]bool, size)
	for n := p.min; n <= p.max; n++ {
		p.remaining = append(p.remaining, n)
	}
}

func (p *NumberPool) HasDrawn(n int) bool { return p.drawnSet[n] }

func (p *NumberPool) RemainingCount() int { return len(p.remaining) }

func (p *NumberPool) DrawnCount() int { return len(p.drawn) }

// Drawn returns the draw order so far.
func (p *NumberPool) Drawn() []int {
	return append([]int(nil), p.drawn...)
}
