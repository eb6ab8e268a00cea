// Package match3 generates and manipulates match-3 gem boards.
//
// Coordinates are (x, y) with y growing downward: row 0 is the top row and
// gems fall toward larger y.
package match3

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/plus3/gemboard/geom"
)

// Board is a grid of gem types. A cell may be empty between Pop and Fill.
type Board struct {
	dims  geom.UVec2
	types uint32
	cells *intmap.Map[uint64, uint32]
	rng   *rand.Rand
}

// Move records a gem falling from From to To.
type Move struct {
	From, To geom.UVec2
}

// Placement records a new gem of Type at Pos.
type Placement struct {
	Pos  geom.UVec2
	Type uint32
}

// Generate builds a full board from cfg that contains no horizontal or
// vertical run of three or more gems of one type.
func Generate(cfg Config) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	b := newBoard(cfg.Dimensions, cfg.GemTypes, seed)
	for y := range b.dims.Y {
		for x := range b.dims.X {
			pos := geom.NewUVec2(x, y)
			b.cells.Put(pos.Pack(), b.pickFor(pos))
		}
	}
	return b, nil
}

func newBoard(dims geom.UVec2, types uint32, seed uint64) *Board {
	return &Board{
		dims:  dims,
		types: types,
		cells: intmap.New[uint64, uint32](int(dims.X) * int(dims.Y)),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// pickFor returns a random type that does not complete a run of three with
// the two cells to the left or the two cells above pos.
func (b *Board) pickFor(pos geom.UVec2) uint32 {
	var banned [2]uint32
	n := 0
	if pos.X >= 2 {
		l1, ok1 := b.Get(geom.NewUVec2(pos.X-1, pos.Y))
		l2, ok2 := b.Get(geom.NewUVec2(pos.X-2, pos.Y))
		if ok1 && ok2 && l1 == l2 {
			banned[n] = l1
			n++
		}
	}
	if pos.Y >= 2 {
		u1, ok1 := b.Get(geom.NewUVec2(pos.X, pos.Y-1))
		u2, ok2 := b.Get(geom.NewUVec2(pos.X, pos.Y-2))
		if ok1 && ok2 && u1 == u2 {
			banned[n] = u1
			n++
		}
	}

	for {
		t := b.rng.Uint32N(b.types)
		if !slices.Contains(banned[:n], t) {
			return t
		}
	}
}

func (b *Board) Dimensions() geom.UVec2 {
	return b.dims
}

// GemTypes returns the size of the palette.
func (b *Board) GemTypes() uint32 {
	return b.types
}

func (b *Board) inBounds(pos geom.UVec2) bool {
	return pos.X < b.dims.X && pos.Y < b.dims.Y
}

// Get returns the gem type at pos, or false for an empty or out of bounds cell.
func (b *Board) Get(pos geom.UVec2) (uint32, bool) {
	if !b.inBounds(pos) {
		return 0, false
	}
	return b.cells.Get(pos.Pack())
}

// Iter yields every occupied cell, row by row from the top.
func (b *Board) Iter() iter.Seq2[geom.UVec2, uint32] {
	return func(yield func(geom.UVec2, uint32) bool) {
		for y := range b.dims.Y {
			for x := range b.dims.X {
				pos := geom.NewUVec2(x, y)
				if t, ok := b.cells.Get(pos.Pack()); ok && !yield(pos, t) {
					return
				}
			}
		}
	}
}

// Len returns the number of occupied cells.
func (b *Board) Len() int {
	return b.cells.Len()
}

// Swap exchanges the gems at a and b. The swap is kept only if it creates a
// match; otherwise the board is left unchanged and ErrNoMatch is returned.
func (b *Board) Swap(a, c geom.UVec2) error {
	if !b.inBounds(a) || !b.inBounds(c) {
		return fmt.Errorf("%w: %v <-> %v", ErrOutOfBounds, a, c)
	}
	if !a.Adjacent(c) {
		return fmt.Errorf("%w: %v <-> %v", ErrNotAdjacent, a, c)
	}
	ta, okA := b.cells.Get(a.Pack())
	tc, okC := b.cells.Get(c.Pack())
	if !okA || !okC {
		return fmt.Errorf("%w: %v <-> %v", ErrEmptyCell, a, c)
	}

	b.cells.Put(a.Pack(), tc)
	b.cells.Put(c.Pack(), ta)

	// Runs already on the board do not count; a or c must be part of one.
	matches := b.Matches()
	if !slices.Contains(matches, a) && !slices.Contains(matches, c) {
		b.cells.Put(a.Pack(), ta)
		b.cells.Put(c.Pack(), tc)
		return ErrNoMatch
	}
	return nil
}

// Matches returns every cell that is part of a horizontal or vertical run of
// three or more gems of one type, in row-major order.
func (b *Board) Matches() []geom.UVec2 {
	hit := make(map[geom.UVec2]struct{})

	scan := func(length uint32, at func(i uint32) geom.UVec2) {
		var runStart uint32
		var runType uint32
		runLen := uint32(0)
		flush := func(end uint32) {
			if runLen >= 3 {
				for i := runStart; i < end; i++ {
					hit[at(i)] = struct{}{}
				}
			}
		}
		for i := range length {
			t, ok := b.cells.Get(at(i).Pack())
			switch {
			case !ok:
				flush(i)
				runLen = 0
			case runLen > 0 && t == runType:
				runLen++
			default:
				flush(i)
				runStart, runType, runLen = i, t, 1
			}
		}
		flush(length)
	}

	for y := range b.dims.Y {
		scan(b.dims.X, func(i uint32) geom.UVec2 { return geom.NewUVec2(i, y) })
	}
	for x := range b.dims.X {
		scan(b.dims.Y, func(i uint32) geom.UVec2 { return geom.NewUVec2(x, i) })
	}

	out := make([]geom.UVec2, 0, len(hit))
	for pos := range hit {
		out = append(out, pos)
	}
	slices.SortFunc(out, rowMajor)
	return out
}

func rowMajor(a, b geom.UVec2) int {
	if a.Y != b.Y {
		return int(int64(a.Y) - int64(b.Y))
	}
	return int(int64(a.X) - int64(b.X))
}

// Pop empties the given cells and returns the ones that held a gem.
func (b *Board) Pop(positions []geom.UVec2) []geom.UVec2 {
	popped := make([]geom.UVec2, 0, len(positions))
	for _, pos := range positions {
		if !b.inBounds(pos) {
			continue
		}
		if b.cells.Del(pos.Pack()) {
			popped = append(popped, pos)
		}
	}
	return popped
}

// Drop lets gems fall into empty cells below them and returns the moves.
func (b *Board) Drop() []Move {
	var moves []Move
	for x := range b.dims.X {
		// target is the lowest empty row still to be filled in this column.
		target := int64(b.dims.Y) - 1
		for y := int64(b.dims.Y) - 1; y >= 0; y-- {
			from := geom.NewUVec2(x, uint32(y))
			t, ok := b.cells.Get(from.Pack())
			if !ok {
				continue
			}
			if y != target {
				to := geom.NewUVec2(x, uint32(target))
				b.cells.Del(from.Pack())
				b.cells.Put(to.Pack(), t)
				moves = append(moves, Move{From: from, To: to})
			}
			target--
		}
	}
	return moves
}

// Fill places random gems in every empty cell and returns the placements in
// row-major order. New gems may form matches.
func (b *Board) Fill() []Placement {
	var placed []Placement
	for y := range b.dims.Y {
		for x := range b.dims.X {
			pos := geom.NewUVec2(x, y)
			if _, ok := b.cells.Get(pos.Pack()); ok {
				continue
			}
			t := b.rng.Uint32N(b.types)
			b.cells.Put(pos.Pack(), t)
			placed = append(placed, Placement{Pos: pos, Type: t})
		}
	}
	return placed
}

// Shuffle rearranges the gems randomly until the board has no match, giving
// up after a bounded number of attempts. The multiset of types is kept.
func (b *Board) Shuffle() {
	positions := make([]geom.UVec2, 0, b.cells.Len())
	types := make([]uint32, 0, b.cells.Len())
	for pos, t := range b.Iter() {
		positions = append(positions, pos)
		types = append(types, t)
	}

	for range 100 {
		b.rng.Shuffle(len(types), func(i, j int) { types[i], types[j] = types[j], types[i] })
		for i, pos := range positions {
			b.cells.Put(pos.Pack(), types[i])
		}
		if len(b.Matches()) == 0 {
			return
		}
	}
}

// String renders the board as rows of type digits, '.' for empty cells.
func (b *Board) String() string {
	buf := make([]byte, 0, int(b.dims.X+1)*int(b.dims.Y))
	for y := range b.dims.Y {
		for x := range b.dims.X {
			if t, ok := b.cells.Get(geom.NewUVec2(x, y).Pack()); ok {
				buf = append(buf, byte('0'+t%10))
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
