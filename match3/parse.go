package match3

import (
	"fmt"
	"strings"

	"github.com/plus3/gemboard/geom"
)

// Parse reads a board in the format produced by Board.String: one line per
// row, a digit per gem type and '.' for an empty cell. Seed drives later
// Fill and Shuffle calls.
func Parse(layout string, gemTypes uint32, seed uint64) (*Board, error) {
	rows := strings.Fields(layout)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidConfig)
	}

	cfg := Config{
		Dimensions: geom.NewUVec2(uint32(len(rows[0])), uint32(len(rows))),
		GemTypes:   gemTypes,
		Seed:       seed,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := newBoard(cfg.Dimensions, gemTypes, seed)

	for y, row := range rows {
		if uint32(len(row)) != cfg.Dimensions.X {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidConfig, y, len(row), cfg.Dimensions.X)
		}
		for x, ch := range []byte(row) {
			if ch == '.' {
				continue
			}
			t := uint32(ch - '0')
			if ch < '0' || ch > '9' || t >= gemTypes {
				return nil, fmt.Errorf("%w: bad cell %q at %d;%d", ErrInvalidConfig, ch, x, y)
			}
			b.cells.Put(geom.NewUVec2(uint32(x), uint32(y)).Pack(), t)
		}
	}
	return b, nil
}
