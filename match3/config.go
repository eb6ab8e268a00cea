package match3

import (
	"errors"
	"fmt"

	"github.com/plus3/gemboard/geom"
)

var (
	ErrInvalidConfig = errors.New("match3: invalid config")
	ErrOutOfBounds   = errors.New("match3: position out of bounds")
	ErrNotAdjacent   = errors.New("match3: positions are not adjacent")
	ErrNoMatch       = errors.New("match3: swap creates no match")
	ErrEmptyCell     = errors.New("match3: cell is empty")
)

// MinGemTypes is the smallest palette that can always be laid out without
// an initial run of three.
const MinGemTypes = 3

// Config describes a board to generate. A zero Seed picks a random one.
type Config struct {
	Dimensions geom.UVec2
	GemTypes   uint32
	Seed       uint64
}

// DefaultConfig is a 10x10 board with three gem types.
func DefaultConfig() Config {
	return Config{
		Dimensions: geom.NewUVec2(10, 10),
		GemTypes:   3,
	}
}

func (c Config) Validate() error {
	if c.Dimensions.X == 0 || c.Dimensions.Y == 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidConfig, c.Dimensions.X, c.Dimensions.Y)
	}
	if c.GemTypes < MinGemTypes {
		return fmt.Errorf("%w: need at least %d gem types, got %d", ErrInvalidConfig, MinGemTypes, c.GemTypes)
	}
	return nil
}
