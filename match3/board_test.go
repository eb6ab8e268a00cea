package match3_test

import (
	"testing"

	"github.com/plus3/gemboard/geom"
	"github.com/plus3/gemboard/match3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, layout string) *match3.Board {
	t.Helper()
	b, err := match3.Parse(layout, 4, 1)
	require.NoError(t, err)
	return b
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, match3.DefaultConfig().Validate())

	tests := []struct {
		name string
		cfg  match3.Config
	}{
		{"zero width", match3.Config{Dimensions: geom.NewUVec2(0, 5), GemTypes: 3}},
		{"zero height", match3.Config{Dimensions: geom.NewUVec2(5, 0), GemTypes: 3}},
		{"two types", match3.Config{Dimensions: geom.NewUVec2(5, 5), GemTypes: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), match3.ErrInvalidConfig)
			_, err := match3.Generate(tt.cfg)
			assert.ErrorIs(t, err, match3.ErrInvalidConfig)
		})
	}
}

func TestGenerateHasNoInitialMatches(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		cfg := match3.DefaultConfig()
		cfg.Seed = seed

		b, err := match3.Generate(cfg)
		require.NoError(t, err)
		assert.Equal(t, 100, b.Len())
		assert.Empty(t, b.Matches(), "seed %d:\n%s", seed, b)

		for _, typ := range b.Iter() {
			assert.Less(t, typ, uint32(3))
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	cfg := match3.Config{Dimensions: geom.NewUVec2(8, 6), GemTypes: 5, Seed: 99}
	a, err := match3.Generate(cfg)
	require.NoError(t, err)
	b, err := match3.Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, geom.NewUVec2(8, 6), a.Dimensions())
}

func TestBoardIterIsRowMajor(t *testing.T) {
	b := mustParse(t, `
01
2.
`)
	var got []geom.UVec2
	for pos := range b.Iter() {
		got = append(got, pos)
	}
	assert.Equal(t, []geom.UVec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, got)

	_, ok := b.Get(geom.NewUVec2(1, 1))
	assert.False(t, ok)
	_, ok = b.Get(geom.NewUVec2(5, 5))
	assert.False(t, ok)
}

func TestMatches(t *testing.T) {
	b := mustParse(t, `
0001
1232
1302
1.02
`)
	assert.Equal(t, []geom.UVec2{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 0, Y: 1}, {X: 3, Y: 1},
		{X: 0, Y: 2}, {X: 3, Y: 2},
		{X: 0, Y: 3}, {X: 3, Y: 3},
	}, b.Matches())

	t.Run("empty cells break runs", func(t *testing.T) {
		b := mustParse(t, `
00.0
`)
		_, err := match3.Parse("00.0", 2, 1)
		assert.ErrorIs(t, err, match3.ErrInvalidConfig)
		assert.Empty(t, b.Matches())
	})
}

func TestSwap(t *testing.T) {
	layout := `
001
110
233
`
	t.Run("match keeps the swap", func(t *testing.T) {
		b := mustParse(t, layout)
		require.Empty(t, b.Matches())
		require.NoError(t, b.Swap(geom.NewUVec2(2, 0), geom.NewUVec2(2, 1)))

		typ, _ := b.Get(geom.NewUVec2(2, 1))
		assert.Equal(t, uint32(1), typ)
		assert.Len(t, b.Matches(), 6)
	})

	t.Run("no match reverts", func(t *testing.T) {
		b := mustParse(t, layout)
		before := b.String()
		assert.ErrorIs(t, b.Swap(geom.NewUVec2(0, 2), geom.NewUVec2(1, 2)), match3.ErrNoMatch)
		assert.Equal(t, before, b.String())
	})

	t.Run("existing runs do not keep an unrelated swap", func(t *testing.T) {
		b := mustParse(t, `
000
120
201
`)
		require.NotEmpty(t, b.Matches())
		before := b.String()
		assert.ErrorIs(t, b.Swap(geom.NewUVec2(0, 1), geom.NewUVec2(1, 1)), match3.ErrNoMatch)
		assert.Equal(t, before, b.String())
	})

	t.Run("a swap joining a run is kept beside an existing one", func(t *testing.T) {
		b := mustParse(t, `
000
112
221
`)
		require.NoError(t, b.Swap(geom.NewUVec2(2, 1), geom.NewUVec2(2, 2)))
		assert.Equal(t, "000\n111\n222\n", b.String())
	})

	t.Run("rejects invalid positions", func(t *testing.T) {
		b := mustParse(t, layout)
		assert.ErrorIs(t, b.Swap(geom.NewUVec2(0, 0), geom.NewUVec2(1, 1)), match3.ErrNotAdjacent)
		assert.ErrorIs(t, b.Swap(geom.NewUVec2(2, 2), geom.NewUVec2(3, 2)), match3.ErrOutOfBounds)
		assert.ErrorIs(t, b.Swap(geom.NewUVec2(1, 1), geom.NewUVec2(1, 1)), match3.ErrNotAdjacent)
	})
}

func TestPopDropFill(t *testing.T) {
	b := mustParse(t, `
012
120
000
`)
	popped := b.Pop(b.Matches())
	assert.Len(t, popped, 3)
	assert.Equal(t, "012\n120\n...\n", b.String())

	moves := b.Drop()
	assert.Len(t, moves, 6)
	assert.Contains(t, moves, match3.Move{From: geom.NewUVec2(0, 1), To: geom.NewUVec2(0, 2)})
	assert.Equal(t, "...\n012\n120\n", b.String())

	placed := b.Fill()
	assert.Len(t, placed, 3)
	assert.Equal(t, 9, b.Len())
	for _, p := range placed {
		assert.Equal(t, uint32(0), p.Pos.Y)
		assert.Less(t, p.Type, uint32(4))
	}

	assert.Empty(t, b.Pop([]geom.UVec2{{X: 9, Y: 9}}))
}

func TestShuffleKeepsTypes(t *testing.T) {
	b := mustParse(t, `
0123
1230
2301
3012
`)
	count := func() map[uint32]int {
		c := map[uint32]int{}
		for _, typ := range b.Iter() {
			c[typ]++
		}
		return c
	}

	before := count()
	b.Shuffle()
	assert.Equal(t, before, count())
	assert.Empty(t, b.Matches())
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := match3.Parse("", 3, 0)
	assert.ErrorIs(t, err, match3.ErrInvalidConfig)

	_, err = match3.Parse("012\n01", 3, 0)
	assert.ErrorIs(t, err, match3.ErrInvalidConfig)

	_, err = match3.Parse("01x", 3, 0)
	assert.ErrorIs(t, err, match3.ErrInvalidConfig)

	_, err = match3.Parse("015", 3, 0)
	assert.ErrorIs(t, err, match3.ErrInvalidConfig)
}
