package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_ExpansionUnits(t *testing.T) {
	tests := []struct {
		name         string
		wUnits       int
		hUnits       int
		wantW, wantH int
	}{
		{"default", 5, 5, 20, 20},
		{"smallest", 1, 1, 4, 4},
		{"largest", MaxExpansions, MaxExpansions, 60, 60},
		{"mixed", 1, 15, 4, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.wUnits, tt.hUnits)
			require.NoError(t, err)
			assert.Equal(t, Grid{Width: tt.wantW, Height: tt.wantH}, g)
			w, h := g.Units()
			assert.Equal(t, tt.wUnits, w)
			assert.Equal(t, tt.hUnits, h)
		})
	}
}

func TestNewGrid_OutOfRange_ReturnsValidationError(t *testing.T) {
	for _, units := range [][2]int{{0, 5}, {5, 0}, {16, 5}, {5, 16}, {-1, -1}} {
		_, err := NewGrid(units[0], units[1])
		require.Error(t, err, "units %v", units)
		assert.True(t, IsValidationError(err), "units %v: want ValidationError, got %T", units, err)
	}
}

func TestGrid_Contains(t *testing.T) {
	g := Grid{Width: 4, Height: 8}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{3, 7}, true},
		{Point{4, 0}, false},
		{Point{0, 8}, false},
		{Point{-1, 2}, false},
		{Point{2, -1}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Contains(tt.p), "Contains(%v)", tt.p)
	}
}

func TestGrid_ClampOrigin(t *testing.T) {
	g := Grid{Width: 20, Height: 20}
	assert.Equal(t, Point{17, 0}, g.ClampOrigin(3, 3, 25, -4))
	assert.Equal(t, Point{5, 6}, g.ClampOrigin(3, 3, 5, 6))
	// A building wider than the grid clamps to zero.
	assert.Equal(t, Point{0, 0}, g.ClampOrigin(30, 3, 5, 0))
}

func TestPoint_Manhattan(t *testing.T) {
	assert.Equal(t, 7, Point{1, 2}.Manhattan(Point{4, -2}))
	assert.Equal(t, 0, Point{3, 3}.Manhattan(Point{3, 3}))
}
