package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPlace(t *testing.T) {
	l, th := newTestLayout(t)
	b := &Building{ID: "new", Width: 5, Height: 5, Visible: true}

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"on the town hall", th.X, th.Y, false},
		{"free corner", 0, 0, true},
		{"touching town hall edge", th.X - 5, th.Y, true},
		{"one tile into town hall", th.X - 4, th.Y, false},
		{"past right edge", 16, 0, false},
		{"negative", -1, 0, false},
		{"flush with bottom-right", 15, 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.CanPlace(b, tt.x, tt.y))
		})
	}
}

func TestCanPlace_IgnoresSelfAndHidden(t *testing.T) {
	l, th := newTestLayout(t)
	b := addAt(l, "a", 2, 2, 0, 0, false)

	// Moving by one tile overlaps its own old footprint only.
	assert.True(t, l.CanPlace(b, 1, 1))

	th.Visible = false
	assert.True(t, l.CanPlace(b, th.X, th.Y))
}

func TestAutoPlace_StartsRightOfTownHall(t *testing.T) {
	// GIVEN the default layout
	l, th := newTestLayout(t)
	b := &Building{ID: "house", Width: 3, Height: 3, Visible: true}

	// WHEN the building is auto-placed
	require.NoError(t, l.AutoPlace(b))

	// THEN it sits one tile right of the Town Hall, level with its top edge
	assert.Equal(t, Point{th.X + th.Width + 1, th.Y}, Point{b.X, b.Y})
}

func TestAutoPlace_AvoidsTownHall(t *testing.T) {
	// GIVEN 5×5 buildings that cannot go where the Town Hall is
	l, th := newTestLayout(t)
	b := &Building{ID: "big", Width: 5, Height: 5, Visible: true}
	require.False(t, l.CanPlace(b, th.X, th.Y))

	// WHEN several are auto-placed
	for i := 0; i < 4; i++ {
		nb := &Building{ID: string(rune('a' + i)), Width: 5, Height: 5, Visible: true}
		require.NoError(t, l.AutoPlace(nb))
		l.Add(nb)
	}

	// THEN none overlap and all are inside the grid
	assert.NoError(t, l.Validate())
}

func TestAutoPlace_Deterministic(t *testing.T) {
	place := func() []Point {
		l, _ := newTestLayout(t)
		var out []Point
		for i := 0; i < 6; i++ {
			b := &Building{ID: string(rune('a' + i)), Width: 2 + i%3, Height: 3, Visible: true}
			require.NoError(t, l.AutoPlace(b))
			l.Add(b)
			out = append(out, Point{b.X, b.Y})
		}
		return out
	}
	assert.Equal(t, place(), place())
}

func TestAutoPlace_NoRoomKeepsCoordinates(t *testing.T) {
	// GIVEN a 4×4 grid filled by one building
	g, err := NewGrid(1, 1)
	require.NoError(t, err)
	l := NewLayout(g)
	addAt(l, "full", 4, 4, 0, 0, false)
	b := &Building{ID: "late", Width: 1, Height: 1, X: 9, Y: 9, Visible: true}

	// WHEN another building is placed
	err = l.AutoPlace(b)

	// THEN placement fails and the building is unchanged
	assert.True(t, errors.Is(err, ErrPlacementFailed))
	assert.Equal(t, Point{9, 9}, Point{b.X, b.Y})
}

func TestAutoPlace_WithoutTownHallStartsAtOrigin(t *testing.T) {
	l := NewLayout(DefaultGrid())
	b := &Building{ID: "a", Width: 2, Height: 2, Visible: true}

	require.NoError(t, l.AutoPlace(b))

	assert.Equal(t, Point{0, 0}, Point{b.X, b.Y})
}

func TestRelocate_StartsAtGridCentre(t *testing.T) {
	// No Town Hall: the centre itself is free.
	l := NewLayout(DefaultGrid())
	b := &Building{ID: "a", Width: 2, Height: 2, Visible: true}

	require.NoError(t, l.Relocate(b))

	assert.Equal(t, Point{10, 10}, Point{b.X, b.Y})
}

func TestFirstFit_RowMajor(t *testing.T) {
	l := NewLayout(Grid{Width: 4, Height: 4})
	addAt(l, "a", 3, 1, 0, 0, false)
	b := &Building{ID: "b", Width: 2, Height: 1, Visible: true}

	p, ok := l.FirstFit(b)
	require.True(t, ok)
	assert.Equal(t, Point{0, 1}, p)

	var all []Point
	l.EachFreePosition(b, func(p Point) bool {
		all = append(all, p)
		return len(all) < 2
	})
	assert.Equal(t, []Point{{0, 1}, {1, 1}}, all)
}
