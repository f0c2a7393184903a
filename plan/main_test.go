package plan

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// Placement logs search failures at Debug; keep test output to warnings.
	// Set DEBUG_TESTS=1 to see full logs: DEBUG_TESTS=1 go test ./plan/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

// newTestLayout returns a 20×20 layout with the Town Hall at (7,7).
func newTestLayout(t *testing.T) (*Layout, *Building) {
	t.Helper()
	l := NewLayout(DefaultGrid())
	th := NewTownHall(l.Grid())
	l.Add(th)
	return l, th
}

// addAt registers a visible building at (x, y) without checks.
func addAt(l *Layout, id string, w, h, x, y int, road bool) *Building {
	b := &Building{ID: id, Name: id, Width: w, Height: h, X: x, Y: y, RequiresRoad: road, Visible: true, Color: ColorFor(road)}
	l.Add(b)
	return b
}
