package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrPlacementFailed is returned when no free position exists for a building.
	ErrPlacementFailed = errors.New("no free position for building")

	// ErrPlacementRejected is returned when an explicit position overlaps
	// another building or leaves the grid.
	ErrPlacementRejected = errors.New("position rejected")

	// ErrBuildingNotFound is returned for unknown building ids.
	ErrBuildingNotFound = errors.New("building not found")

	// ErrTownHallImmutable is returned for operations the Town Hall does not support.
	ErrTownHallImmutable = errors.New("town hall cannot be modified this way")

	// ErrLayoutInvalid is returned by Layout.Validate.
	ErrLayoutInvalid = errors.New("layout invalid")
)

// ValidationError reports bad caller input. It is always returned before any
// state is mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
