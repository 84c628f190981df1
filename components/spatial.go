package components

import "math"

// Position is an organism's continuous location in grid coordinates.
type Position struct {
	X, Y float64
}

// Cell returns the integer grid cell containing the position.
func (p Position) Cell() (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}
