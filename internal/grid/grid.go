// Package grid computes seat layouts for rooms.  A room's seats always
// form the full cartesian grid of its row/column capacities; this package
// generates that grid and computes the minimal change set when a room is
// resized, so seats that keep their coordinates keep their identity.
package grid

import "errors"

// ErrInvalidDimension is returned when a requested grid dimension is not
// a positive integer.
var ErrInvalidDimension = errors.New("grid dimensions must be positive")

// Coord identifies a seat position inside a room.  Both values are 1-based.
type Coord struct {
	Row uint32 // fila
	Col uint32 // columna
}

// Seat couples a stored seat ID with its coordinates.  It is the input
// shape the reconciler expects when diffing a room's current layout.
type Seat struct {
	ID  uint64
	Row uint32
	Col uint32
}

// Diff describes how to move a room's seat set to a new grid: seats to
// remove by ID and coordinates that need fresh rows.  Seats whose
// coordinates fall inside the new grid appear in neither list.
type Diff struct {
	ToDelete []uint64
	ToInsert []Coord
}

// Generate returns the full coordinate grid for a room of rows x cols
// seats, rows outer and columns inner so the output order is
// deterministic.  Dimensions must be at least 1.
func Generate(rows, cols uint32) ([]Coord, error) {
	if rows < 1 || cols < 1 {
		return nil, ErrInvalidDimension
	}
	out := make([]Coord, 0, int(rows)*int(cols))
	for r := uint32(1); r <= rows; r++ {
		for c := uint32(1); c <= cols; c++ {
			out = append(out, Coord{Row: r, Col: c})
		}
	}
	return out, nil
}

// Reconcile diffs a room's existing seats against the grid for the target
// dimensions.  Existing seats outside the new grid land in ToDelete;
// grid cells with no existing seat land in ToInsert.  A seat that stays
// inside the grid is untouched, which is what keeps reservations on it
// alive across a resize.
func Reconcile(existing []Seat, rows, cols uint32) (Diff, error) {
	target, err := Generate(rows, cols)
	if err != nil {
		return Diff{}, err
	}

	occupied := make(map[Coord]struct{}, len(existing))
	var d Diff
	for _, s := range existing {
		c := Coord{Row: s.Row, Col: s.Col}
		if s.Row >= 1 && s.Row <= rows && s.Col >= 1 && s.Col <= cols {
			occupied[c] = struct{}{}
			continue
		}
		d.ToDelete = append(d.ToDelete, s.ID)
	}
	for _, c := range target {
		if _, ok := occupied[c]; !ok {
			d.ToInsert = append(d.ToInsert, c)
		}
	}
	return d, nil
}
