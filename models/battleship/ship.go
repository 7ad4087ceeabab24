package battleship

import (
	"slices"

	cerr "github.com/saeidalz13/battleship-hotseat/internal/error"
)

// ValidateShip decides whether cells form a legal ship. occupied
// reports the cells already taken by the player's other ships and
// may be nil when nothing is placed yet. The input is never modified.
//
// Checks run in a fixed order: length, bounds, collinearity,
// contiguity, overlap. The first failing check decides the error.
func ValidateShip(cells []Coordinates, occupied func(Coordinates) bool) error {
	if len(cells) < MinShipLength {
		return cerr.ErrShipTooShort
	}
	if len(cells) > MaxShipLength {
		return cerr.ErrShipTooLong
	}

	for _, c := range cells {
		if !c.IsInBound() {
			return cerr.ErrCoordinatesOutOfBound(c.Row, c.Col)
		}
	}

	sameRow, sameCol := true, true
	for _, c := range cells[1:] {
		if c.Row != cells[0].Row {
			sameRow = false
		}
		if c.Col != cells[0].Col {
			sameCol = false
		}
	}

	// Both true only when every cell is the same cell.
	if sameRow && sameCol {
		return cerr.ErrShipNotContiguous
	}
	if !sameRow && !sameCol {
		return cerr.ErrShipNotCollinear
	}

	axis := func(c Coordinates) uint8 { return c.Row }
	if sameRow {
		axis = func(c Coordinates) uint8 { return c.Col }
	}

	sorted := slices.Clone(cells)
	slices.SortFunc(sorted, func(a, b Coordinates) int {
		return int(axis(a)) - int(axis(b))
	})
	for i := 1; i < len(sorted); i++ {
		if axis(sorted[i])-axis(sorted[i-1]) != 1 {
			return cerr.ErrShipNotContiguous
		}
	}

	if occupied != nil {
		for _, c := range cells {
			if occupied(c) {
				return cerr.ErrShipCellTaken(c.Row, c.Col)
			}
		}
	}

	return nil
}

// IsShipSunk reports whether every cell of ship was hit.
func IsShipSunk(ship []Coordinates, isHit func(Coordinates) bool) bool {
	for _, c := range ship {
		if !isHit(c) {
			return false
		}
	}
	return len(ship) > 0
}
