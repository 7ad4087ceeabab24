package battleship

import (
	"errors"
	"slices"
	"testing"

	cerr "github.com/saeidalz13/battleship-hotseat/internal/error"
)

func cells(pairs ...[2]uint8) []Coordinates {
	coords := make([]Coordinates, 0, len(pairs))
	for _, p := range pairs {
		coords = append(coords, NewCoordinates(p[0], p[1]))
	}
	return coords
}

func TestValidateShip(t *testing.T) {
	taken := cells([2]uint8{5, 5}, [2]uint8{5, 6})
	occupied := func(c Coordinates) bool { return ContainsCoordinates(taken, c) }

	tests := []struct {
		name        string
		cells       []Coordinates
		expectedErr error
	}{
		{name: "horizontal of 2", cells: cells([2]uint8{0, 0}, [2]uint8{0, 1})},
		{name: "horizontal of 5", cells: cells([2]uint8{9, 5}, [2]uint8{9, 6}, [2]uint8{9, 7}, [2]uint8{9, 8}, [2]uint8{9, 9})},
		{name: "vertical of 3", cells: cells([2]uint8{1, 4}, [2]uint8{2, 4}, [2]uint8{3, 4})},
		{name: "vertical of 4 given out of order", cells: cells([2]uint8{4, 0}, [2]uint8{2, 0}, [2]uint8{5, 0}, [2]uint8{3, 0})},
		{name: "next to an existing ship", cells: cells([2]uint8{4, 5}, [2]uint8{4, 6})},
		{name: "empty", cells: nil, expectedErr: cerr.ErrShipTooShort},
		{name: "single cell", cells: cells([2]uint8{0, 0}), expectedErr: cerr.ErrShipTooShort},
		{
			name:        "six cells",
			cells:       cells([2]uint8{0, 0}, [2]uint8{0, 1}, [2]uint8{0, 2}, [2]uint8{0, 3}, [2]uint8{0, 4}, [2]uint8{0, 5}),
			expectedErr: cerr.ErrShipTooLong,
		},
		{name: "row off the grid", cells: cells([2]uint8{10, 0}, [2]uint8{10, 1}), expectedErr: cerr.ErrOutOfBounds},
		{name: "col off the grid", cells: cells([2]uint8{0, 9}, [2]uint8{0, 10}), expectedErr: cerr.ErrOutOfBounds},
		{name: "diagonal", cells: cells([2]uint8{0, 0}, [2]uint8{1, 1}), expectedErr: cerr.ErrShipNotCollinear},
		{name: "bent", cells: cells([2]uint8{0, 0}, [2]uint8{0, 1}, [2]uint8{1, 1}), expectedErr: cerr.ErrShipNotCollinear},
		{name: "gap", cells: cells([2]uint8{0, 0}, [2]uint8{0, 2}), expectedErr: cerr.ErrShipNotContiguous},
		{name: "duplicate cell", cells: cells([2]uint8{3, 3}, [2]uint8{3, 4}, [2]uint8{3, 4}), expectedErr: cerr.ErrShipNotContiguous},
		{name: "same cell twice", cells: cells([2]uint8{3, 3}, [2]uint8{3, 3}), expectedErr: cerr.ErrShipNotContiguous},
		{name: "overlap", cells: cells([2]uint8{4, 6}, [2]uint8{5, 6}, [2]uint8{6, 6}), expectedErr: cerr.ErrShipOverlaps},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			before := slices.Clone(test.cells)

			err := ValidateShip(test.cells, occupied)
			if test.expectedErr == nil && err != nil {
				t.Fatalf("expected no error\tgot: %v", err)
			}
			if test.expectedErr != nil && !errors.Is(err, test.expectedErr) {
				t.Fatalf("expected error: %v\tgot: %v", test.expectedErr, err)
			}

			if !slices.Equal(before, test.cells) {
				t.Fatalf("input was modified\nbefore: %v\nafter: %v", before, test.cells)
			}
		})
	}
}

// Every straight run of 2..5 cells anywhere on the grid is a legal ship.
func TestValidateShipAllStraightRuns(t *testing.T) {
	for length := MinShipLength; length <= MaxShipLength; length++ {
		for fixed := uint8(0); fixed < GridSize; fixed++ {
			for start := uint8(0); int(start)+length <= int(GridSize); start++ {
				horizontal := make([]Coordinates, 0, length)
				vertical := make([]Coordinates, 0, length)
				for i := 0; i < length; i++ {
					horizontal = append(horizontal, NewCoordinates(fixed, start+uint8(i)))
					vertical = append(vertical, NewCoordinates(start+uint8(i), fixed))
				}

				if err := ValidateShip(horizontal, nil); err != nil {
					t.Fatalf("horizontal %v: %v", horizontal, err)
				}
				if err := ValidateShip(vertical, nil); err != nil {
					t.Fatalf("vertical %v: %v", vertical, err)
				}
			}
		}
	}
}

func TestIsShipSunk(t *testing.T) {
	ship := cells([2]uint8{0, 0}, [2]uint8{0, 1})

	hit := map[Coordinates]bool{NewCoordinates(0, 0): true}
	isHit := func(c Coordinates) bool { return hit[c] }

	if IsShipSunk(ship, isHit) {
		t.Fatal("ship with one unhit cell must not be sunk")
	}

	hit[NewCoordinates(0, 1)] = true
	if !IsShipSunk(ship, isHit) {
		t.Fatal("ship with every cell hit must be sunk")
	}

	if IsShipSunk(nil, isHit) {
		t.Fatal("empty ship must not be sunk")
	}
}
