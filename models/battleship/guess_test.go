package battleship

import (
	"errors"
	"slices"
	"testing"

	cerr "github.com/saeidalz13/battleship-hotseat/internal/error"
)

func TestResolveGuess(t *testing.T) {
	defender := NewPlayer(PlayerOne)
	if err := defender.RegisterShip(cells([2]uint8{0, 0}, [2]uint8{0, 1}, [2]uint8{0, 2})); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		guess          Coordinates
		expectedResult GuessResult
		expectedErr    error
		expectedHits   []Coordinates
		expectedMisses []Coordinates
	}{
		{
			name:           "hit",
			guess:          NewCoordinates(0, 1),
			expectedResult: GuessResultHit,
			expectedHits:   cells([2]uint8{0, 1}),
			expectedMisses: []Coordinates{},
		},
		{
			name:           "miss",
			guess:          NewCoordinates(5, 5),
			expectedResult: GuessResultMiss,
			expectedHits:   cells([2]uint8{0, 1}),
			expectedMisses: cells([2]uint8{5, 5}),
		},
		{
			name:           "repeated hit",
			guess:          NewCoordinates(0, 1),
			expectedErr:    cerr.ErrAlreadyGuessed,
			expectedHits:   cells([2]uint8{0, 1}),
			expectedMisses: cells([2]uint8{5, 5}),
		},
		{
			name:           "repeated miss",
			guess:          NewCoordinates(5, 5),
			expectedErr:    cerr.ErrAlreadyGuessed,
			expectedHits:   cells([2]uint8{0, 1}),
			expectedMisses: cells([2]uint8{5, 5}),
		},
		{
			name:           "out of bound",
			guess:          NewCoordinates(GridSize, 0),
			expectedErr:    cerr.ErrOutOfBounds,
			expectedHits:   cells([2]uint8{0, 1}),
			expectedMisses: cells([2]uint8{5, 5}),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			guessedBefore := len(defender.Hits()) + len(defender.Misses())

			outcome, err := ResolveGuess(test.guess, defender)
			if test.expectedErr != nil {
				if !errors.Is(err, test.expectedErr) {
					t.Fatalf("expected error: %v\tgot: %v", test.expectedErr, err)
				}
			} else {
				if err != nil {
					t.Fatal(err)
				}
				if outcome.Result != test.expectedResult {
					t.Fatalf("expected result: %s\tgot: %s", test.expectedResult, outcome.Result)
				}
				if outcome.Coordinates != test.guess {
					t.Fatalf("expected coordinates: %v\tgot: %v", test.guess, outcome.Coordinates)
				}
			}

			if !slices.Equal(defender.Hits(), test.expectedHits) {
				t.Fatalf("expected hits: %v\tgot: %v", test.expectedHits, defender.Hits())
			}
			if !slices.Equal(defender.Misses(), test.expectedMisses) {
				t.Fatalf("expected misses: %v\tgot: %v", test.expectedMisses, defender.Misses())
			}

			guessedAfter := len(defender.Hits()) + len(defender.Misses())
			if guessedAfter-guessedBefore > 1 {
				t.Fatalf("one guess recorded %d coordinates", guessedAfter-guessedBefore)
			}
			if len(defender.ShipCells()) != 3 {
				t.Fatal("ship cells must never change while guessing")
			}
		})
	}
}

func TestResolveGuessSinksShip(t *testing.T) {
	defender := NewPlayer(PlayerTwo)
	destroyer := cells([2]uint8{7, 7}, [2]uint8{8, 7})
	cruiser := cells([2]uint8{1, 1}, [2]uint8{1, 2}, [2]uint8{1, 3})
	for _, ship := range [][]Coordinates{destroyer, cruiser} {
		if err := defender.RegisterShip(ship); err != nil {
			t.Fatal(err)
		}
	}

	outcome, err := ResolveGuess(NewCoordinates(8, 7), defender)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.SunkShip != nil {
		t.Fatalf("first hit must not sink the destroyer, got: %v", outcome.SunkShip)
	}

	outcome, err = ResolveGuess(NewCoordinates(7, 7), defender)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(outcome.SunkShip, destroyer) {
		t.Fatalf("expected sunk ship: %v\tgot: %v", destroyer, outcome.SunkShip)
	}

	outcome, err = ResolveGuess(NewCoordinates(1, 2), defender)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.SunkShip != nil {
		t.Fatalf("hit on the cruiser must not report the sunk destroyer, got: %v", outcome.SunkShip)
	}
	if defender.HasLost() {
		t.Fatal("defender still has an afloat cruiser")
	}
}
