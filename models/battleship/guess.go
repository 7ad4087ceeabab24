package battleship

import (
	"encoding/json"
	"fmt"
	"slices"

	cerr "github.com/saeidalz13/battleship-hotseat/internal/error"
)

type GuessResult uint8

const (
	GuessResultMiss GuessResult = iota
	GuessResultHit
)

func (r GuessResult) String() string {
	switch r {
	case GuessResultMiss:
		return "miss"
	case GuessResultHit:
		return "hit"
	default:
		return "unknown"
	}
}

func (r GuessResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *GuessResult) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case GuessResultMiss.String():
		*r = GuessResultMiss
	case GuessResultHit.String():
		*r = GuessResultHit
	default:
		return fmt.Errorf("unknown guess result: %q", name)
	}
	return nil
}

type GuessOutcome struct {
	Result      GuessResult
	Coordinates Coordinates

	// Cells of the ship this guess finished off; nil unless
	// the guess was the last missing hit on that ship.
	SunkShip []Coordinates
}

// ResolveGuess classifies guess against the defender's ships and
// records it as either a hit or a miss. A coordinate can only be
// resolved once per defender. Ship cells are never touched.
func ResolveGuess(guess Coordinates, defender *Player) (GuessOutcome, error) {
	if !guess.IsInBound() {
		return GuessOutcome{}, cerr.ErrCoordinatesOutOfBound(guess.Row, guess.Col)
	}
	if defender.IsGuessed(guess) {
		return GuessOutcome{}, cerr.ErrCoordinatesAlreadyGuessed(guess.Row, guess.Col)
	}

	outcome := GuessOutcome{Coordinates: guess}

	if !defender.IsShipCell(guess) {
		defender.misses.add(guess)
		outcome.Result = GuessResultMiss
		return outcome, nil
	}

	defender.hits.add(guess)
	outcome.Result = GuessResultHit

	if ship, ok := defender.shipAt(guess); ok && IsShipSunk(ship, defender.hits.has) {
		outcome.SunkShip = slices.Clone(ship)
	}
	return outcome, nil
}
