package error

import (
	"errors"
	"fmt"
)

// Ship placement
var (
	ErrShipTooShort      = errors.New("ship must cover at least 2 cells")
	ErrShipTooLong       = errors.New("ship must not cover more than 5 cells")
	ErrShipNotCollinear  = errors.New("ship cells must share the same row or the same column")
	ErrShipNotContiguous = errors.New("ship cells must be contiguous without gaps or duplicates")
	ErrShipOverlaps      = errors.New("ship overlaps a ship already placed by this player")
	ErrAllShipsPlaced    = errors.New("player has already placed all of their ships")
	ErrPlacementClosed   = errors.New("ship placement phase is over")
)

// Guessing and turns
var (
	ErrOutOfBounds      = errors.New("coordinates are out of the game grid bound")
	ErrAlreadyGuessed   = errors.New("coordinates were already guessed against this player")
	ErrNotPlayersTurn   = errors.New("it is not this player's turn")
	ErrGuessBeforeStart = errors.New("guessing starts after both players placed their ships")
	ErrGameOver         = errors.New("game is over")
)

var ErrInvalidMark = errors.New("player mark must be 1 or 2")

func ErrShipCellTaken(row, col uint8) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrShipOverlaps, row, col)
}

func ErrCoordinatesOutOfBound(row, col uint8) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrOutOfBounds, row, col)
}

func ErrCoordinatesAlreadyGuessed(row, col uint8) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrAlreadyGuessed, row, col)
}

func ErrNotTurnForPlayer(mark uint8) error {
	return fmt.Errorf("%w\tplayer: %d", ErrNotPlayersTurn, mark)
}

func ErrUnknownMark(mark uint8) error {
	return fmt.Errorf("%w\tgot: %d", ErrInvalidMark, mark)
}

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrNoGameInSession() error {
	return fmt.Errorf("no game was created in this session yet")
}
