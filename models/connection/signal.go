package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateGame
	CodePlaceShip

	// Sent once both players placed all of their ships
	CodeStartGame
	CodeGuess

	// Sent right after the guess that sank the last ship
	CodeEndGame
	CodeGameState
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)

// Signal is the part of every client frame read before the
// payload is decoded. Code is nil when the field is missing.
type Signal struct {
	Code *uint8 `json:"code"`
}
