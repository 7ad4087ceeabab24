package connection

import (
	mb "github.com/saeidalz13/battleship-hotseat/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid string       `json:"game_uuid"`
	State    mb.GameState `json:"state"`
}

type RespPlaceShip struct {
	Player         mb.Mark      `json:"player"`
	ShipsRemaining int          `json:"ships_remaining"`
	State          mb.GameState `json:"state"`
}

type RespStartGame struct {
	Attacker mb.Mark `json:"attacker"`
}

type RespGuess struct {
	Attacker mb.Mark          `json:"attacker"`
	Row      uint8            `json:"row"`
	Col      uint8            `json:"col"`
	Result   mb.GuessResult   `json:"result"`
	SunkShip []mb.Coordinates `json:"sunk_ship,omitempty"`
	State    mb.GameState     `json:"state"`
}

type RespEndGame struct {
	Winner mb.Mark `json:"winner"`
	Loser  mb.Mark `json:"loser"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}

type RespGameState struct {
	mb.GameSnapshot
}
