package connection

import (
	mb "github.com/saeidalz13/battleship-hotseat/models/battleship"
)

type ReqPlaceShip struct {
	Player mb.Mark          `json:"player"`
	Cells  []mb.Coordinates `json:"cells"`
}

type ReqGuess struct {
	Attacker mb.Mark `json:"attacker"`
	Row      uint8   `json:"row"`
	Col      uint8   `json:"col"`
}
