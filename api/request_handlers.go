package api

import (
	"encoding/json"

	cerr "github.com/saeidalz13/battleship-hotseat/internal/error"
	mb "github.com/saeidalz13/battleship-hotseat/models/battleship"
	mc "github.com/saeidalz13/battleship-hotseat/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame])
	HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlaceShip]
	HandleGuess(game *mb.Game) mc.Message[mc.RespGuess]
	HandleGameState(game *mb.Game) mc.Message[mc.RespGameState]
}

// Every incoming valid request will have this structure.
// Handlers never return Go errors; rule violations travel
// back to the client inside the message envelope.
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func (r Request) HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame]) {
	game := gm.CreateGame()

	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)
	resp.AddPayload(mc.RespCreateGame{GameUuid: game.Uuid(), State: game.State()})
	return game, resp
}

func (r Request) HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlaceShip] {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)
	if game == nil {
		resp.AddErr(cerr.ErrNoGameInSession(), "create a game first")
		return resp
	}

	var req mc.Message[mc.ReqPlaceShip]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddErr(err, "failed to unmarshal place ship request")
		return resp
	}

	accepted, err := game.PlaceShip(req.Payload.Player, req.Payload.Cells)
	if err != nil {
		resp.AddErr(err, "ship was not placed")
		return resp
	}

	resp.AddPayload(mc.RespPlaceShip{
		Player:         accepted.Player,
		ShipsRemaining: accepted.ShipsRemaining,
		State:          accepted.State,
	})
	return resp
}

func (r Request) HandleGuess(game *mb.Game) mc.Message[mc.RespGuess] {
	resp := mc.NewMessage[mc.RespGuess](mc.CodeGuess)
	if game == nil {
		resp.AddErr(cerr.ErrNoGameInSession(), "create a game first")
		return resp
	}

	var req mc.Message[mc.ReqGuess]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddErr(err, "failed to unmarshal guess request")
		return resp
	}

	guess := mb.NewCoordinates(req.Payload.Row, req.Payload.Col)
	outcome, err := game.SubmitGuess(req.Payload.Attacker, guess)
	if err != nil {
		resp.AddErr(err, "guess was not accepted")
		return resp
	}

	resp.AddPayload(mc.RespGuess{
		Attacker: req.Payload.Attacker,
		Row:      guess.Row,
		Col:      guess.Col,
		Result:   outcome.Result,
		SunkShip: outcome.SunkShip,
		State:    game.State(),
	})
	return resp
}

func (r Request) HandleGameState(game *mb.Game) mc.Message[mc.RespGameState] {
	resp := mc.NewMessage[mc.RespGameState](mc.CodeGameState)
	if game == nil {
		resp.AddErr(cerr.ErrNoGameInSession(), "create a game first")
		return resp
	}

	resp.AddPayload(mc.RespGameState{GameSnapshot: game.Snapshot()})
	return resp
}
