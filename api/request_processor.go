package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/saeidalz13/battleship-hotseat/db/sqlc"
	mb "github.com/saeidalz13/battleship-hotseat/models/battleship"
	mc "github.com/saeidalz13/battleship-hotseat/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

// RequestProcessor serves the websocket endpoint. Each connection
// is one session and a session drives at most one game at a time;
// both players share the connection and take turns on the same device.
type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      *sqlc.AnalyticsManager
	upgrader       *websocket.Upgrader
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	analytics *sqlc.AnalyticsManager,
	upgrader *websocket.Upgrader,
) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		analytics:      analytics,
		upgrader:       upgrader,
	}
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Upgrade writes the http error response itself on failure
	conn, err := rp.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			// This either means an expired session or invalid session ID
			log.Println(err)
			_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
			_ = conn.Close()
		}
	}
}

func (rp RequestProcessor) recordAnalytics(increment func(context.Context) error) {
	if !rp.analytics.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	// for now not killing the game for it
	if err := increment(ctx); err != nil {
		log.Println(err)
	}
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()

	defer func() {
		if game := session.Game(); game != nil {
			rp.gameManager.TerminateGame(game.Uuid())
		}
		// no reconnection can find the session past this point
		rp.sessionManager.TerminateSession(sessionId)
		session.Close()
		log.Printf("session closed: %s\n", sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// the connection failed and the grace period (if any) is over
			break sessionLoop
		}

		code, err := rp.sessionManager.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err := rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		req := NewRequest(payload)

		switch code {

		// A new game replaces whatever game the session had
		case mc.CodeCreateGame:
			if previous := session.Game(); previous != nil {
				rp.gameManager.TerminateGame(previous.Uuid())
			}

			game, respMsg := req.HandleCreateGame(rp.gameManager)
			session.SetGame(game)
			rp.recordAnalytics(rp.analytics.IncrementGamesCreatedCount)

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodePlaceShip:
			respMsg := req.HandlePlaceShip(session.Game())
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

			if respMsg.Error != nil || respMsg.Payload.State.Stage != mb.StageAwaitingGuess {
				continue sessionLoop
			}

			// Last ship of player two; guessing starts with player one
			respStart := mc.NewMessage[mc.RespStartGame](mc.CodeStartGame)
			respStart.AddPayload(mc.RespStartGame{Attacker: respMsg.Payload.State.Player})
			if err := rp.sessionManager.WriteToSessionConn(session, respStart, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeGuess:
			game := session.Game()
			respMsg := req.HandleGuess(game)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

			if respMsg.Error != nil {
				continue sessionLoop
			}

			result, over := game.IsGameOver()
			if !over {
				continue sessionLoop
			}

			rp.recordAnalytics(rp.analytics.IncrementGamesFinishedCount)

			respEnd := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
			respEnd.AddPayload(mc.RespEndGame{Winner: result.Winner, Loser: result.Loser})
			if err := rp.sessionManager.WriteToSessionConn(session, respEnd, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeGameState:
			respMsg := req.HandleGameState(session.Game())
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}
