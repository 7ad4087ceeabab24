package connection

import (
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	mb "github.com/saeidalz13/battleship-hotseat/models/battleship"
)

const (
	maxWriteWsRetries uint8         = 2
	backOffFactor     uint8         = 2
	gracePeriod       time.Duration = time.Minute * 2
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

type ConnectionHandler interface {
	awaitReconnection(timeout time.Duration) bool
	writeToConnWithRetry(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session is one browser tab driving one hot-seat game. The
// connection may be swapped for a new one after an abnormal
// closure; the game survives the swap.
type Session struct {
	id            string
	mu            sync.RWMutex
	conn          *websocket.Conn
	game          *mb.Game
	reconnections chan *websocket.Conn
	lastActiveAt  time.Time
}

var _ ConnectionHandler = (*Session)(nil)

func NewSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:            id,
		conn:          conn,
		reconnections: make(chan *websocket.Conn, 1),
		lastActiveAt:  time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

func (s *Session) Game() *mb.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game
}

func (s *Session) SetGame(game *mb.Game) {
	s.mu.Lock()
	s.game = game
	s.mu.Unlock()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActiveAt = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleFor() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.lastActiveAt)
}

// Close closes the current connection and any reconnection
// that arrived but was never picked up by the session loop.
func (s *Session) Close() {
	if conn := s.Conn(); conn != nil {
		_ = conn.Close()
	}

	for {
		select {
		case pending := <-s.reconnections:
			_ = pending.Close()
		default:
			return
		}
	}
}

func (s *Session) remoteAddr() string {
	conn := s.Conn()
	if conn == nil {
		return "<nil>"
	}
	return conn.RemoteAddr().String()
}

type closeAction struct {
	label  string
	codes  []int
	action uint8
}

var closeActions = []closeAction{
	{label: "high server load/traffic error", codes: []int{websocket.CloseTryAgainLater}, action: ConnLoopRetry},

	// Happens when a mobile browser puts the tab in background
	{label: "abnormal closure error", codes: []int{websocket.CloseAbnormalClosure}, action: ConnLoopAbnormalClosureRetry},

	{label: "close error", codes: []int{websocket.CloseGoingAway, websocket.CloseNormalClosure}, action: ConnLoopBreak},
	{
		label:  "critical error",
		codes:  []int{websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension},
		action: ConnLoopBreak,
	},

	// Most likely a client that is not ours (e.g. binary frames)
	{
		label: "non-critical error",
		codes: []int{
			websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig,
			websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived,
		},
		action: ConnLoopBreak,
	},
}

func (s *Session) onConnErr(err error) uint8 {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Printf("timeout error [%s]: %s\n", s.remoteAddr(), err)
		return ConnLoopRetry
	}

	for _, ca := range closeActions {
		if websocket.IsCloseError(err, ca.codes...) {
			log.Printf("%s [%s]: %s\n", ca.label, s.remoteAddr(), err)
			return ca.action
		}
	}

	log.Printf("unexpected error [%s]: %s\n", s.remoteAddr(), err)
	return ConnLoopBreak
}

// Writes msg to the session connection, retrying with a linear
// back off when the client asks to try again later.
func (s *Session) writeToConnWithRetry(msg interface{}, msgType uint8) error {
	var retries uint8

	for {
		conn := s.Conn()

		var err error
		switch msgType {
		case MessageTypeJSON:
			err = conn.WriteJSON(msg)

		case MessageTypeBytes:
			respBytes, ok := msg.([]byte)
			if !ok {
				return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
			}
			err = conn.WriteMessage(websocket.TextMessage, respBytes)

		default:
			return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write with retry")
		}

		if err == nil {
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries >= maxWriteWsRetries {
				log.Printf("max retries reached for writing to ws [%s]: %s\n", s.remoteAddr(), err)
				return NewConnErr(ConnLoopBreak).AddDesc(err.Error())
			}
			retries++
			log.Printf("writing to ws [%s] failed; retrying... (retry no. %d)\n", s.remoteAddr(), retries)
			time.Sleep(time.Duration(retries*backOffFactor) * time.Second)

		case ConnLoopAbnormalClosureRetry:
			return NewConnErr(ConnLoopAbnormalClosureRetry).AddDesc(err.Error())

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop due to: " + err.Error())
		}
	}
}

// Hands a fresh connection to the session. Only the latest
// reconnection is kept if the session loop has not picked
// up the previous one yet.
func (s *Session) reconnect(conn *websocket.Conn) {
	for {
		select {
		case s.reconnections <- conn:
			return
		default:
		}

		select {
		case stale := <-s.reconnections:
			_ = stale.Close()
		default:
		}
	}
}

// Blocks until the client reconnects or timeout passes.
func (s *Session) awaitReconnection(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case conn := <-s.reconnections:
		s.mu.Lock()
		old := s.conn
		s.conn = conn
		s.mu.Unlock()

		if old != nil {
			_ = old.Close()
		}
		return true

	case <-timer.C:
		return false
	}
}
