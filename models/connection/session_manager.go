package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-hotseat/internal/error"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(ctx context.Context)

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error
	CountSessions() int

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	FetchCodeFromMsg(payload []byte) (uint8, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

type SessionManagerOption func(*BattleshipSessionManager)

// WithGracePeriod sets how long a session waits for its client
// to come back after an abnormal closure.
func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.gracePeriod = d
	}
}

func WithCleanupInterval(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.cleanupInterval = d
	}
}

func NewBattleshipSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	initMapSize := 10

	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: time.Minute * 20,
		gracePeriod:     gracePeriod,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) CountSessions() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return err
	}
	session.reconnect(conn)
	log.Printf("reconnection received for session: %s\n", sessionId)
	return nil
}

// To ensure that there is no dangling connections,
// sessions with no traffic for longer than the cleanup
// interval are considered stale and dropped.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	assumedClosedConns := 10
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		bsm.mu.Lock()
		toDelete := make([]string, 0, assumedClosedConns)

		for ID, session := range bsm.sessions {
			if session.idleFor() > bsm.cleanupInterval {
				toDelete = append(toDelete, ID)
			}
		}

		for _, ID := range toDelete {
			bsm.sessions[ID].Close()
			delete(bsm.sessions, ID)
			log.Printf("stale session removed: %s", ID)
		}
		bsm.mu.Unlock()
	}
}

// Waits out the grace period for a client that dropped without
// a close frame. Mobile browsers do this when a tab is backgrounded.
func (bsm *BattleshipSessionManager) handleAbnormalClosureSession(session *Session) error {
	if session.Game() == nil {
		return NewConnErr(ConnLoopBreak).AddDesc("no game in session; nothing to wait for")
	}

	log.Printf("waiting for session to reconnect: %s\n", session.Id())
	if !session.awaitReconnection(bsm.gracePeriod) {
		log.Printf("session terminated: %s\n", session.Id())
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + session.Id())
	}

	log.Printf("session reconnected: %s\n", session.Id())
	return nil
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		session.touch()
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return err
	}

	if connErr.Code() != ConnLoopAbnormalClosureRetry {
		return connErr
	}
	if err := bsm.handleAbnormalClosureSession(session); err != nil {
		return err
	}

	// the message was lost with the old connection
	if err := session.writeToConnWithRetry(msg, msgType); err != nil {
		return err
	}
	session.touch()
	return nil
}

// Reads the next frame, transparently switching to a new
// connection if the client comes back after an abnormal closure.
func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	for {
		messageType, payload, err := session.Conn().ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		if session.onConnErr(err) != ConnLoopAbnormalClosureRetry {
			return -1, nil, err
		}
		if err := bsm.handleAbnormalClosureSession(session); err != nil {
			return -1, nil, err
		}
	}
}

// Extracts the "code" field every client frame must carry.
func (bsm *BattleshipSessionManager) FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal Signal
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, errors.New("incoming msg does not contain 'code'")
	}

	return *signal.Code, nil
}
