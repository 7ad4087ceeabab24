package battleship

import (
	"sync"

	cerr "github.com/saeidalz13/battleship-hotseat/internal/error"
)

type GameManager interface {
	CreateGame() *Game
	GetGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	CountGames() int
}

type BattleshipGameManager struct {
	games map[string]*Game
	mu    sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

func NewBattleshipGameManager() *BattleshipGameManager {
	return &BattleshipGameManager{
		games: make(map[string]*Game, 10),
	}
}

func (bgm *BattleshipGameManager) CreateGame() *Game {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	game := NewGame()
	// 6 hex chars of a uuid can collide; keep drawing until unique
	for _, prs := bgm.games[game.Uuid()]; prs; _, prs = bgm.games[game.Uuid()] {
		game = NewGame()
	}
	bgm.games[game.Uuid()] = game

	return game
}

func (bgm *BattleshipGameManager) GetGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) CountGames() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}
