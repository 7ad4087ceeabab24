package battleship

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-hotseat/internal/error"
)

type GameStage uint8

const (
	StagePlacingShips GameStage = iota
	StageAwaitingGuess
	StageGameOver
)

func (s GameStage) String() string {
	switch s {
	case StagePlacingShips:
		return "placing_ships"
	case StageAwaitingGuess:
		return "awaiting_guess"
	case StageGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

func (s GameStage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *GameStage) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, stage := range []GameStage{StagePlacingShips, StageAwaitingGuess, StageGameOver} {
		if stage.String() == name {
			*s = stage
			return nil
		}
	}
	return fmt.Errorf("unknown game stage: %q", name)
}

// GameState is the turn controller state. Player is the placing
// player while ships are placed and the attacker while guessing.
// Winner and Loser are only set once the game is over.
type GameState struct {
	Stage  GameStage `json:"stage"`
	Player Mark      `json:"player,omitempty"`
	Winner Mark      `json:"winner,omitempty"`
	Loser  Mark      `json:"loser,omitempty"`
}

type GameResult struct {
	Winner Mark `json:"winner"`
	Loser  Mark `json:"loser"`
}

type PlacementAccepted struct {
	Player         Mark
	ShipsRemaining int
	State          GameState
}

// Game owns both players and the turn state of one hot-seat match.
// All mutation goes through its methods.
type Game struct {
	mu        sync.Mutex
	uuid      string
	playerOne *Player
	playerTwo *Player
	players   PlayerPair
	state     GameState
}

func NewGame() *Game {
	return newGame(uuid.NewString()[:6])
}

func newGame(gameUuid string) *Game {
	p1 := NewPlayer(PlayerOne)
	p2 := NewPlayer(PlayerTwo)

	return &Game{
		uuid:      gameUuid,
		playerOne: p1,
		playerTwo: p2,
		players:   PlayerPair{Current: p1, Enemy: p2},
		state:     GameState{Stage: StagePlacingShips, Player: PlayerOne},
	}
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Game) fetchPlayer(mark Mark) (*Player, error) {
	switch mark {
	case PlayerOne:
		return g.playerOne, nil
	case PlayerTwo:
		return g.playerTwo, nil
	default:
		return nil, cerr.ErrUnknownMark(uint8(mark))
	}
}

// PlaceShip registers a ship for the player whose placement turn it is.
// Player one places all of their ships first, then player two. Once
// both are done the game waits for player one's first guess.
func (g *Game) PlaceShip(mark Mark, cells []Coordinates) (PlacementAccepted, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Stage != StagePlacingShips {
		return PlacementAccepted{}, cerr.ErrPlacementClosed
	}
	if !mark.IsValid() {
		return PlacementAccepted{}, cerr.ErrUnknownMark(uint8(mark))
	}
	if mark != g.state.Player {
		return PlacementAccepted{}, cerr.ErrNotTurnForPlayer(uint8(mark))
	}

	player, err := g.fetchPlayer(mark)
	if err != nil {
		return PlacementAccepted{}, err
	}
	if err := player.RegisterShip(cells); err != nil {
		return PlacementAccepted{}, err
	}

	if player.IsPlacementDone() {
		if mark == PlayerOne {
			g.state = GameState{Stage: StagePlacingShips, Player: PlayerTwo}
		} else {
			g.players = PlayerPair{Current: g.playerOne, Enemy: g.playerTwo}
			g.state = GameState{Stage: StageAwaitingGuess, Player: PlayerOne}
		}
	}

	return PlacementAccepted{
		Player:         mark,
		ShipsRemaining: player.ShipsRemaining(),
		State:          g.state,
	}, nil
}

// SubmitGuess resolves the attacker's guess against the enemy. Any
// rejected guess leaves the game untouched. A resolved guess either
// ends the game or hands the turn to the defender, hit or miss.
func (g *Game) SubmitGuess(attacker Mark, guess Coordinates) (GuessOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state.Stage {
	case StageGameOver:
		return GuessOutcome{}, cerr.ErrGameOver
	case StagePlacingShips:
		return GuessOutcome{}, cerr.ErrGuessBeforeStart
	}

	if !attacker.IsValid() {
		return GuessOutcome{}, cerr.ErrUnknownMark(uint8(attacker))
	}
	if attacker != g.players.Current.Mark() {
		return GuessOutcome{}, cerr.ErrNotTurnForPlayer(uint8(attacker))
	}

	outcome, err := ResolveGuess(guess, g.players.Enemy)
	if err != nil {
		return GuessOutcome{}, err
	}

	if g.players.Enemy.HasLost() {
		g.state = GameState{
			Stage:  StageGameOver,
			Winner: g.players.Current.Mark(),
			Loser:  g.players.Enemy.Mark(),
		}
		return outcome, nil
	}

	g.players.Swap()
	g.state = GameState{Stage: StageAwaitingGuess, Player: g.players.Current.Mark()}
	return outcome, nil
}

func (g *Game) IsGameOver() (GameResult, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Stage != StageGameOver {
		return GameResult{}, false
	}
	return GameResult{Winner: g.state.Winner, Loser: g.state.Loser}, true
}

func (g *Game) ShipCellsOf(mark Mark) ([]Coordinates, error) {
	return g.readPlayer(mark, (*Player).ShipCells)
}

func (g *Game) HitsOf(mark Mark) ([]Coordinates, error) {
	return g.readPlayer(mark, (*Player).Hits)
}

func (g *Game) MissesOf(mark Mark) ([]Coordinates, error) {
	return g.readPlayer(mark, (*Player).Misses)
}

func (g *Game) ShipsOf(mark Mark) ([][]Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := g.fetchPlayer(mark)
	if err != nil {
		return nil, err
	}
	return player.Ships(), nil
}

func (g *Game) readPlayer(mark Mark, read func(*Player) []Coordinates) ([]Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := g.fetchPlayer(mark)
	if err != nil {
		return nil, err
	}
	return read(player), nil
}

type PlayerSnapshot struct {
	Mark           Mark          `json:"mark"`
	ShipsRemaining int           `json:"ships_remaining"`
	ShipCells      []Coordinates `json:"ship_cells"`
	Hits           []Coordinates `json:"hits"`
	Misses         []Coordinates `json:"misses"`
}

type GameSnapshot struct {
	GameUuid string           `json:"game_uuid"`
	State    GameState        `json:"state"`
	Players  []PlayerSnapshot `json:"players"`
}

// Snapshot copies everything a renderer needs in one consistent read.
func (g *Game) Snapshot() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snapshot := GameSnapshot{
		GameUuid: g.uuid,
		State:    g.state,
		Players:  make([]PlayerSnapshot, 0, 2),
	}
	for _, p := range []*Player{g.playerOne, g.playerTwo} {
		snapshot.Players = append(snapshot.Players, PlayerSnapshot{
			Mark:           p.Mark(),
			ShipsRemaining: p.ShipsRemaining(),
			ShipCells:      p.ShipCells(),
			Hits:           p.Hits(),
			Misses:         p.Misses(),
		})
	}
	return snapshot
}
