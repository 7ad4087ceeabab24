package battleship

import (
	"slices"

	cerr "github.com/saeidalz13/battleship-hotseat/internal/error"
)

type Mark uint8

const (
	PlayerOne Mark = iota + 1
	PlayerTwo
)

func (m Mark) IsValid() bool {
	return m == PlayerOne || m == PlayerTwo
}

// Other returns the opponent's mark.
func (m Mark) Other() Mark {
	if m == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

// Player is the per-player bookkeeping of one game. Ship cells
// only grow during placement and hits/misses only grow during
// guessing; nothing is ever removed.
type Player struct {
	mark      Mark
	ships     [][]Coordinates
	shipCells coordinatesSet
	hits      coordinatesSet
	misses    coordinatesSet
}

func NewPlayer(mark Mark) *Player {
	return &Player{
		mark:      mark,
		ships:     make([][]Coordinates, 0, ShipsPerPlayer),
		shipCells: newCoordinatesSet(ShipsPerPlayer * MaxShipLength),
		hits:      newCoordinatesSet(ShipsPerPlayer * MaxShipLength),
		misses:    newCoordinatesSet(int(GridSize) * int(GridSize)),
	}
}

func (p *Player) Mark() Mark {
	return p.mark
}

// RegisterShip validates cells against the player's existing ships
// and, only on success, records all of them at once.
func (p *Player) RegisterShip(cells []Coordinates) error {
	if p.IsPlacementDone() {
		return cerr.ErrAllShipsPlaced
	}
	if err := ValidateShip(cells, p.shipCells.has); err != nil {
		return err
	}

	ship := slices.Clone(cells)
	for _, c := range ship {
		p.shipCells.add(c)
	}
	p.ships = append(p.ships, ship)
	return nil
}

func (p *Player) ShipsPlaced() int {
	return len(p.ships)
}

func (p *Player) ShipsRemaining() int {
	return ShipsPerPlayer - len(p.ships)
}

func (p *Player) IsPlacementDone() bool {
	return len(p.ships) >= ShipsPerPlayer
}

func (p *Player) IsShipCell(c Coordinates) bool {
	return p.shipCells.has(c)
}

func (p *Player) IsGuessed(c Coordinates) bool {
	return p.hits.has(c) || p.misses.has(c)
}

// HasLost is true once every ship cell has a matching hit.
// Vacuously true for a player with no ship cells.
func (p *Player) HasLost() bool {
	for _, c := range p.shipCells.order {
		if !p.hits.has(c) {
			return false
		}
	}
	return true
}

// shipAt returns the placed ship covering c.
func (p *Player) shipAt(c Coordinates) ([]Coordinates, bool) {
	for _, ship := range p.ships {
		if ContainsCoordinates(ship, c) {
			return ship, true
		}
	}
	return nil, false
}

func (p *Player) ShipCells() []Coordinates {
	return p.shipCells.sorted()
}

func (p *Player) Hits() []Coordinates {
	return p.hits.list()
}

func (p *Player) Misses() []Coordinates {
	return p.misses.list()
}

func (p *Player) Ships() [][]Coordinates {
	ships := make([][]Coordinates, 0, len(p.ships))
	for _, ship := range p.ships {
		ships = append(ships, slices.Clone(ship))
	}
	return ships
}

// PlayerPair is the rotating current/enemy view over the two
// players of a game. Swapping never touches the players.
type PlayerPair struct {
	Current *Player
	Enemy   *Player
}

func (pp *PlayerPair) Swap() {
	pp.Current, pp.Enemy = pp.Enemy, pp.Current
}
