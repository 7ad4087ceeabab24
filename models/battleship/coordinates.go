package battleship

import (
	"cmp"
	"slices"
)

const (
	GridSize       uint8 = 10
	ShipsPerPlayer int   = 5

	MinShipLength int = 2
	MaxShipLength int = 5
)

type Coordinates struct {
	Row uint8 `json:"row"`
	Col uint8 `json:"col"`
}

func NewCoordinates(row, col uint8) Coordinates {
	return Coordinates{Row: row, Col: col}
}

// Coordinates are unsigned, so only the upper bound
// needs checking.
func (c Coordinates) IsInBound() bool {
	return c.Row < GridSize && c.Col < GridSize
}

func ContainsCoordinates(cells []Coordinates, c Coordinates) bool {
	return slices.Contains(cells, c)
}

// Row-major order; used to hand out deterministic snapshots.
func compareCoordinates(a, b Coordinates) int {
	if n := cmp.Compare(a.Row, b.Row); n != 0 {
		return n
	}
	return cmp.Compare(a.Col, b.Col)
}

// coordinatesSet keeps insertion order next to the
// membership index.
type coordinatesSet struct {
	index map[Coordinates]struct{}
	order []Coordinates
}

func newCoordinatesSet(capacity int) coordinatesSet {
	return coordinatesSet{
		index: make(map[Coordinates]struct{}, capacity),
		order: make([]Coordinates, 0, capacity),
	}
}

func (s *coordinatesSet) add(c Coordinates) {
	if s.has(c) {
		return
	}
	s.index[c] = struct{}{}
	s.order = append(s.order, c)
}

func (s *coordinatesSet) has(c Coordinates) bool {
	_, prs := s.index[c]
	return prs
}

func (s *coordinatesSet) len() int {
	return len(s.order)
}

func (s *coordinatesSet) list() []Coordinates {
	return slices.Clone(s.order)
}

func (s *coordinatesSet) sorted() []Coordinates {
	cells := slices.Clone(s.order)
	slices.SortFunc(cells, compareCoordinates)
	return cells
}
