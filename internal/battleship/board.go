package battleship

import (
	"fmt"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

type CellState uint8

const (
	CellEmpty CellState = iota
	CellShip
	CellHit
	CellMiss
)

func (that CellState) String() string {
	switch that {
	case CellShip:
		return "ship"
	case CellHit:
		return "hit"
	case CellMiss:
		return "miss"
	default:
		return "empty"
	}
}

type ShotResult uint8

const (
	ShotMiss ShotResult = iota
	ShotHit
	ShotAlreadyTargeted
	ShotOutOfBounds
)

func (that ShotResult) String() string {
	switch that {
	case ShotHit:
		return "hit"
	case ShotAlreadyTargeted:
		return "already_targeted"
	case ShotOutOfBounds:
		return "out_of_bounds"
	default:
		return "miss"
	}
}

// Board is one player's grid. It is not safe for concurrent use; Session serializes access.
type Board struct {
	size      int
	cells     [][]CellState
	layout    entity.Layout
	shipCells int
	hits      int
}

// NewBoard validates layout and places it on an empty size×size grid.
func NewBoard(size int, layout entity.Layout, fleet []int) (*Board, error) {
	if err := ValidateLayout(size, layout, fleet); err != nil {
		return nil, err
	}

	cells := make([][]CellState, size)
	for y := range cells {
		cells[y] = make([]CellState, size)
	}

	board := &Board{
		size:   size,
		cells:  cells,
		layout: append(entity.Layout(nil), layout...),
	}

	for _, ship := range layout {
		for _, c := range ship.Cells() {
			board.cells[c.Y][c.X] = CellShip
			board.shipCells++
		}
	}

	return board, nil
}

// ApplyShot resolves a shot at c. Only Hit and Miss change the board.
func (that *Board) ApplyShot(c entity.Coordinate) (ShotResult, error) {
	if !inBounds(that.size, c) {
		return ShotOutOfBounds, fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfBounds, c.X, c.Y)
	}

	switch that.cells[c.Y][c.X] {
	case CellShip:
		that.cells[c.Y][c.X] = CellHit
		that.hits++
		return ShotHit, nil
	case CellEmpty:
		that.cells[c.Y][c.X] = CellMiss
		return ShotMiss, nil
	default:
		return ShotAlreadyTargeted, fmt.Errorf("%w: (%d,%d)", apperror.ErrAlreadyTargeted, c.X, c.Y)
	}
}

// revert undoes a successful ApplyShot at c.
func (that *Board) revert(c entity.Coordinate) {
	switch that.cells[c.Y][c.X] {
	case CellHit:
		that.cells[c.Y][c.X] = CellShip
		that.hits--
	case CellMiss:
		that.cells[c.Y][c.X] = CellEmpty
	}
}

// IsDefeated reports whether every ship cell has been hit.
func (that *Board) IsDefeated() bool {
	return that.shipCells > 0 && that.hits == that.shipCells
}

func (that *Board) Size() int {
	return that.size
}

func (that *Board) Cell(c entity.Coordinate) CellState {
	if !inBounds(that.size, c) {
		return CellEmpty
	}
	return that.cells[c.Y][c.X]
}

func (that *Board) Layout() entity.Layout {
	return append(entity.Layout(nil), that.layout...)
}

// RemainingShipCells is the number of ship cells not hit yet.
func (that *Board) RemainingShipCells() int {
	return that.shipCells - that.hits
}

// View renders the grid row by row. Without reveal, untouched ships show as empty.
func (that *Board) View(reveal bool) [][]string {
	rows := make([][]string, that.size)
	for y, row := range that.cells {
		rows[y] = make([]string, that.size)
		for x, cell := range row {
			if cell == CellShip && !reveal {
				cell = CellEmpty
			}
			rows[y][x] = cell.String()
		}
	}
	return rows
}
