package battleship

import (
	"fmt"
	"sort"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

const DefaultBoardSize = 10

// DefaultFleet is the classic carrier, battleship, cruiser, submarine, destroyer set.
var DefaultFleet = []int{5, 4, 3, 3, 2}

// ValidateLayout checks that every ship lies inside a size×size grid, that no two ships share a
// cell and, when fleet is not empty, that ship lengths match it exactly.
func ValidateLayout(size int, layout entity.Layout, fleet []int) error {
	if len(layout) == 0 {
		return fmt.Errorf("%w: at least one ship is required", apperror.ErrInvalidLayout)
	}

	if len(layout) > size*size {
		return fmt.Errorf("%w: %d ships do not fit a %dx%d board", apperror.ErrInvalidLayout, len(layout), size, size)
	}

	occupied := make(map[entity.Coordinate]int, len(layout)*5)
	for i, ship := range layout {
		if ship.Length < 1 || ship.Length > size {
			return fmt.Errorf("%w: ship %d has length %d", apperror.ErrInvalidLayout, i, ship.Length)
		}

		anchor := entity.Coordinate{X: ship.X, Y: ship.Y}
		if !inBounds(size, anchor) {
			return fmt.Errorf("%w: ship %d leaves the board at (%d,%d)", apperror.ErrInvalidLayout, i, ship.X, ship.Y)
		}

		if ship.Orientation != entity.Horizontal && ship.Orientation != entity.Vertical {
			return fmt.Errorf("%w: ship %d has unknown orientation %q", apperror.ErrInvalidLayout, i, ship.Orientation)
		}

		for _, cell := range ship.Cells() {
			if !inBounds(size, cell) {
				return fmt.Errorf("%w: ship %d leaves the board at (%d,%d)", apperror.ErrInvalidLayout, i, cell.X, cell.Y)
			}

			if other, ok := occupied[cell]; ok {
				return fmt.Errorf("%w: ship %d overlaps ship %d at (%d,%d)", apperror.ErrInvalidLayout, i, other, cell.X, cell.Y)
			}
			occupied[cell] = i
		}
	}

	if len(fleet) > 0 && !sameLengths(layout.Lengths(), fleet) {
		return fmt.Errorf("%w: fleet must be %v, got %v", apperror.ErrInvalidLayout, fleet, layout.Lengths())
	}

	return nil
}

func inBounds(size int, c entity.Coordinate) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < size && c.Y < size
}

func sameLengths(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}

	a := append([]int(nil), got...)
	b := append([]int(nil), want...)
	sort.Ints(a)
	sort.Ints(b)

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
