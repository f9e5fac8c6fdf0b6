package battleship

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

func classicLayout() entity.Layout {
	return entity.Layout{
		{X: 0, Y: 0, Length: 5, Orientation: entity.Horizontal},
		{X: 0, Y: 2, Length: 4, Orientation: entity.Horizontal},
		{X: 0, Y: 4, Length: 3, Orientation: entity.Horizontal},
		{X: 9, Y: 5, Length: 3, Orientation: entity.Vertical},
		{X: 5, Y: 9, Length: 2, Orientation: entity.Horizontal},
	}
}

func TestValidateLayout(t *testing.T) {
	t.Run("Accepts the classic fleet", func(t *testing.T) {
		// When: validating a well-formed classic layout
		err := ValidateLayout(DefaultBoardSize, classicLayout(), DefaultFleet)

		// Then: it should pass
		require.NoError(t, err)
	})

	t.Run("Rejects an empty layout", func(t *testing.T) {
		err := ValidateLayout(DefaultBoardSize, nil, nil)

		assert.ErrorIs(t, err, apperror.ErrInvalidLayout)
	})

	t.Run("Rejects overlapping ships", func(t *testing.T) {
		// Given: two ships crossing at (2,2)
		layout := entity.Layout{
			{X: 0, Y: 2, Length: 4, Orientation: entity.Horizontal},
			{X: 2, Y: 0, Length: 3, Orientation: entity.Vertical},
		}

		// When: validating the layout
		err := ValidateLayout(DefaultBoardSize, layout, nil)

		// Then: it should be rejected as an overlap
		require.ErrorIs(t, err, apperror.ErrInvalidLayout)
		assert.Contains(t, err.Error(), "overlaps")
	})

	t.Run("Rejects ships leaving the board", func(t *testing.T) {
		layout := entity.Layout{{X: 8, Y: 0, Length: 3, Orientation: entity.Horizontal}}

		err := ValidateLayout(DefaultBoardSize, layout, nil)

		require.ErrorIs(t, err, apperror.ErrInvalidLayout)
		assert.Contains(t, err.Error(), "leaves the board")
	})

	t.Run("Rejects negative anchors", func(t *testing.T) {
		layout := entity.Layout{{X: -1, Y: 0, Length: 1, Orientation: entity.Horizontal}}

		err := ValidateLayout(DefaultBoardSize, layout, nil)

		assert.ErrorIs(t, err, apperror.ErrInvalidLayout)
	})

	t.Run("Rejects zero length and unknown orientation", func(t *testing.T) {
		zero := entity.Layout{{X: 0, Y: 0, Length: 0, Orientation: entity.Horizontal}}
		diagonal := entity.Layout{{X: 0, Y: 0, Length: 2, Orientation: "diagonal"}}

		assert.ErrorIs(t, ValidateLayout(DefaultBoardSize, zero, nil), apperror.ErrInvalidLayout)
		assert.ErrorIs(t, ValidateLayout(DefaultBoardSize, diagonal, nil), apperror.ErrInvalidLayout)
	})

	t.Run("Rejects oversized ships before expanding them", func(t *testing.T) {
		cases := map[string]entity.ShipPlacement{
			"longer than the board": {X: 0, Y: 0, Length: DefaultBoardSize + 1, Orientation: entity.Horizontal},
			"huge length":           {X: 0, Y: 0, Length: 1 << 62, Orientation: entity.Horizontal},
			"huge vertical length":  {X: 3, Y: 3, Length: 1 << 31, Orientation: entity.Vertical},
			"anchor off the board":  {X: 1 << 40, Y: 0, Length: 2, Orientation: entity.Horizontal},
		}

		for name, ship := range cases {
			t.Run(name, func(t *testing.T) {
				var err error
				require.NotPanics(t, func() {
					err = ValidateLayout(DefaultBoardSize, entity.Layout{ship}, nil)
				})
				assert.ErrorIs(t, err, apperror.ErrInvalidLayout)
			})
		}
	})

	t.Run("Rejects more ships than cells", func(t *testing.T) {
		layout := make(entity.Layout, 5)
		for i := range layout {
			layout[i] = entity.ShipPlacement{X: i % 2, Y: i / 2, Length: 1, Orientation: entity.Horizontal}
		}

		err := ValidateLayout(2, layout, nil)

		require.ErrorIs(t, err, apperror.ErrInvalidLayout)
		assert.Contains(t, err.Error(), "do not fit")
	})

	t.Run("Rejects a layout that does not match the fleet", func(t *testing.T) {
		// Given: the classic layout without its destroyer
		layout := classicLayout()[:4]

		// When: validating against the classic fleet
		err := ValidateLayout(DefaultBoardSize, layout, DefaultFleet)

		// Then: it should be rejected
		require.ErrorIs(t, err, apperror.ErrInvalidLayout)
		assert.Contains(t, err.Error(), "fleet")
	})

	t.Run("Fleet order does not matter", func(t *testing.T) {
		layout := classicLayout()
		layout[0], layout[4] = layout[4], layout[0]

		assert.NoError(t, ValidateLayout(DefaultBoardSize, layout, DefaultFleet))
	})
}
