package entity

const (
	Horizontal = "horizontal"
	Vertical   = "vertical"
)

type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ShipPlacement is one ship segment anchored at its top-left cell.
type ShipPlacement struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Length      int    `json:"length"`
	Orientation string `json:"orientation"`
}

// Cells expands the segment into the coordinates it covers.
func (that ShipPlacement) Cells() []Coordinate {
	cells := make([]Coordinate, 0, that.Length)
	for i := 0; i < that.Length; i++ {
		if that.Orientation == Vertical {
			cells = append(cells, Coordinate{X: that.X, Y: that.Y + i})
			continue
		}
		cells = append(cells, Coordinate{X: that.X + i, Y: that.Y})
	}
	return cells
}

type Layout []ShipPlacement

// Lengths returns ship lengths in placement order.
func (that Layout) Lengths() []int {
	lengths := make([]int, 0, len(that))
	for _, ship := range that {
		lengths = append(lengths, ship.Length)
	}
	return lengths
}
