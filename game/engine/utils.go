package engine

import "fmt"

// CellType describes what sits on a board cell
type CellType string

const (
	Plain  CellType = "plain"
	Snake  CellType = "snake"
	Ladder CellType = "ladder"
	Start  CellType = "start"
	Finish CellType = "finish"
)

// CellInfo describes one board cell for text renderers
type CellInfo struct {
	Cell        int      `json:"cell"`
	Type        CellType `json:"type"`
	Destination int      `json:"destination,omitempty"`
	Row         int      `json:"row"`
	Column      int      `json:"column"`
}

// CellCoordinates maps a cell number to its serpentine grid position.
// Row 0 is the bottom row; even rows run left to right, odd rows right to left.
func CellCoordinates(cell, size int) (row, col int, err error) {
	if size <= 0 || cell < StartCell || cell > size*size {
		return 0, 0, fmt.Errorf("cell %d outside 1..%d", cell, size*size)
	}
	idx := cell - 1
	row = idx / size
	col = idx % size
	if row%2 == 1 {
		col = size - 1 - col
	}
	return row, col, nil
}

// CellAt is the inverse of CellCoordinates
func CellAt(row, col, size int) int {
	if row%2 == 1 {
		col = size - 1 - col
	}
	return row*size + col + 1
}

// DescribeCell reports what a cell holds on the board
func DescribeCell(config *BoardConfig, cell int) (CellInfo, error) {
	row, col, err := CellCoordinates(cell, config.Size)
	if err != nil {
		return CellInfo{}, err
	}

	info := CellInfo{Cell: cell, Type: Plain, Row: row, Column: col}
	switch {
	case cell == StartCell:
		info.Type = Start
	case cell == config.Cells():
		info.Type = Finish
	}
	if dest, ok := config.Ladders[cell]; ok {
		info.Type = Ladder
		info.Destination = dest
	} else if dest, ok := config.Snakes[cell]; ok {
		info.Type = Snake
		info.Destination = dest
	}
	return info, nil
}

// CountSnakes returns the number of snakes on the board
func CountSnakes(config *BoardConfig) int {
	return len(config.Snakes)
}

// CountLadders returns the number of ladders on the board
func CountLadders(config *BoardConfig) int {
	return len(config.Ladders)
}

// DistanceToFinish returns how many cells separate a position from the last cell
func DistanceToFinish(config *BoardConfig, position int) int {
	return config.Cells() - position
}

// ExactRollsToFinish lists the die faces that would win outright from a position
// with an empty accumulator. A six is included only when it lands exactly.
func ExactRollsToFinish(config *BoardConfig, position int) []int {
	d := DistanceToFinish(config, position)
	if d < MinDie || d > MaxDie {
		return nil
	}
	return []int{d}
}
