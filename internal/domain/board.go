package domain

import (
	"fmt"
	"strings"
)

// Cell is the content of a single board intersection.
type Cell string

const (
	Empty Cell = "."
	Black Cell = "B"
	White Cell = "W"
)

// Point is a 0-based board coordinate, usable as a map key.
type Point struct {
	Row int
	Col int
}

// DefaultBoardSize is the standard renju board dimension.
const DefaultBoardSize = 15

// Board holds the grid for a single match. Size is fixed after construction.
type Board struct {
	Size int
	Grid [][]Cell
}

// NewBoard constructs an empty size x size board.
func NewBoard(size int) *Board {
	grid := make([][]Cell, size)
	for r := range grid {
		grid[r] = make([]Cell, size)
		for c := range grid[r] {
			grid[r][c] = Empty
		}
	}
	return &Board{Size: size, Grid: grid}
}

// InBounds reports whether the point lies on the board.
func (b *Board) InBounds(p Point) bool {
	return p.Row >= 0 && p.Row < b.Size && p.Col >= 0 && p.Col < b.Size
}

// Get returns the cell at p. The point must be in bounds.
func (b *Board) Get(p Point) Cell {
	return b.Grid[p.Row][p.Col]
}

// Place writes cell at p. The point must be in bounds.
func (b *Board) Place(p Point, cell Cell) {
	b.Grid[p.Row][p.Col] = cell
}

// IsEmpty reports whether the intersection at p is unoccupied.
func (b *Board) IsEmpty(p Point) bool {
	return b.Get(p) == Empty
}

// EmptyCount returns the number of unoccupied intersections.
func (b *Board) EmptyCount() int {
	n := 0
	for r := 0; r < b.Size; r++ {
		for c := 0; c < b.Size; c++ {
			if b.Grid[r][c] == Empty {
				n++
			}
		}
	}
	return n
}

// Lines renders the board as text rows with 1-based coordinate headers.
func (b *Board) Lines() []string {
	var header strings.Builder
	header.WriteString("   ")
	for i := 1; i <= b.Size; i++ {
		if i > 1 {
			header.WriteByte(' ')
		}
		fmt.Fprintf(&header, "%2d", i)
	}

	lines := make([]string, 0, b.Size+1)
	lines = append(lines, header.String())
	for r := 0; r < b.Size; r++ {
		cells := make([]string, b.Size)
		for c := 0; c < b.Size; c++ {
			cells[c] = string(b.Grid[r][c])
		}
		lines = append(lines, fmt.Sprintf("%2d %s", r+1, strings.Join(cells, " ")))
	}
	return lines
}

// Render returns the full text rendering of the board.
func (b *Board) Render() string {
	return strings.Join(b.Lines(), "\n")
}
