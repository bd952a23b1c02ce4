package domain

import "strings"

// RuleSet selects which win and restriction rules apply to a match.
type RuleSet string

const (
	// RuleSetRenju restricts Black: no overline, double-three or
	// double-four, and a win requires exactly five in a row.
	RuleSetRenju RuleSet = "renju"
	// RuleSetFreestyle has no restrictions; five or more wins for either color.
	RuleSetFreestyle RuleSet = "freestyle"
)

// directions are the four scan axes: horizontal, vertical,
// diagonal-down, diagonal-up. Order is significant for tie-breaking.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// LineResult describes the maximal contiguous run of one color through a
// pivot point along a single axis. Length includes the pivot.
type LineResult struct {
	Length int
	Points []Point
}

// ForbiddenReason names the banned shape that triggered a rejection.
type ForbiddenReason string

const (
	ReasonNone        ForbiddenReason = ""
	ReasonOverline    ForbiddenReason = "overline"
	ReasonDoubleThree ForbiddenReason = "double-three"
	ReasonDoubleFour  ForbiddenReason = "double-four"
)

// ForbiddenResult reports whether a placement forms a banned shape.
type ForbiddenResult struct {
	IsForbidden bool
	Reason      ForbiddenReason
}

var (
	openThreePatterns = []string{".BBB.", ".BB.B.", ".B.BB."}
	openFourPatterns  = []string{".BBBB.", ".BBB.B.", ".BB.BB.", ".B.BBB."}
)

// LineFromPoint walks outward from p in both directions along (dr,dc)
// while adjacent cells equal cell, returning the contiguous run.
func LineFromPoint(b *Board, p Point, dr, dc int, cell Cell) LineResult {
	points := []Point{p}
	length := 1

	for r, c := p.Row-dr, p.Col-dc; r >= 0 && r < b.Size && c >= 0 && c < b.Size; r, c = r-dr, c-dc {
		if b.Grid[r][c] != cell {
			break
		}
		points = append([]Point{{Row: r, Col: c}}, points...)
		length++
	}

	for r, c := p.Row+dr, p.Col+dc; r >= 0 && r < b.Size && c >= 0 && c < b.Size; r, c = r+dr, c+dc {
		if b.Grid[r][c] != cell {
			break
		}
		points = append(points, Point{Row: r, Col: c})
		length++
	}

	return LineResult{Length: length, Points: points}
}

// LongestLine returns the longest run of cell through p across the four
// axes. Ties keep the earlier axis in scan order.
func LongestLine(b *Board, p Point, cell Cell) LineResult {
	best := LineResult{Length: 1, Points: []Point{p}}
	for _, d := range directions {
		current := LineFromPoint(b, p, d[0], d[1], cell)
		if current.Length > best.Length {
			best = current
		}
	}
	return best
}

// WinnerForMove reports whether the stone at p completes a win for cell.
// Under renju the restricted color needs exactly five; an overline for
// Black never reaches this check because it is rejected as forbidden first.
func WinnerForMove(b *Board, p Point, cell Cell, ruleset RuleSet) bool {
	line := LongestLine(b, p, cell)
	if ruleset == RuleSetFreestyle {
		return line.Length >= 5
	}
	if cell == White {
		return line.Length >= 5
	}
	return line.Length == 5
}

// WinningLine returns the points of the maximal line when the stone at p
// is a winning move, or nil. Used for result highlighting only.
func WinningLine(b *Board, p Point, cell Cell, ruleset RuleSet) []Point {
	line := LongestLine(b, p, cell)
	if ruleset == RuleSetFreestyle && line.Length >= 5 {
		return line.Points
	}
	if ruleset == RuleSetRenju {
		if cell == White && line.Length >= 5 {
			return line.Points
		}
		if cell == Black && line.Length == 5 {
			return line.Points
		}
	}
	return nil
}

// axisString materializes the full axis through p, edge to edge, as a
// pattern-matching buffer. Board edges become "X" so that no template can
// match across them.
func axisString(b *Board, p Point, dr, dc int) string {
	r, c := p.Row, p.Col
	for r-dr >= 0 && r-dr < b.Size && c-dc >= 0 && c-dc < b.Size {
		r -= dr
		c -= dc
	}

	var sb strings.Builder
	sb.WriteByte('X')
	for r >= 0 && r < b.Size && c >= 0 && c < b.Size {
		sb.WriteString(string(b.Grid[r][c]))
		r += dr
		c += dc
	}
	sb.WriteByte('X')
	return sb.String()
}

// countPatterns counts template occurrences in line. Counting is
// overlap-aware: scanning resumes one position past each match's start,
// not past its end.
func countPatterns(line string, patterns []string) int {
	count := 0
	for _, pattern := range patterns {
		start := 0
		for {
			idx := strings.Index(line[start:], pattern)
			if idx < 0 {
				break
			}
			count++
			start += idx + 1
		}
	}
	return count
}

// ForbiddenMove checks the stone at p for Black's banned shapes. Overline
// takes precedence over double-three, which takes precedence over
// double-four; only the first triggered reason is reported.
func ForbiddenMove(b *Board, p Point) ForbiddenResult {
	for _, d := range directions {
		if LineFromPoint(b, p, d[0], d[1], Black).Length >= 6 {
			return ForbiddenResult{IsForbidden: true, Reason: ReasonOverline}
		}
	}

	openThrees := 0
	openFours := 0
	for _, d := range directions {
		line := axisString(b, p, d[0], d[1])
		openThrees += countPatterns(line, openThreePatterns)
		openFours += countPatterns(line, openFourPatterns)
	}

	if openThrees >= 2 {
		return ForbiddenResult{IsForbidden: true, Reason: ReasonDoubleThree}
	}
	if openFours >= 2 {
		return ForbiddenResult{IsForbidden: true, Reason: ReasonDoubleFour}
	}

	return ForbiddenResult{}
}

// LegalMove applies the ruleset's restriction rules to a placement.
// Freestyle and White moves are always legal.
func LegalMove(b *Board, p Point, cell Cell, ruleset RuleSet) ForbiddenResult {
	if ruleset == RuleSetFreestyle {
		return ForbiddenResult{}
	}
	if cell == White {
		return ForbiddenResult{}
	}
	return ForbiddenMove(b, p)
}
