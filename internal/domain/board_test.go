package domain

import (
	"strings"
	"testing"
)

func TestNewBoardStartsEmpty(t *testing.T) {
	b := NewBoard(15)
	if b.Size != 15 {
		t.Fatalf("size = %d, want 15", b.Size)
	}
	if got := b.EmptyCount(); got != 225 {
		t.Fatalf("EmptyCount() = %d, want 225", got)
	}
}

func TestInBounds(t *testing.T) {
	b := NewBoard(15)
	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{name: "origin", point: Point{0, 0}, want: true},
		{name: "last cell", point: Point{14, 14}, want: true},
		{name: "negative row", point: Point{-1, 0}, want: false},
		{name: "negative col", point: Point{0, -1}, want: false},
		{name: "row too large", point: Point{15, 0}, want: false},
		{name: "col too large", point: Point{0, 15}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.InBounds(tt.point); got != tt.want {
				t.Fatalf("InBounds(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestPlaceAndGet(t *testing.T) {
	b := NewBoard(15)
	p := Point{Row: 7, Col: 7}

	if !b.IsEmpty(p) {
		t.Fatalf("fresh board cell should be empty")
	}
	b.Place(p, Black)
	if got := b.Get(p); got != Black {
		t.Fatalf("Get() = %q, want %q", got, Black)
	}
	if b.IsEmpty(p) {
		t.Fatalf("occupied cell reported empty")
	}
	if got := b.EmptyCount(); got != 224 {
		t.Fatalf("EmptyCount() = %d, want 224", got)
	}

	b.Place(p, Empty)
	if !b.IsEmpty(p) {
		t.Fatalf("cleared cell should be empty")
	}
}

func TestRender(t *testing.T) {
	b := NewBoard(3)
	b.Place(Point{0, 0}, Black)
	b.Place(Point{1, 1}, White)

	lines := b.Lines()
	if len(lines) != 4 {
		t.Fatalf("line count = %d, want 4", len(lines))
	}
	if lines[1] != " 1 B . ." {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if lines[2] != " 2 . W ." {
		t.Fatalf("row 2 = %q", lines[2])
	}
	if !strings.Contains(lines[0], " 1") || !strings.Contains(lines[0], " 3") {
		t.Fatalf("header missing coordinates: %q", lines[0])
	}
	if b.Render() != strings.Join(lines, "\n") {
		t.Fatalf("Render should join Lines with newlines")
	}
}
