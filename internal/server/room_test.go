package server

import (
	"testing"

	"renju/internal/domain"
)

func TestPointFrom(t *testing.T) {
	tests := []struct {
		name string
		msg  map[string]any
		want domain.Point
		ok   bool
	}{
		{
			name: "JSONNumbers",
			msg:  map[string]any{"row": float64(8), "col": float64(8)},
			want: domain.Point{Row: 7, Col: 7},
			ok:   true,
		},
		{
			name: "NativeInts",
			msg:  map[string]any{"row": 1, "col": 15},
			want: domain.Point{Row: 0, Col: 14},
			ok:   true,
		},
		{
			name: "MissingCol",
			msg:  map[string]any{"row": float64(3)},
			ok:   false,
		},
		{
			name: "WrongType",
			msg:  map[string]any{"row": "3", "col": "4"},
			ok:   false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got, ok := pointFrom(test.msg)
			if ok != test.ok {
				t.Fatalf("pointFrom() ok = %t, want %t", ok, test.ok)
			}
			if ok && got != test.want {
				t.Fatalf("pointFrom() = %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestCreateRoomIdempotent(t *testing.T) {
	rm := NewRoomManager(domain.DefaultBoardSize, domain.RuleSetRenju, t.TempDir())

	first := rm.CreateRoom("room-1")
	second := rm.CreateRoom("room-1")
	if first != second {
		t.Fatalf("CreateRoom must return the existing room for a known id")
	}
	if first.game.Board.Size != domain.DefaultBoardSize {
		t.Fatalf("Board size = %d, want %d", first.game.Board.Size, domain.DefaultBoardSize)
	}
}

func TestGameSnapshot(t *testing.T) {
	rm := NewRoomManager(5, domain.RuleSetFreestyle, t.TempDir())
	room := rm.CreateRoom("room-1")
	if result := room.game.PlaceMove(domain.Point{Row: 2, Col: 2}); !result.Success {
		t.Fatalf("PlaceMove failed: %s", result.Message)
	}

	snap := gameSnapshot(room, "Move accepted.")
	if snap["type"] != "state" {
		t.Fatalf("type = %v, want state", snap["type"])
	}
	rows, ok := snap["board"].([]string)
	if !ok || len(rows) != 5 {
		t.Fatalf("board = %v, want 5 rows", snap["board"])
	}
	if rows[2] != "..B.." {
		t.Fatalf("row 3 = %q, want %q", rows[2], "..B..")
	}
	if snap["current"] != string(domain.PlayerTwo) {
		t.Fatalf("current = %v, want %s", snap["current"], domain.PlayerTwo)
	}
	if snap["message"] != "Move accepted." {
		t.Fatalf("message = %v", snap["message"])
	}
}
