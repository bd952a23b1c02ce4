package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const historySeparator = "----------------------------------------"

// newHistoryPath builds a unique per-match log file path under dir.
func newHistoryPath(dir string) string {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	filename := fmt.Sprintf("history_%s_%x.log", timestamp, uuid.New())
	return filepath.Join(dir, filename)
}

// HistoryPath returns the file the match record will be written to.
func (g *Game) HistoryPath() string {
	return g.historyPath
}

// HistorySaved reports whether the match record has been persisted.
func (g *Game) HistorySaved() bool {
	return g.historySaved
}

// HistoryRecord serializes the match summary. Coordinates are 1-based in
// the persisted record.
func (g *Game) HistoryRecord() string {
	moves := make([]string, 0, len(g.History))
	for _, move := range g.History {
		moves = append(moves, fmt.Sprintf("%s-%s(%d,%d)",
			move.Player, move.Cell, move.Point.Row+1, move.Point.Col+1))
	}

	movesLine := "none"
	if len(moves) > 0 {
		movesLine = strings.Join(moves, " ")
	}

	lines := []string{
		fmt.Sprintf("Result: %s", g.Status),
		fmt.Sprintf("Moves: %s", movesLine),
	}

	if g.LastForbidden != nil {
		lines = append(lines, fmt.Sprintf("Forbidden: %s(%d,%d) %s",
			Black, g.LastForbidden.Point.Row+1, g.LastForbidden.Point.Col+1, g.LastForbidden.Reason))
	}

	return strings.Join(lines, "\n") + "\n" + historySeparator + "\n"
}

// SaveHistory writes the match record once. Subsequent calls are no-ops;
// a failed write leaves the saved flag clear so the host can retry.
func (g *Game) SaveHistory() error {
	if g.historySaved {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(g.historyPath), 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}
	if err := os.WriteFile(g.historyPath, []byte(g.HistoryRecord()), 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}

	g.historySaved = true
	return nil
}
