package domain

import "fmt"

// Status is the resting state of a match. StatusIllegalMove only ever
// appears in a MoveResult for a single rejected attempt; the match itself
// stays in StatusPlaying.
type Status string

const (
	StatusPlaying     Status = "playing"
	StatusBlackWon    Status = "blackWon"
	StatusWhiteWon    Status = "whiteWon"
	StatusIllegalMove Status = "illegalMove"
	StatusDraw        Status = "draw"
)

// Player identifies one of the two logical participants. Color assignment
// is mutable through the swap decision; the Player identity is not.
type Player string

const (
	PlayerOne Player = "Player 1"
	PlayerTwo Player = "Player 2"
)

// Phase tags the sub-state layered on top of StatusPlaying. The opening
// protocol phases only occur under the renju ruleset.
type Phase string

const (
	// PhaseNormal is ordinary alternating placement.
	PhaseNormal Phase = "normal"
	// PhaseSwapOffer blocks placement until the white player decides
	// whether to swap colors.
	PhaseSwapOffer Phase = "swapOffer"
	// PhaseCandidate routes the black player's placements into the
	// two-candidate cycle for the 5th move.
	PhaseCandidate Phase = "candidate"
	// PhaseRemoval blocks placement until the white player removes one
	// of the two pending candidates.
	PhaseRemoval Phase = "removal"
	// PhaseEnded is entered once the status leaves StatusPlaying.
	PhaseEnded Phase = "ended"
)

// Move is one accepted placement, attributed to the logical player who
// held the color at the time.
type Move struct {
	Player Player
	Cell   Cell
	Point  Point
}

// ForbiddenRecord captures the placement that ended a match by
// restriction, for the persisted history record.
type ForbiddenRecord struct {
	Point  Point
	Reason ForbiddenReason
}

// MoveResult is the structured outcome of a placement or removal attempt.
// Rejections are results, never errors.
type MoveResult struct {
	Success       bool
	Status        Status
	Message       string
	Forbidden     *ForbiddenResult
	WinningPoints []Point
}

func rejected(message string) MoveResult {
	return MoveResult{Status: StatusIllegalMove, Message: message}
}

// Game holds the authoritative state for one match. It is single-writer:
// exactly one goroutine mutates it through PlaceMove, DecideSwap and
// RemoveCandidate.
type Game struct {
	Board         *Board
	Ruleset       RuleSet
	CurrentPlayer Player
	Status        Status
	Phase         Phase
	History       []Move
	WinningPoints []Point
	LastForbidden *ForbiddenRecord

	// CandidatePoints holds the 0-2 pending candidate stones for the
	// 5th-move cycle; candidatePlayer is the player who placed them.
	CandidatePoints []Point
	candidatePlayer Player

	colors      map[Player]Cell
	swapDecided bool

	historyDir   string
	historyPath  string
	historySaved bool
}

// NewGame constructs a fresh match. History is written under historyDir
// once the match reaches a terminal status.
func NewGame(size int, ruleset RuleSet, historyDir string) *Game {
	g := &Game{
		Board:      NewBoard(size),
		Ruleset:    ruleset,
		historyDir: historyDir,
	}
	g.Reset()
	return g
}

// Reset re-initializes the instance for a new match on the same board
// size and ruleset, with a fresh history file path.
func (g *Game) Reset() {
	size := DefaultBoardSize
	if g.Board != nil {
		size = g.Board.Size
	}
	g.Board = NewBoard(size)
	g.CurrentPlayer = PlayerOne
	g.Status = StatusPlaying
	g.Phase = PhaseNormal
	g.History = nil
	g.WinningPoints = nil
	g.LastForbidden = nil
	g.CandidatePoints = nil
	g.candidatePlayer = ""
	g.colors = map[Player]Cell{
		PlayerOne: Black,
		PlayerTwo: White,
	}
	g.swapDecided = false
	g.historyPath = newHistoryPath(g.historyDir)
	g.historySaved = false
}

// SetBoardSize replaces the board before the first move. It has no effect
// once play has started.
func (g *Game) SetBoardSize(size int) {
	if len(g.History) > 0 || len(g.CandidatePoints) > 0 {
		return
	}
	g.Board = NewBoard(size)
}

// OtherPlayer returns the opponent of player.
func (g *Game) OtherPlayer(player Player) Player {
	if player == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (g *Game) switchPlayer() {
	g.CurrentPlayer = g.OtherPlayer(g.CurrentPlayer)
}

// CurrentCell returns the color the player to move is holding.
func (g *Game) CurrentCell() Cell {
	return g.colors[g.CurrentPlayer]
}

// ColorOf returns the color currently assigned to player.
func (g *Game) ColorOf(player Player) Cell {
	return g.colors[player]
}

// PlayerFor returns the player currently holding cell.
func (g *Game) PlayerFor(cell Cell) Player {
	for player, held := range g.colors {
		if held == cell {
			return player
		}
	}
	panic(fmt.Sprintf("no player assigned to %q", cell))
}

// SwapPending reports whether the swap offer is open and undecided.
func (g *Game) SwapPending() bool {
	return g.Phase == PhaseSwapOffer
}

// SwapDecided reports whether the one-time swap decision has been made.
func (g *Game) SwapDecided() bool {
	return g.swapDecided
}

// CandidateRemovalRequired reports whether the white player must remove
// one of the pending candidates before any other action.
func (g *Game) CandidateRemovalRequired() bool {
	return g.Phase == PhaseRemoval
}

// InCandidatePlacement reports whether the next placement is routed into
// the candidate cycle.
func (g *Game) InCandidatePlacement() bool {
	return g.Phase == PhaseCandidate
}

// DecideSwap resolves the one-time swap offer. Only the player currently
// holding White may decide; the phase closes permanently either way and
// the white-color holder is next to move.
func (g *Game) DecideSwap(swap bool) string {
	if g.Phase != PhaseSwapOffer || g.swapDecided {
		return "Swap decision is not available."
	}
	if g.CurrentCell() != White {
		return "Only the white player can decide whether to swap."
	}
	g.swapDecided = true
	g.Phase = PhaseNormal
	if swap {
		g.colors[PlayerOne], g.colors[PlayerTwo] = g.colors[PlayerTwo], g.colors[PlayerOne]
		g.CurrentPlayer = g.PlayerFor(White)
		return "Colors swapped."
	}
	g.CurrentPlayer = g.PlayerFor(White)
	return "Colors unchanged."
}

// PlaceMove validates and applies a stone for the player to move. During
// the candidate phase the placement is routed into the candidate cycle.
func (g *Game) PlaceMove(p Point) MoveResult {
	if g.Status != StatusPlaying {
		return MoveResult{Status: g.Status, Message: "Game is already over."}
	}

	switch g.Phase {
	case PhaseSwapOffer:
		return rejected("White must decide whether to swap colors before continuing.")
	case PhaseCandidate:
		return g.placeCandidate(p)
	case PhaseRemoval:
		return rejected("White must remove one of the candidate moves before continuing.")
	}

	if !g.Board.InBounds(p) {
		return rejected("Move is out of bounds.")
	}
	if !g.Board.IsEmpty(p) {
		return rejected("Intersection is already occupied.")
	}

	cell := g.CurrentCell()
	g.Board.Place(p, cell)
	if result, ended := g.rejectIfForbidden(p, cell); ended {
		return result
	}

	g.History = append(g.History, Move{Player: g.CurrentPlayer, Cell: cell, Point: p})

	if result, ended := g.settleAfterStone(p, cell); ended {
		return result
	}

	g.switchPlayer()
	if g.Ruleset == RuleSetRenju {
		if len(g.History) == 3 && !g.swapDecided {
			g.Phase = PhaseSwapOffer
		}
		if len(g.History) == 4 && g.CurrentCell() == Black {
			g.Phase = PhaseCandidate
		}
	}
	return MoveResult{Success: true, Status: g.Status, Message: "Move accepted."}
}

// placeCandidate validates one of the two 5th-move candidate stones. A
// forbidden candidate ends the match immediately with no removal step.
func (g *Game) placeCandidate(p Point) MoveResult {
	if len(g.CandidatePoints) == 0 {
		g.candidatePlayer = g.CurrentPlayer
	}

	if !g.Board.InBounds(p) {
		return rejected("Move is out of bounds.")
	}
	if !g.Board.IsEmpty(p) {
		return rejected("Intersection is already occupied.")
	}

	cell := g.CurrentCell()
	g.Board.Place(p, cell)
	if result, ended := g.rejectIfForbidden(p, cell); ended {
		return result
	}

	g.CandidatePoints = append(g.CandidatePoints, p)
	if len(g.CandidatePoints) < 2 {
		return MoveResult{Success: true, Status: g.Status, Message: "First candidate placed. Place a second."}
	}

	g.Phase = PhaseRemoval
	g.switchPlayer()
	return MoveResult{Success: true, Status: g.Status, Message: "Two candidate moves placed. White must remove one of them."}
}

// RemoveCandidate resolves the candidate cycle: the chosen point reverts
// to empty and the other candidate becomes the 5th move, attributed to
// whichever player holds Black. Win and draw checks run on the retained
// stone exactly as for a normal move.
func (g *Game) RemoveCandidate(p Point) MoveResult {
	if g.Phase != PhaseRemoval || len(g.CandidatePoints) == 0 {
		return rejected("No candidate moves to remove.")
	}

	var remaining Point
	found := false
	for _, candidate := range g.CandidatePoints {
		if candidate == p {
			found = true
		} else {
			remaining = candidate
		}
	}
	if !found {
		return rejected("Select one of the candidate moves to remove.")
	}

	g.Board.Place(p, Empty)
	owner := g.candidatePlayer
	g.CandidatePoints = nil
	g.candidatePlayer = ""
	g.Phase = PhaseNormal

	if owner == "" {
		// A removal with no tracked owner is a state machine bug, not
		// a user error.
		panic("domain: candidate removal with no tracked candidate player")
	}

	cell := g.colors[owner]
	g.History = append(g.History, Move{Player: owner, Cell: cell, Point: remaining})

	if result, ended := g.settleAfterStone(remaining, cell); ended {
		return result
	}

	return MoveResult{Success: true, Status: g.Status, Message: "Candidate removed. White to move."}
}

// rejectIfForbidden reverts the tentative stone and ends the match for
// White when the placement forms a banned shape.
func (g *Game) rejectIfForbidden(p Point, cell Cell) (MoveResult, bool) {
	forbidden := LegalMove(g.Board, p, cell, g.Ruleset)
	if !forbidden.IsForbidden {
		return MoveResult{}, false
	}

	g.Board.Place(p, Empty)
	g.Status = StatusWhiteWon
	g.LastForbidden = &ForbiddenRecord{Point: p, Reason: forbidden.Reason}
	g.finalizeIfComplete()
	return MoveResult{
		Status:    g.Status,
		Message:   fmt.Sprintf("Forbidden move by Black (%s). White wins!", forbidden.Reason),
		Forbidden: &forbidden,
	}, true
}

// settleAfterStone runs the win-then-draw check for an accepted stone.
// The win check always precedes the draw check: a board that fills on a
// winning placement is a win.
func (g *Game) settleAfterStone(p Point, cell Cell) (MoveResult, bool) {
	if WinnerForMove(g.Board, p, cell, g.Ruleset) {
		g.WinningPoints = WinningLine(g.Board, p, cell, g.Ruleset)
		if cell == Black {
			g.Status = StatusBlackWon
		} else {
			g.Status = StatusWhiteWon
		}
		g.finalizeIfComplete()
		return MoveResult{
			Success:       true,
			Status:        g.Status,
			Message:       fmt.Sprintf("%s wins!", cell),
			WinningPoints: g.WinningPoints,
		}, true
	}

	if g.Board.EmptyCount() == 0 {
		g.Status = StatusDraw
		g.finalizeIfComplete()
		return MoveResult{Success: true, Status: g.Status, Message: "Game ended in a draw."}, true
	}

	return MoveResult{}, false
}

// finalizeIfComplete marks the match ended and triggers the one-time
// history write. The write is retried by hosts via SaveHistory if it
// fails here.
func (g *Game) finalizeIfComplete() {
	if g.Status == StatusPlaying {
		return
	}
	g.Phase = PhaseEnded
	_ = g.SaveHistory()
}
