package app

import (
	"errors"

	"renju/internal/domain"
)

var (
	ErrTooFewPlayers    = errors.New("two seated players are required")
	ErrUnknownPlayer    = errors.New("player not seated in this match")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrSwapNotAvailable = errors.New("swap decision not available")
	ErrMatchOver        = errors.New("match already over")
)

// Service contains the match use-cases operating on domain state.
type Service struct {
	boardSize  int
	ruleset    domain.RuleSet
	historyDir string
}

// NewService constructs a Service. Zero values fall back to a 15x15
// renju match with history written under "history".
func NewService(boardSize int, ruleset domain.RuleSet, historyDir string) *Service {
	if boardSize <= 0 {
		boardSize = domain.DefaultBoardSize
	}
	if ruleset == "" {
		ruleset = domain.RuleSetRenju
	}
	if historyDir == "" {
		historyDir = "history"
	}
	return &Service{boardSize: boardSize, ruleset: ruleset, historyDir: historyDir}
}

// Match pairs a domain game with its two seated users. Seat 0 is
// Player 1 (initially Black), seat 1 is Player 2 (initially White).
type Match struct {
	Game  *domain.Game
	Seats [2]string
}

// PlayerOf resolves a seated user to their logical player.
func (m *Match) PlayerOf(userID string) (domain.Player, bool) {
	switch userID {
	case m.Seats[0]:
		return domain.PlayerOne, true
	case m.Seats[1]:
		return domain.PlayerTwo, true
	}
	return "", false
}

// UserOf resolves a logical player to the seated user ID.
func (m *Match) UserOf(player domain.Player) string {
	if player == domain.PlayerOne {
		return m.Seats[0]
	}
	return m.Seats[1]
}

// UserForCell returns the user currently holding cell.
func (m *Match) UserForCell(cell domain.Cell) string {
	return m.UserOf(m.Game.PlayerFor(cell))
}

// StartMatch creates a fresh match for the two given users.
func (s *Service) StartMatch(userIDs [2]string) (*Match, []Event, error) {
	if userIDs[0] == "" || userIDs[1] == "" {
		return nil, nil, ErrTooFewPlayers
	}

	match := &Match{
		Game:  domain.NewGame(s.boardSize, s.ruleset, s.historyDir),
		Seats: userIDs,
	}
	return match, []Event{s.startedEvent(match)}, nil
}

// Restart resets the match for a rematch between the same players.
func (s *Service) Restart(m *Match) []Event {
	m.Game.Reset()
	return []Event{s.startedEvent(m)}
}

func (s *Service) startedEvent(m *Match) Event {
	return Event{
		Kind: EventMatchStarted,
		Payload: MatchStartedPayload{
			Ruleset:         m.Game.Ruleset,
			BoardSize:       m.Game.Board.Size,
			BlackUserID:     m.UserForCell(domain.Black),
			WhiteUserID:     m.UserForCell(domain.White),
			FirstTurnUserID: m.UserOf(m.Game.CurrentPlayer),
		},
	}
}

// PlaceMove validates the actor and applies a placement, returning the
// events to dispatch. Domain rejections come back as targeted
// move_rejected events, not errors.
func (s *Service) PlaceMove(m *Match, userID string, p domain.Point) ([]Event, error) {
	player, ok := m.PlayerOf(userID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if m.Game.Status != domain.StatusPlaying {
		return nil, ErrMatchOver
	}
	if player != m.Game.CurrentPlayer {
		return nil, ErrNotYourTurn
	}

	cell := m.Game.CurrentCell()
	wasCandidate := m.Game.InCandidatePlacement()
	result := m.Game.PlaceMove(p)

	if result.Forbidden != nil {
		events := []Event{{
			Kind: EventForbiddenMove,
			Payload: ForbiddenMovePayload{
				UserID: userID,
				Point:  p,
				Reason: result.Forbidden.Reason,
			},
		}}
		return append(events, s.endedEvent(m, result.Message)), nil
	}

	if !result.Success {
		return []Event{{
			Kind:       EventMoveRejected,
			Payload:    MoveRejectedPayload{UserID: userID, Point: p, Message: result.Message},
			Recipients: []string{userID},
		}}, nil
	}

	if wasCandidate {
		return s.candidateEvents(m, userID, p), nil
	}

	events := []Event{{
		Kind: EventMovePlaced,
		Payload: MovePlacedPayload{
			UserID:         userID,
			Cell:           cell,
			Point:          p,
			NextTurnUserID: m.UserOf(m.Game.CurrentPlayer),
		},
	}}

	if m.Game.Status != domain.StatusPlaying {
		return append(events, s.endedEvent(m, result.Message)), nil
	}
	if m.Game.SwapPending() {
		events = append(events, Event{
			Kind:    EventSwapOffered,
			Payload: SwapOfferedPayload{DecidingUserID: m.UserForCell(domain.White)},
		})
	}
	return events, nil
}

func (s *Service) candidateEvents(m *Match, userID string, p domain.Point) []Event {
	events := []Event{{
		Kind: EventCandidatePlaced,
		Payload: CandidatePlacedPayload{
			UserID:    userID,
			Point:     p,
			Remaining: 2 - len(m.Game.CandidatePoints),
		},
	}}

	if m.Game.CandidateRemovalRequired() {
		candidates := append([]domain.Point(nil), m.Game.CandidatePoints...)
		events = append(events, Event{
			Kind: EventRemovalRequired,
			Payload: RemovalRequiredPayload{
				DecidingUserID: m.UserOf(m.Game.CurrentPlayer),
				Candidates:     candidates,
			},
		})
	}
	return events
}

// DecideSwap resolves the swap offer on behalf of userID.
func (s *Service) DecideSwap(m *Match, userID string, swap bool) ([]Event, error) {
	player, ok := m.PlayerOf(userID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if !m.Game.SwapPending() {
		return nil, ErrSwapNotAvailable
	}
	if player != m.Game.CurrentPlayer {
		return nil, ErrNotYourTurn
	}

	message := m.Game.DecideSwap(swap)
	return []Event{{
		Kind: EventSwapDecided,
		Payload: SwapDecidedPayload{
			UserID:      userID,
			Swapped:     swap,
			BlackUserID: m.UserForCell(domain.Black),
			WhiteUserID: m.UserForCell(domain.White),
			Message:     message,
		},
	}}, nil
}

// RemoveCandidate resolves the candidate cycle on behalf of userID.
func (s *Service) RemoveCandidate(m *Match, userID string, p domain.Point) ([]Event, error) {
	player, ok := m.PlayerOf(userID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if m.Game.Status != domain.StatusPlaying {
		return nil, ErrMatchOver
	}
	if player != m.Game.CurrentPlayer {
		return nil, ErrNotYourTurn
	}

	result := m.Game.RemoveCandidate(p)
	if !result.Success {
		return []Event{{
			Kind:       EventMoveRejected,
			Payload:    MoveRejectedPayload{UserID: userID, Point: p, Message: result.Message},
			Recipients: []string{userID},
		}}, nil
	}

	retained := m.Game.History[len(m.Game.History)-1].Point
	events := []Event{{
		Kind: EventCandidateRemoved,
		Payload: CandidateRemovedPayload{
			UserID:         userID,
			Removed:        p,
			Retained:       retained,
			NextTurnUserID: m.UserOf(m.Game.CurrentPlayer),
		},
	}}

	if m.Game.Status != domain.StatusPlaying {
		events = append(events, s.endedEvent(m, result.Message))
	}
	return events, nil
}

func (s *Service) endedEvent(m *Match, message string) Event {
	payload := MatchEndedPayload{
		Status:        m.Game.Status,
		WinningPoints: m.Game.WinningPoints,
		Message:       message,
	}
	switch m.Game.Status {
	case domain.StatusBlackWon:
		payload.WinnerUserID = m.UserForCell(domain.Black)
	case domain.StatusWhiteWon:
		payload.WinnerUserID = m.UserForCell(domain.White)
	}
	return Event{Kind: EventMatchEnded, Payload: payload}
}
