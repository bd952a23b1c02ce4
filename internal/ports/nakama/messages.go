package nakama

import (
	"encoding/json"
	"fmt"

	"renju/internal/app"
	"renju/internal/domain"
)

// Wire coordinates are 1-based; the domain is 0-based. Conversion
// happens only at this boundary.

type pointPayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func toDomainPoint(p pointPayload) domain.Point {
	return domain.Point{Row: p.Row - 1, Col: p.Col - 1}
}

func fromDomainPoint(p domain.Point) pointPayload {
	return pointPayload{Row: p.Row + 1, Col: p.Col + 1}
}

func fromDomainPoints(points []domain.Point) []pointPayload {
	out := make([]pointPayload, 0, len(points))
	for _, p := range points {
		out = append(out, fromDomainPoint(p))
	}
	return out
}

type decideSwapRequest struct {
	Swap bool `json:"swap"`
}

type playerJoinedMsg struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
}

type playerLeftMsg struct {
	UserID string `json:"user_id"`
}

type matchStartedMsg struct {
	Ruleset         string `json:"ruleset"`
	BoardSize       int    `json:"board_size"`
	BlackUserID     string `json:"black_user_id"`
	WhiteUserID     string `json:"white_user_id"`
	FirstTurnUserID string `json:"first_turn_user_id"`
}

type movePlacedMsg struct {
	UserID         string       `json:"user_id"`
	Cell           string       `json:"cell"`
	Point          pointPayload `json:"point"`
	NextTurnUserID string       `json:"next_turn_user_id"`
}

type moveRejectedMsg struct {
	Point   pointPayload `json:"point"`
	Message string       `json:"message"`
}

type swapOfferedMsg struct {
	DecidingUserID string `json:"deciding_user_id"`
}

type swapDecidedMsg struct {
	UserID      string `json:"user_id"`
	Swapped     bool   `json:"swapped"`
	BlackUserID string `json:"black_user_id"`
	WhiteUserID string `json:"white_user_id"`
	Message     string `json:"message"`
}

type candidatePlacedMsg struct {
	UserID    string       `json:"user_id"`
	Point     pointPayload `json:"point"`
	Remaining int          `json:"remaining"`
}

type removalRequiredMsg struct {
	DecidingUserID string         `json:"deciding_user_id"`
	Candidates     []pointPayload `json:"candidates"`
}

type candidateRemovedMsg struct {
	UserID         string       `json:"user_id"`
	Removed        pointPayload `json:"removed"`
	Retained       pointPayload `json:"retained"`
	NextTurnUserID string       `json:"next_turn_user_id"`
}

type forbiddenMoveMsg struct {
	UserID string       `json:"user_id"`
	Point  pointPayload `json:"point"`
	Reason string       `json:"reason"`
}

type matchEndedMsg struct {
	Status        string         `json:"status"`
	WinnerUserID  string         `json:"winner_user_id,omitempty"`
	WinningPoints []pointPayload `json:"winning_points,omitempty"`
	Message       string         `json:"message"`
}

// eventMessage maps an app event to its opcode and JSON wire payload.
func eventMessage(ev app.Event) (int64, []byte, error) {
	var (
		opCode int64
		body   any
	)

	switch ev.Kind {
	case app.EventMatchStarted:
		p := ev.Payload.(app.MatchStartedPayload)
		opCode = OpMatchStarted
		body = matchStartedMsg{
			Ruleset:         string(p.Ruleset),
			BoardSize:       p.BoardSize,
			BlackUserID:     p.BlackUserID,
			WhiteUserID:     p.WhiteUserID,
			FirstTurnUserID: p.FirstTurnUserID,
		}
	case app.EventMovePlaced:
		p := ev.Payload.(app.MovePlacedPayload)
		opCode = OpMovePlaced
		body = movePlacedMsg{
			UserID:         p.UserID,
			Cell:           string(p.Cell),
			Point:          fromDomainPoint(p.Point),
			NextTurnUserID: p.NextTurnUserID,
		}
	case app.EventMoveRejected:
		p := ev.Payload.(app.MoveRejectedPayload)
		opCode = OpMoveRejected
		body = moveRejectedMsg{Point: fromDomainPoint(p.Point), Message: p.Message}
	case app.EventSwapOffered:
		p := ev.Payload.(app.SwapOfferedPayload)
		opCode = OpSwapOffered
		body = swapOfferedMsg{DecidingUserID: p.DecidingUserID}
	case app.EventSwapDecided:
		p := ev.Payload.(app.SwapDecidedPayload)
		opCode = OpSwapDecided
		body = swapDecidedMsg{
			UserID:      p.UserID,
			Swapped:     p.Swapped,
			BlackUserID: p.BlackUserID,
			WhiteUserID: p.WhiteUserID,
			Message:     p.Message,
		}
	case app.EventCandidatePlaced:
		p := ev.Payload.(app.CandidatePlacedPayload)
		opCode = OpCandidatePlaced
		body = candidatePlacedMsg{
			UserID:    p.UserID,
			Point:     fromDomainPoint(p.Point),
			Remaining: p.Remaining,
		}
	case app.EventRemovalRequired:
		p := ev.Payload.(app.RemovalRequiredPayload)
		opCode = OpRemovalRequired
		body = removalRequiredMsg{
			DecidingUserID: p.DecidingUserID,
			Candidates:     fromDomainPoints(p.Candidates),
		}
	case app.EventCandidateRemoved:
		p := ev.Payload.(app.CandidateRemovedPayload)
		opCode = OpCandidateRemoved
		body = candidateRemovedMsg{
			UserID:         p.UserID,
			Removed:        fromDomainPoint(p.Removed),
			Retained:       fromDomainPoint(p.Retained),
			NextTurnUserID: p.NextTurnUserID,
		}
	case app.EventForbiddenMove:
		p := ev.Payload.(app.ForbiddenMovePayload)
		opCode = OpForbiddenMove
		body = forbiddenMoveMsg{
			UserID: p.UserID,
			Point:  fromDomainPoint(p.Point),
			Reason: string(p.Reason),
		}
	case app.EventMatchEnded:
		p := ev.Payload.(app.MatchEndedPayload)
		opCode = OpMatchEnded
		body = matchEndedMsg{
			Status:        string(p.Status),
			WinnerUserID:  p.WinnerUserID,
			WinningPoints: fromDomainPoints(p.WinningPoints),
			Message:       p.Message,
		}
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	return opCode, data, nil
}
