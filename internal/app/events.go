package app

import "renju/internal/domain"

// EventKind identifies emitted match events for transport dispatch.
type EventKind string

const (
	EventMatchStarted     EventKind = "match_started"
	EventMovePlaced       EventKind = "move_placed"
	EventMoveRejected     EventKind = "move_rejected"
	EventSwapOffered      EventKind = "swap_offered"
	EventSwapDecided      EventKind = "swap_decided"
	EventCandidatePlaced  EventKind = "candidate_placed"
	EventRemovalRequired  EventKind = "removal_required"
	EventCandidateRemoved EventKind = "candidate_removed"
	EventForbiddenMove    EventKind = "forbidden_move"
	EventMatchEnded       EventKind = "match_ended"
)

// Event is an app-level event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type MatchStartedPayload struct {
	Ruleset         domain.RuleSet
	BoardSize       int
	BlackUserID     string
	WhiteUserID     string
	FirstTurnUserID string
}

type MovePlacedPayload struct {
	UserID         string
	Cell           domain.Cell
	Point          domain.Point
	NextTurnUserID string
}

type MoveRejectedPayload struct {
	UserID  string
	Point   domain.Point
	Message string
}

type SwapOfferedPayload struct {
	DecidingUserID string
}

type SwapDecidedPayload struct {
	UserID      string
	Swapped     bool
	BlackUserID string
	WhiteUserID string
	Message     string
}

type CandidatePlacedPayload struct {
	UserID    string
	Point     domain.Point
	Remaining int // candidates still to be placed
}

type RemovalRequiredPayload struct {
	DecidingUserID string
	Candidates     []domain.Point
}

type CandidateRemovedPayload struct {
	UserID         string
	Removed        domain.Point
	Retained       domain.Point
	NextTurnUserID string
}

type ForbiddenMovePayload struct {
	UserID string
	Point  domain.Point
	Reason domain.ForbiddenReason
}

type MatchEndedPayload struct {
	Status        domain.Status
	WinnerUserID  string // empty on a draw
	WinningPoints []domain.Point
	Message       string
}
