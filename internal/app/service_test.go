package app

import (
	"testing"

	"renju/internal/domain"
)

func newTestMatch(t *testing.T) (*Service, *Match) {
	t.Helper()
	svc := NewService(0, "", t.TempDir())
	match, events, err := svc.StartMatch([2]string{"u1", "u2"})
	if err != nil {
		t.Fatalf("start match: %v", err)
	}
	if len(events) != 1 || events[0].Kind != EventMatchStarted {
		t.Fatalf("start events = %+v", events)
	}
	payload := events[0].Payload.(MatchStartedPayload)
	if payload.BlackUserID != "u1" || payload.WhiteUserID != "u2" || payload.FirstTurnUserID != "u1" {
		t.Fatalf("started payload = %+v", payload)
	}
	return svc, match
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestStartMatchRequiresTwoPlayers(t *testing.T) {
	svc := NewService(0, "", t.TempDir())
	if _, _, err := svc.StartMatch([2]string{"u1", ""}); err != ErrTooFewPlayers {
		t.Fatalf("err = %v, want ErrTooFewPlayers", err)
	}
}

func TestPlaceMoveEmitsMovePlaced(t *testing.T) {
	svc, match := newTestMatch(t)

	events, err := svc.PlaceMove(match, "u1", domain.Point{Row: 7, Col: 7})
	if err != nil {
		t.Fatalf("place move: %v", err)
	}
	if len(events) != 1 || events[0].Kind != EventMovePlaced {
		t.Fatalf("events = %v", kinds(events))
	}
	payload := events[0].Payload.(MovePlacedPayload)
	if payload.UserID != "u1" || payload.Cell != domain.Black || payload.NextTurnUserID != "u2" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestPlaceMoveTurnValidation(t *testing.T) {
	svc, match := newTestMatch(t)

	if _, err := svc.PlaceMove(match, "u2", domain.Point{Row: 7, Col: 7}); err != ErrNotYourTurn {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	if _, err := svc.PlaceMove(match, "stranger", domain.Point{Row: 7, Col: 7}); err != ErrUnknownPlayer {
		t.Fatalf("err = %v, want ErrUnknownPlayer", err)
	}
}

func TestRejectedPlacementTargetsActor(t *testing.T) {
	svc, match := newTestMatch(t)
	if _, err := svc.PlaceMove(match, "u1", domain.Point{Row: 7, Col: 7}); err != nil {
		t.Fatalf("place move: %v", err)
	}

	events, err := svc.PlaceMove(match, "u2", domain.Point{Row: 7, Col: 7})
	if err != nil {
		t.Fatalf("place move: %v", err)
	}
	if len(events) != 1 || events[0].Kind != EventMoveRejected {
		t.Fatalf("events = %v", kinds(events))
	}
	if len(events[0].Recipients) != 1 || events[0].Recipients[0] != "u2" {
		t.Fatalf("recipients = %v", events[0].Recipients)
	}
	if match.Game.CurrentPlayer != domain.PlayerTwo {
		t.Fatalf("rejection must not advance the turn")
	}
}

func TestSwapOfferedAndDecided(t *testing.T) {
	svc, match := newTestMatch(t)
	moves := []struct {
		user  string
		point domain.Point
	}{
		{"u1", domain.Point{Row: 7, Col: 7}},
		{"u2", domain.Point{Row: 7, Col: 8}},
		{"u1", domain.Point{Row: 8, Col: 7}},
	}
	var events []Event
	var err error
	for _, mv := range moves {
		events, err = svc.PlaceMove(match, mv.user, mv.point)
		if err != nil {
			t.Fatalf("place move %v: %v", mv.point, err)
		}
	}

	if len(events) != 2 || events[1].Kind != EventSwapOffered {
		t.Fatalf("third move events = %v", kinds(events))
	}
	offered := events[1].Payload.(SwapOfferedPayload)
	if offered.DecidingUserID != "u2" {
		t.Fatalf("deciding user = %q, want u2", offered.DecidingUserID)
	}

	if _, err := svc.DecideSwap(match, "u1", true); err != ErrNotYourTurn {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}

	events, err = svc.DecideSwap(match, "u2", true)
	if err != nil {
		t.Fatalf("decide swap: %v", err)
	}
	payload := events[0].Payload.(SwapDecidedPayload)
	if !payload.Swapped || payload.BlackUserID != "u2" || payload.WhiteUserID != "u1" {
		t.Fatalf("swap payload = %+v", payload)
	}

	if _, err := svc.DecideSwap(match, "u1", false); err != ErrSwapNotAvailable {
		t.Fatalf("second decision err = %v, want ErrSwapNotAvailable", err)
	}
}

func TestCandidateCycleEvents(t *testing.T) {
	svc, match := newTestMatch(t)
	setup := []struct {
		user  string
		point domain.Point
	}{
		{"u1", domain.Point{Row: 7, Col: 7}},
		{"u2", domain.Point{Row: 7, Col: 8}},
		{"u1", domain.Point{Row: 8, Col: 7}},
	}
	for _, mv := range setup {
		if _, err := svc.PlaceMove(match, mv.user, mv.point); err != nil {
			t.Fatalf("place move %v: %v", mv.point, err)
		}
	}
	if _, err := svc.DecideSwap(match, "u2", false); err != nil {
		t.Fatalf("decide swap: %v", err)
	}
	if _, err := svc.PlaceMove(match, "u2", domain.Point{Row: 8, Col: 8}); err != nil {
		t.Fatalf("fourth move: %v", err)
	}

	events, err := svc.PlaceMove(match, "u1", domain.Point{Row: 4, Col: 4})
	if err != nil {
		t.Fatalf("candidate 1: %v", err)
	}
	if len(events) != 1 || events[0].Kind != EventCandidatePlaced {
		t.Fatalf("candidate 1 events = %v", kinds(events))
	}
	if remaining := events[0].Payload.(CandidatePlacedPayload).Remaining; remaining != 1 {
		t.Fatalf("remaining = %d, want 1", remaining)
	}

	events, err = svc.PlaceMove(match, "u1", domain.Point{Row: 4, Col: 5})
	if err != nil {
		t.Fatalf("candidate 2: %v", err)
	}
	if len(events) != 2 || events[1].Kind != EventRemovalRequired {
		t.Fatalf("candidate 2 events = %v", kinds(events))
	}
	removal := events[1].Payload.(RemovalRequiredPayload)
	if removal.DecidingUserID != "u2" || len(removal.Candidates) != 2 {
		t.Fatalf("removal payload = %+v", removal)
	}

	events, err = svc.RemoveCandidate(match, "u2", domain.Point{Row: 4, Col: 4})
	if err != nil {
		t.Fatalf("remove candidate: %v", err)
	}
	if len(events) != 1 || events[0].Kind != EventCandidateRemoved {
		t.Fatalf("removal events = %v", kinds(events))
	}
	payload := events[0].Payload.(CandidateRemovedPayload)
	if payload.Retained != (domain.Point{Row: 4, Col: 5}) || payload.NextTurnUserID != "u2" {
		t.Fatalf("removed payload = %+v", payload)
	}
}

func TestForbiddenMoveEmitsEndedEvents(t *testing.T) {
	svc, match := newTestMatch(t)
	// Two open threes meeting at (7,7); history padded past the
	// opening protocol.
	for _, p := range []domain.Point{{Row: 7, Col: 6}, {Row: 7, Col: 8}, {Row: 6, Col: 7}, {Row: 8, Col: 7}} {
		match.Game.Board.Place(p, domain.Black)
	}
	match.Game.History = make([]domain.Move, 8)

	events, err := svc.PlaceMove(match, "u1", domain.Point{Row: 7, Col: 7})
	if err != nil {
		t.Fatalf("place move: %v", err)
	}
	if len(events) != 2 || events[0].Kind != EventForbiddenMove || events[1].Kind != EventMatchEnded {
		t.Fatalf("events = %v", kinds(events))
	}
	forbidden := events[0].Payload.(ForbiddenMovePayload)
	if forbidden.Reason != domain.ReasonDoubleThree {
		t.Fatalf("reason = %q", forbidden.Reason)
	}
	ended := events[1].Payload.(MatchEndedPayload)
	if ended.Status != domain.StatusWhiteWon || ended.WinnerUserID != "u2" {
		t.Fatalf("ended payload = %+v", ended)
	}

	if _, err := svc.PlaceMove(match, "u2", domain.Point{Row: 0, Col: 0}); err != ErrMatchOver {
		t.Fatalf("err = %v, want ErrMatchOver", err)
	}
}

func TestRestartResetsMatch(t *testing.T) {
	svc, match := newTestMatch(t)
	if _, err := svc.PlaceMove(match, "u1", domain.Point{Row: 7, Col: 7}); err != nil {
		t.Fatalf("place move: %v", err)
	}

	events := svc.Restart(match)
	if len(events) != 1 || events[0].Kind != EventMatchStarted {
		t.Fatalf("restart events = %v", kinds(events))
	}
	if len(match.Game.History) != 0 || match.Game.CurrentPlayer != domain.PlayerOne {
		t.Fatalf("match not reset")
	}
}
