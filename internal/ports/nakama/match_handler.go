package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"renju/internal/app"
	"renju/internal/config"
	"renju/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match
// handler: two seats, connected presences and the app-level match.
type MatchState struct {
	Seats     [2]string                   `json:"seats"` // user IDs, empty string means seat is free
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"`
	App       *app.Service                `json:"-"`
	Match     *app.Match                  `json:"-"` // nil while waiting for players
}

// GetOpenSeatsCount returns the number of free seats.
func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

// seatOf returns the seat index of userID, or -1.
func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat == userID {
			return i
		}
	}
	return -1
}

// labelPayload is the advertised match label used by RpcFindMatch.
type labelPayload struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

func (ms *MatchState) label() labelPayload {
	phase := "lobby"
	if ms.Match != nil {
		phase = "playing"
		if ms.Match.Game.Status != domain.StatusPlaying {
			phase = "ended"
		}
	}
	return labelPayload{Open: ms.GetOpenSeatsCount(), Game: "renju", Phase: phase}
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing renju match handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	boardSize := config.GetBoardSize()
	ruleset := config.GetRuleSet()
	historyDir := config.GetHistoryDir()

	// Environment overrides take precedence over the config file.
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["renju_board_size"]; ok {
			if i, err := strconv.Atoi(val); err == nil && i > 0 {
				boardSize = i
			}
		}
		if val, ok := env["renju_ruleset"]; ok {
			ruleset = config.ParseRuleSet(val)
		}
		if val, ok := env["renju_history_dir"]; ok && val != "" {
			historyDir = val
		}
	}

	state := &MatchState{
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(boardSize, ruleset, historyDir),
	}

	labelBytes, err := json.Marshal(state.label())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

// MatchJoinAttempt validates whether a presence may join the match.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Rejoins are always allowed so a dropped player can resume.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}
	if matchState.GetOpenSeatsCount() == 0 {
		return state, false, "Match full"
	}
	return state, true, ""
}

// MatchJoin seats joining presences and starts the match once both
// seats are taken.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if seat := matchState.seatOf(userID); seat >= 0 {
			logger.Debug("MatchJoin: User %s rejoined seat %d.", userID, seat)
			continue
		}

		assigned := false
		for i, seat := range matchState.Seats {
			if seat == "" {
				matchState.Seats[i] = userID
				assigned = true

				data, _ := json.Marshal(playerJoinedMsg{UserID: userID, Seat: i + 1})
				if err := dispatcher.BroadcastMessage(OpPlayerJoined, data, nil, nil, true); err != nil {
					logger.Error("MatchJoin: broadcast failed: %v", err)
				}
				break
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", userID)
		}
	}

	if matchState.Match == nil && matchState.GetOpenSeatsCount() == 0 {
		match, events, err := matchState.App.StartMatch(matchState.Seats)
		if err != nil {
			logger.Error("MatchJoin: failed to start match: %v", err)
		} else {
			matchState.Match = match
			logger.Info("MatchJoin: Match started between %s and %s.", matchState.Seats[0], matchState.Seats[1])
			mh.dispatchEvents(matchState, dispatcher, logger, events)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave frees presences; the match terminates once nobody remains.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		// Seats stay reserved once play has started so the player can
		// rejoin; in the lobby the seat is freed.
		if matchState.Match == nil {
			if seat := matchState.seatOf(userID); seat >= 0 {
				matchState.Seats[seat] = ""
			}
		}

		data, _ := json.Marshal(playerLeftMsg{UserID: userID})
		if err := dispatcher.BroadcastMessage(OpPlayerLeft, data, nil, nil, true); err != nil {
			logger.Error("MatchLeave: broadcast failed: %v", err)
		}
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLoop handles queued client messages.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpPlaceMove:
			mh.handlePlaceMove(matchState, dispatcher, logger, msg)
		case OpDecideSwap:
			mh.handleDecideSwap(matchState, dispatcher, logger, msg)
		case OpRemoveCandidate:
			mh.handleRemoveCandidate(matchState, dispatcher, logger, msg)
		case OpRequestNewGame:
			mh.handleNewGame(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	return matchState
}

func (mh *matchHandler) handlePlaceMove(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Match == nil {
		mh.sendRejection(state, dispatcher, logger, msg.GetUserId(), "Match has not started yet.")
		return
	}

	var req pointPayload
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handlePlaceMove: bad payload from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := state.App.PlaceMove(state.Match, msg.GetUserId(), toDomainPoint(req))
	if err != nil {
		mh.sendRejection(state, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleDecideSwap(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Match == nil {
		mh.sendRejection(state, dispatcher, logger, msg.GetUserId(), "Match has not started yet.")
		return
	}

	var req decideSwapRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleDecideSwap: bad payload from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := state.App.DecideSwap(state.Match, msg.GetUserId(), req.Swap)
	if err != nil {
		mh.sendRejection(state, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handleRemoveCandidate(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Match == nil {
		mh.sendRejection(state, dispatcher, logger, msg.GetUserId(), "Match has not started yet.")
		return
	}

	var req pointPayload
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleRemoveCandidate: bad payload from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := state.App.RemoveCandidate(state.Match, msg.GetUserId(), toDomainPoint(req))
	if err != nil {
		mh.sendRejection(state, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleNewGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Match == nil || state.seatOf(msg.GetUserId()) < 0 {
		return
	}
	if state.Match.Game.Status == domain.StatusPlaying {
		mh.sendRejection(state, dispatcher, logger, msg.GetUserId(), "Match is still in progress.")
		return
	}

	logger.Info("handleNewGame: Rematch requested by %s.", msg.GetUserId())
	events := state.App.Restart(state.Match)
	mh.dispatchEvents(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

// sendRejection delivers a private rejection message to one user.
func (mh *matchHandler) sendRejection(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	data, _ := json.Marshal(moveRejectedMsg{Message: message})
	if err := dispatcher.BroadcastMessage(OpMoveRejected, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendRejection: broadcast failed: %v", err)
	}
}

// dispatchEvents serializes app events and broadcasts each to its
// recipients (all presences when the recipient list is empty).
func (mh *matchHandler) dispatchEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, data, err := eventMessage(ev)
		if err != nil {
			logger.Error("dispatchEvents: %v", err)
			continue
		}

		var targets []runtime.Presence
		for _, userID := range ev.Recipients {
			if presence, ok := state.Presences[userID]; ok {
				targets = append(targets, presence)
			}
		}
		if len(ev.Recipients) > 0 && len(targets) == 0 {
			continue
		}

		if err := dispatcher.BroadcastMessage(opCode, data, targets, nil, true); err != nil {
			logger.Error("dispatchEvents: broadcast failed for %s: %v", ev.Kind, err)
		}
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(state.label())
	if err != nil {
		logger.Error("updateLabel: marshal failed: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: update failed: %v", err)
	}
}

// MatchTerminate is called when the match is shut down.
func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d seconds grace.", graceSeconds)
	return state
}

// MatchSignal is unused; it satisfies the runtime.Match interface.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
