package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RpcFindMatch searches for an available renju match with an open seat.
// If an available match is found, it returns the Match ID.
// If no match is found, it creates a new match and returns its ID.
//
// Payload: (Optional) Unused for now.
// Returns: String containing the Match ID.
func RpcFindMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	// "+label.open:>=1" filters on the "open" key of the match label
	// JSON, keeping only matches with a free seat.
	limit := 1
	authoritative := true
	labelQuery := fmt.Sprintf("+label.%s:>=1", MatchLabelKeyOpenSeats)
	minSize := 0
	maxSize := 2

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, labelQuery)
	if err != nil {
		logger.Error("RpcFindMatch [User:%s]: Failed to list matches: %v", userId, err)
		return "", err
	}

	if len(matches) > 0 {
		matchId := matches[0].MatchId
		logger.Info("RpcFindMatch [User:%s]: Found existing match %s", userId, matchId)
		return matchId, nil
	}

	matchId, err := nk.MatchCreate(ctx, MatchNameRenju, nil)
	if err != nil {
		logger.Error("RpcFindMatch [User:%s]: Failed to create match: %v", userId, err)
		return "", err
	}

	logger.Info("RpcFindMatch [User:%s]: Created new match %s", userId, matchId)
	return matchId, nil
}
