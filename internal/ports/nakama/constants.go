package nakama

const (
	// RpcFindMatchID is the Nakama RPC id clients call to find or create
	// an open renju match.
	RpcFindMatchID = "find_match"

	// MatchNameRenju is the authoritative match handler name registered
	// with Nakama.
	MatchNameRenju = "renju_match"

	// MatchLabelKeyOpenSeats is the label key advertising free seats.
	MatchLabelKeyOpenSeats = "open"
)

// Op codes for client messages and server events. Payloads are JSON.
const (
	// Client -> Server
	OpPlaceMove       int64 = 1
	OpDecideSwap      int64 = 2
	OpRemoveCandidate int64 = 3
	OpRequestNewGame  int64 = 4

	// Server -> Client events
	OpPlayerJoined     int64 = 101
	OpPlayerLeft       int64 = 102
	OpMatchStarted     int64 = 103
	OpMovePlaced       int64 = 104
	OpMoveRejected     int64 = 105 // sent privately
	OpSwapOffered      int64 = 106
	OpSwapDecided      int64 = 107
	OpCandidatePlaced  int64 = 108
	OpRemovalRequired  int64 = 109
	OpCandidateRemoved int64 = 110
	OpForbiddenMove    int64 = 111
	OpMatchEnded       int64 = 112
)
