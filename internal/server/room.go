package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"renju/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Room represents a game session with up to two players and spectators.
// Seats are assigned in join order; later connections spectate.
type Room struct {
	id    string
	game  *domain.Game
	conns map[*Client]struct{}
	mu    sync.Mutex
}

type Client struct {
	conn   *websocket.Conn
	room   *Room
	seat   domain.Player // empty for spectators
	sendCh chan any
}

type RoomManager struct {
	rooms      map[string]*Room
	boardSize  int
	ruleset    domain.RuleSet
	historyDir string
	mu         sync.Mutex
}

func NewRoomManager(boardSize int, ruleset domain.RuleSet, historyDir string) *RoomManager {
	return &RoomManager{
		rooms:      make(map[string]*Room),
		boardSize:  boardSize,
		ruleset:    ruleset,
		historyDir: historyDir,
	}
}

func (rm *RoomManager) CreateRoom(id string) *Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if r, ok := rm.rooms[id]; ok {
		return r
	}
	r := &Room{
		id:    id,
		game:  domain.NewGame(rm.boardSize, rm.ruleset, rm.historyDir),
		conns: make(map[*Client]struct{}),
	}
	rm.rooms[id] = r
	return r
}

func (rm *RoomManager) getRoom(id string) (*Room, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r, ok := rm.rooms[id]
	return r, ok
}

func (rm *RoomManager) ServeWS(roomID string, w http.ResponseWriter, r *http.Request) {
	room, ok := rm.getRoom(roomID)
	if !ok {
		room = rm.CreateRoom(roomID)
	}
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	cl := &Client{conn: c, room: room, sendCh: make(chan any, 16)}

	room.mu.Lock()
	room.conns[cl] = struct{}{}
	// Assign a seat if one is free
	seatsInUse := map[domain.Player]bool{}
	for cli := range room.conns {
		if cli.seat != "" {
			seatsInUse[cli.seat] = true
		}
	}
	if !seatsInUse[domain.PlayerOne] {
		cl.seat = domain.PlayerOne
	} else if !seatsInUse[domain.PlayerTwo] {
		cl.seat = domain.PlayerTwo
	} // else spectator
	snap := gameSnapshot(room, "")
	room.mu.Unlock()

	cl.send(map[string]any{"type": "welcome", "seat": string(cl.seat)})
	cl.send(snap)
	broadcast(room, snap)

	go cl.writer()
	cl.reader()
}

func (c *Client) send(v any) {
	select {
	case c.sendCh <- v:
	default:
		// drop if buffer full to avoid blocking; connection likely unhealthy
	}
}

func (c *Client) writer() {
	ping := time.NewTicker(20 * time.Second)
	defer ping.Stop()
	for {
		select {
		case v, ok := <-c.sendCh:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(v); err != nil {
				log.Println("write:", err)
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(10*time.Second)); err != nil {
				log.Println("ping:", err)
				return
			}
		}
	}
}

func (c *Client) reader() {
	defer func() {
		c.conn.Close()
		c.room.mu.Lock()
		delete(c.room.conns, c)
		players := playersList(c.room)
		c.room.mu.Unlock()
		broadcast(c.room, map[string]any{"type": "players", "players": players})
	}()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg map[string]any
		if err := c.conn.ReadJSON(&msg); err != nil {
			log.Println("read:", err)
			return
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg map[string]any) {
	t, _ := msg["type"].(string)
	switch t {
	case "move":
		// {type:"move", row:int, col:int} with 1-based coordinates
		p, ok := pointFrom(msg)
		if !ok {
			c.send(map[string]any{"type": "error", "error": "missing coordinates"})
			return
		}
		c.room.mu.Lock()
		if !c.myTurn() {
			c.room.mu.Unlock()
			c.send(map[string]any{"type": "error", "error": "not your turn"})
			return
		}
		result := c.room.game.PlaceMove(p)
		snap := gameSnapshot(c.room, result.Message)
		c.room.mu.Unlock()
		if !result.Success {
			c.send(map[string]any{"type": "error", "error": result.Message})
			if result.Forbidden == nil {
				return
			}
			// forbidden moves end the game, so everyone learns of it
		}
		broadcast(c.room, snap)
	case "swap":
		// {type:"swap", swap:bool}
		swap, _ := msg["swap"].(bool)
		c.room.mu.Lock()
		if !c.room.game.SwapPending() || !c.myTurn() {
			c.room.mu.Unlock()
			c.send(map[string]any{"type": "error", "error": "Swap decision is not available."})
			return
		}
		message := c.room.game.DecideSwap(swap)
		snap := gameSnapshot(c.room, message)
		c.room.mu.Unlock()
		broadcast(c.room, snap)
	case "remove":
		// {type:"remove", row:int, col:int}
		p, ok := pointFrom(msg)
		if !ok {
			c.send(map[string]any{"type": "error", "error": "missing coordinates"})
			return
		}
		c.room.mu.Lock()
		if !c.myTurn() {
			c.room.mu.Unlock()
			c.send(map[string]any{"type": "error", "error": "not your turn"})
			return
		}
		result := c.room.game.RemoveCandidate(p)
		snap := gameSnapshot(c.room, result.Message)
		c.room.mu.Unlock()
		if !result.Success {
			c.send(map[string]any{"type": "error", "error": result.Message})
			return
		}
		broadcast(c.room, snap)
	case "reset":
		c.room.mu.Lock()
		if c.room.game.Status == domain.StatusPlaying {
			c.room.mu.Unlock()
			c.send(map[string]any{"type": "error", "error": "game still in progress"})
			return
		}
		c.room.game.Reset()
		snap := gameSnapshot(c.room, "New game started.")
		c.room.mu.Unlock()
		broadcast(c.room, snap)
	case "sync":
		c.room.mu.Lock()
		snap := gameSnapshot(c.room, "")
		c.room.mu.Unlock()
		c.send(snap)
	default:
		c.send(map[string]any{"type": "error", "error": "unknown message type"})
	}
}

// myTurn reports whether this client holds the seat to act. Callers
// hold the room lock.
func (c *Client) myTurn() bool {
	return c.seat != "" && c.seat == c.room.game.CurrentPlayer
}

func pointFrom(msg map[string]any) (domain.Point, bool) {
	row, ok1 := toInt(msg["row"])
	col, ok2 := toInt(msg["col"])
	if !ok1 || !ok2 {
		return domain.Point{}, false
	}
	return domain.Point{Row: row - 1, Col: col - 1}, true
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	default:
		return 0, false
	}
}

func broadcast(r *Room, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.conns {
		c.send(v)
	}
}

func playersList(r *Room) []map[string]any {
	players := []map[string]any{}
	for c := range r.conns {
		if c.seat != "" {
			players = append(players, map[string]any{
				"seat":  string(c.seat),
				"color": string(r.game.ColorOf(c.seat)),
			})
		}
	}
	return players
}

// gameSnapshot builds the broadcast state message. Callers hold the
// room lock.
func gameSnapshot(r *Room, message string) map[string]any {
	g := r.game
	rows := make([]string, g.Board.Size)
	for i, row := range g.Board.Grid {
		line := ""
		for _, cell := range row {
			line += string(cell)
		}
		rows[i] = line
	}

	candidates := make([]map[string]int, 0, len(g.CandidatePoints))
	for _, p := range g.CandidatePoints {
		candidates = append(candidates, map[string]int{"row": p.Row + 1, "col": p.Col + 1})
	}
	winning := make([]map[string]int, 0, len(g.WinningPoints))
	for _, p := range g.WinningPoints {
		winning = append(winning, map[string]int{"row": p.Row + 1, "col": p.Col + 1})
	}

	snap := map[string]any{
		"type":          "state",
		"room":          r.id,
		"ruleset":       string(g.Ruleset),
		"size":          g.Board.Size,
		"board":         rows,
		"status":        string(g.Status),
		"phase":         string(g.Phase),
		"current":       string(g.CurrentPlayer),
		"current_color": string(g.CurrentCell()),
		"candidates":    candidates,
		"winning":       winning,
		"players":       playersList(r),
	}
	if message != "" {
		snap["message"] = message
	}
	return snap
}
