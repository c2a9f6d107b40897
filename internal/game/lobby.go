package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type createRoomRequest struct {
	code    string
	owner   Player
	cfg     RoomConfig
	errChan chan error
}

type lobbyJoinRequest struct {
	roomCode string
	player   Player
	errChan  chan error
}

type findRoomRequest struct {
	code     string
	respChan chan bool
}

// lobby is the room registry. One actor goroutine owns the rooms map; rooms
// are created, found, ticked and destroyed only from that goroutine, so two
// rooms never share anything but this map.
type lobby struct {
	rooms map[string]Room

	createReqs     chan createRoomRequest
	joinReqs       chan lobbyJoinRequest
	findReqs       chan findRoomRequest
	removeRoomChan chan string

	tickerCreator PeriodicTickerChannelCreator
	pingInterval  time.Duration
	newRoom       func(code string, owner Player, cfg RoomConfig, parent Lobby, logger zerolog.Logger) Room
	log           zerolog.Logger
}

func NewLobby(tickerCreator PeriodicTickerChannelCreator, pingInterval time.Duration, logger zerolog.Logger) *lobby {
	return &lobby{
		rooms:          make(map[string]Room),
		createReqs:     make(chan createRoomRequest, 32),
		joinReqs:       make(chan lobbyJoinRequest, 32),
		findReqs:       make(chan findRoomRequest, 32),
		removeRoomChan: make(chan string, 32),
		tickerCreator:  tickerCreator,
		pingInterval:   pingInterval,
		newRoom: func(code string, owner Player, cfg RoomConfig, parent Lobby, logger zerolog.Logger) Room {
			return NewRoom(code, owner, cfg, parent, logger)
		},
		log: logger.With().Str("component", "lobby").Logger(),
	}
}

// CreateRoom registers a new room under code and seats owner in it. Fails
// with ErrDuplicateRoomCode when the code is already taken.
func (l *lobby) CreateRoom(ctx context.Context, code string, owner Player, cfg RoomConfig) error {
	errChan := make(chan error, 1)
	select {
	case l.createReqs <- createRoomRequest{code: code, owner: owner, cfg: cfg, errChan: errChan}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// JoinRoom forwards a join to the room actor owning code. The error comes
// back from the room itself: ErrRoomNotFound, ErrRoundActive or ErrRoomFull.
func (l *lobby) JoinRoom(ctx context.Context, code string, player Player) error {
	errChan := make(chan error, 1)
	select {
	case l.joinReqs <- lobbyJoinRequest{roomCode: code, player: player, errChan: errChan}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HasRoom reports whether a room with this code currently exists.
func (l *lobby) HasRoom(ctx context.Context, code string) bool {
	respChan := make(chan bool, 1)
	select {
	case l.findReqs <- findRoomRequest{code: code, respChan: respChan}:
	case <-ctx.Done():
		return false
	}
	select {
	case found := <-respChan:
		return found
	case <-ctx.Done():
		return false
	}
}

// RemoveRoom is called by a room when its last player leaves.
func (l *lobby) RemoveRoom(code string) {
	l.removeRoomChan <- code
}

func (l *lobby) LobbyActor(started chan struct{}) {
	ticker := l.tickerCreator.Create(time.Second)
	pingTicker := l.tickerCreator.Create(l.pingInterval)

	close(started)

	for {
		select {
		case now := <-ticker:
			for _, r := range l.rooms {
				r.Tick(now)
			}
		case <-pingTicker:
			for _, r := range l.rooms {
				r.PingPlayers()
			}
		case req := <-l.createReqs:
			l.handleCreate(req)
		case jreq := <-l.joinReqs:
			l.handleJoin(jreq)
		case freq := <-l.findReqs:
			freq.respChan <- l.rooms[freq.code] != nil
		case code := <-l.removeRoomChan:
			l.handleRemove(code)
		}
	}
}

func (l *lobby) handleCreate(req createRoomRequest) {
	if _, exists := l.rooms[req.code]; exists {
		req.errChan <- ErrDuplicateRoomCode
		return
	}
	room := l.newRoom(req.code, req.owner, req.cfg, l, l.log)
	l.rooms[req.code] = room
	go room.GameLoop()
	req.errChan <- nil
	l.log.Info().Str("room", req.code).Msg("room created")
}

func (l *lobby) handleJoin(jreq lobbyJoinRequest) {
	room, ok := l.rooms[jreq.roomCode]
	if !ok {
		jreq.errChan <- ErrRoomNotFound
		return
	}
	room.RequestJoin(roomJoinRequest{player: jreq.player, errChan: jreq.errChan})
}

func (l *lobby) handleRemove(code string) {
	room, ok := l.rooms[code]
	if !ok {
		return
	}
	delete(l.rooms, code)
	room.CloseAndRelease()
	l.log.Info().Str("room", code).Msg("room destroyed")
}
