package game

import (
	"context"
	"time"
)

// NetworkSession is the transport seam: the game core never touches the
// websocket directly.
type NetworkSession interface {
	Close(reason string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// Player is a connected client as the room sees it. The room owns all
// game-scoped player state; this interface only carries identity and the
// outbound channel.
type Player interface {
	ID() string
	Name() string
	Avatar() string
	Send(data []byte) error
	Ping() error
	SetRoom(r Room)
	CancelAndRelease()
}

// Room is one game session actor. All methods are safe to call from any
// goroutine; mutation happens inside the room's GameLoop.
type Room interface {
	Code() string
	RequestJoin(jreq roomJoinRequest)
	Forward(env clientEnvelope)
	RemoveMe(p Player)
	Tick(now time.Time)
	PingPlayers()
	GameLoop()
	CloseAndRelease()
}

// Lobby is what a room needs from its registry.
type Lobby interface {
	RemoveRoom(code string)
}

// LobbyService is the handler-facing side of the lobby.
type LobbyService interface {
	CreateRoom(ctx context.Context, code string, owner Player, cfg RoomConfig) error
	JoinRoom(ctx context.Context, code string, player Player) error
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}
