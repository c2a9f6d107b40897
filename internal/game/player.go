package game

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const outboxSize = 256

// player binds one websocket connection to its room. ReadPump and WritePump
// each run on their own goroutine; everything else is called from the room
// actor or the connect handler.
type player struct {
	id     string
	name   string
	avatar string

	session NetworkSession
	limiter *rate.Limiter

	outbox   chan []byte
	pingChan chan struct{}

	mu   sync.Mutex
	room Room

	done      chan struct{}
	closeOnce sync.Once
}

func NewPlayer(name, avatar string, session NetworkSession) *player {
	return &player{
		id:       uuid.NewString(),
		name:     name,
		avatar:   avatar,
		session:  session,
		limiter:  rate.NewLimiter(8, 16),
		outbox:   make(chan []byte, outboxSize),
		pingChan: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (p *player) ID() string     { return p.id }
func (p *player) Name() string   { return p.name }
func (p *player) Avatar() string { return p.avatar }

func (p *player) SetRoom(r Room) {
	p.mu.Lock()
	p.room = r
	p.mu.Unlock()
}

func (p *player) Room() Room {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.room
}

// Send queues a frame for delivery. It never blocks: a slow consumer loses
// frames rather than stalling the room actor.
func (p *player) Send(data []byte) error {
	select {
	case <-p.done:
		return ErrConnectionClosed
	default:
	}
	select {
	case p.outbox <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (p *player) Ping() error {
	select {
	case <-p.done:
		return ErrConnectionClosed
	default:
	}
	select {
	case p.pingChan <- struct{}{}:
	default:
	}
	return nil
}

// CancelAndRelease tears the connection down. Safe to call more than once;
// the closed session unblocks ReadPump, which then runs the disconnect path.
func (p *player) CancelAndRelease() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.session.Close("closed")
	})
}

func (p *player) ReadPump() {
	for {
		data, err := p.session.Read()
		if err != nil {
			break
		}
		if !p.limiter.Allow() {
			continue
		}

		var cp clientPacket
		if err := json.Unmarshal(data, &cp); err != nil {
			_ = p.Send(MakePacketRejection("bad-request", "Bad request", "That message could not be read."))
			continue
		}
		if r := p.Room(); r != nil {
			r.Forward(clientEnvelope{packet: cp, from: p})
		}
	}

	if r := p.Room(); r != nil {
		r.RemoveMe(p)
	}
	p.CancelAndRelease()
}

func (p *player) WritePump() {
	for {
		select {
		case <-p.done:
			return
		case data := <-p.outbox:
			if err := p.session.Write(data); err != nil {
				p.CancelAndRelease()
				return
			}
		case <-p.pingChan:
			if err := p.session.Ping(); err != nil {
				p.CancelAndRelease()
				return
			}
		}
	}
}
