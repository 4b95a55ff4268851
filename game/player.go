package game

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// player is the connection actor: one read pump and one write pump around a
// NetworkSession. It carries no game identity of its own; the room binds it
// to a PlayerState at join time.
type player struct {
	id          string
	rateLimiter *rate.Limiter
	socket      NetworkSession
	outbox      chan []byte
	pingChan    chan struct{}
	room        Room

	releaseOnce sync.Once
}

func NewPlayer(socket NetworkSession) *player {
	return &player{
		id:          uuid.NewString(),
		rateLimiter: rate.NewLimiter(8, 16),
		socket:      socket,
		outbox:      make(chan []byte, 256),
		pingChan:    make(chan struct{}, 1),
	}
}

func (p *player) SetRoom(r Room) {
	p.room = r
}

func (p *player) Send(data []byte) error {
	select {
	case p.outbox <- data:
		return nil
	default:
		return ErrSlowConsumer
	}
}

func (p *player) Ping() error {
	select {
	case p.pingChan <- struct{}{}:
	default:
	}
	return nil
}

// CancelAndRelease stops the write pump. Only the room goroutine (or the
// handler, before the player is seated) may call it, so closing the outbox
// cannot race a Send.
func (p *player) CancelAndRelease() {
	p.releaseOnce.Do(func() {
		close(p.outbox)
		close(p.pingChan)
	})
}
