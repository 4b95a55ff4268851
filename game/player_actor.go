package game

import (
	"context"

	"github.com/rs/zerolog/log"
)

// ReadPump decodes inbound frames and forwards them to the room inbox. A read
// error means the connection is gone and triggers removal from the room.
func (p *player) ReadPump() {
	defer func() {
		if p.room != nil {
			p.room.RemoveMe(context.Background(), p)
		}
	}()

	for {
		data, err := p.socket.Read()
		if err != nil {
			return
		}
		if !p.rateLimiter.Allow() {
			continue
		}

		cmd, err := DecodeCommand(data)
		if err != nil {
			log.Debug().Err(err).Str("conn", p.id).Msg("dropping undecodable message")
			continue
		}
		if _, ok := cmd.(JoinCommand); ok {
			// this connection is already seated; a second JOIN is dropped
			continue
		}

		p.room.Send(context.Background(), NewCommandEnvelope(cmd, p))
	}
}

func (p *player) WritePump() {
loop:
	for {
		select {
		case data, ok := <-p.outbox:
			if !ok {
				break loop
			}
			if err := p.socket.Write(data); err != nil {
				break loop
			}
		case _, ok := <-p.pingChan:
			if !ok {
				break loop
			}
			if err := p.socket.Ping(); err != nil {
				break loop
			}
		}
	}
	p.socket.Close("")
}
