package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// lobby owns the room table. Rooms are created lazily on the first JOIN that
// references an unknown id and removed the moment their last player leaves.
// The 1-second ticker fanned out here is what drives reveal transitions and
// turn auto-skips inside every room.
type lobby struct {
	rooms map[string]Room

	joinRoomReqs   chan roomJoinRequest
	removeRoomChan chan string

	tickerCreator PeriodicTickerChannelCreator
	newRoom       func(id string) Room
}

func NewLobby(tickerCreator PeriodicTickerChannelCreator, newRoom func(id string) Room) *lobby {
	return &lobby{
		rooms:          map[string]Room{},
		joinRoomReqs:   make(chan roomJoinRequest, 256),
		removeRoomChan: make(chan string, 32),
		tickerCreator:  tickerCreator,
		newRoom:        newRoom,
	}
}

func (l *lobby) ForwardPlayerJoinRequestToRoom(ctx context.Context, jreq roomJoinRequest) {
	select {
	case l.joinRoomReqs <- jreq:
	case <-ctx.Done():
	}
}

// RemoveRoom must not block: the lobby actor may at this moment be stuck
// forwarding a join into this very room. A dropped request leaves the empty
// room in the table until its id is joined again.
func (l *lobby) RemoveRoom(roomID string) {
	select {
	case l.removeRoomChan <- roomID:
	default:
		log.Warn().Str("room", roomID).Msg("removal queue full, dropping request")
	}
}

func (l *lobby) LobbyActor(started chan struct{}) {
	ticker := l.tickerCreator.Create(time.Second)
	pingTicker := l.tickerCreator.Create(time.Second * 30)

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
		case roomID := <-l.removeRoomChan:
			l.handleRemoveRoom(roomID)
		case jreq := <-l.joinRoomReqs:
			l.handleJoinReq(jreq)
		}
	}
}

func (l *lobby) handleJoinReq(jreq roomJoinRequest) {
	r, ok := l.rooms[jreq.roomID]
	if !ok {
		r = l.newRoom(jreq.roomID)
		r.SetParentLobby(l)
		l.rooms[jreq.roomID] = r
		go r.GameLoop()
		log.Info().Str("room", jreq.roomID).Msg("room created")
	}
	r.RequestJoin(jreq)
}

func (l *lobby) handleRemoveRoom(roomID string) {
	r, ok := l.rooms[roomID]
	if !ok {
		return
	}
	delete(l.rooms, roomID)
	r.CloseAndRelease()
	log.Info().Str("room", roomID).Msg("room removed")
}
