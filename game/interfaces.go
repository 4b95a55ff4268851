package game

import (
	"context"
	"time"
)

// NetworkSession is the transport seam around a websocket connection.
type NetworkSession interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// Player is a connected client as the room sees it: an outbound pipe plus
// lifecycle control. Game-facing identity lives in PlayerState, not here.
type Player interface {
	Send(data []byte) error
	Ping() error
	SetRoom(r Room)
	CancelAndRelease()
}

type Room interface {
	ID() string
	SetParentLobby(l Lobby)
	RequestJoin(jreq roomJoinRequest)
	Send(ctx context.Context, e CommandEnvelope)
	RemoveMe(ctx context.Context, p Player)
	Tick(now time.Time)
	PingPlayers()
	GameLoop()
	CloseAndRelease()
}

type Lobby interface {
	ForwardPlayerJoinRequestToRoom(ctx context.Context, jreq roomJoinRequest)
	RemoveRoom(roomID string)
}

// WordPicker resolves a category to one secret word. A miss reports false and
// leaves word selection undone.
type WordPicker interface {
	Pick(category string) (string, bool)
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}
