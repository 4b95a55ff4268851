package game

import (
	"context"
	"time"
)

func (r *room) ID() string {
	return r.id
}

func (r *room) SetParentLobby(l Lobby) {
	r.parentLobby = l
}

func (r *room) RequestJoin(jreq roomJoinRequest) {
	select {
	case r.joinRequests <- jreq:
	case <-r.done:
		jreq.errChan <- ErrRoomClosed
		close(jreq.errChan)
	}
}

func (r *room) Send(ctx context.Context, e CommandEnvelope) {
	select {
	case r.inbox <- e:
	case <-ctx.Done():
	}
}

func (r *room) RemoveMe(ctx context.Context, p Player) {
	select {
	case r.playerRemovalRequests <- p:
	case <-ctx.Done():
	}
}

func (r *room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *room) PingPlayers() {
	select {
	case r.pingPlayers <- struct{}{}:
	default:
	}
}

func (r *room) CloseAndRelease() {
	close(r.done)
}

// GameLoop owns all room state. Commands, joins, disconnects and timer ticks
// are serialized here, which is what keeps the per-room invariants safe.
func (r *room) GameLoop() {
	for {
		select {
		case <-r.done:
			r.drainAndShutdown()
			return
		case e := <-r.inbox:
			r.handleEnvelope(e)
		case jreq := <-r.joinRequests:
			r.handleJoinRequest(jreq)
		case p := <-r.playerRemovalRequests:
			r.handleRemovePlayer(p)
		case now := <-r.ticks:
			r.handleTick(now)
		case <-r.pingPlayers:
			r.handlePingPlayers()
		}
		r.flushSendTasks()
	}
}

func (r *room) drainAndShutdown() {
	for {
		select {
		case jreq := <-r.joinRequests:
			jreq.errChan <- ErrRoomClosed
			close(jreq.errChan)
		default:
			for conn := range r.conns {
				conn.CancelAndRelease()
			}
			return
		}
	}
}
