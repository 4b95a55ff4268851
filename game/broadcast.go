package game

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Send work is queued while a handler runs and flushed by the room loop after
// each event. Keeping the queue on the room makes broadcasting assertable in
// tests without sockets.
type dataSendTask struct {
	to   Player
	data []byte
}

type pingSendTask struct {
	to Player
}

func (r *room) snapshot(yourPlayerID string) []byte {
	ev := updateStateEvent{
		Type:         "UPDATE_STATE",
		State:        r.state,
		YourPlayerID: yourPlayerID,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("room", r.id).Msg("state snapshot marshal failed")
		return nil
	}
	return data
}

// queueBroadcast replicates the full room state to every seated connection.
func (r *room) queueBroadcast() {
	data := r.snapshot("")
	if data == nil {
		return
	}
	for conn := range r.conns {
		r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: conn, data: data})
	}
}

// queueStateFor sends one connection a snapshot that carries its own player
// id, the private join acknowledgment.
func (r *room) queueStateFor(conn Player, yourPlayerID string) {
	data := r.snapshot(yourPlayerID)
	if data == nil {
		return
	}
	r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: conn, data: data})
}

func (r *room) handlePingPlayers() {
	for conn := range r.conns {
		r.pingSendTasks = append(r.pingSendTasks, pingSendTask{to: conn})
	}
}

func (r *room) flushSendTasks() {
	for _, task := range r.dataSendTasks {
		// delivery is fire and forget; a dead socket surfaces on its read pump
		if err := task.to.Send(task.data); err != nil {
			log.Debug().Err(err).Str("room", r.id).Msg("dropping outbound state update")
		}
	}
	r.dataSendTasks = r.dataSendTasks[:0]

	for _, task := range r.pingSendTasks {
		if err := task.to.Ping(); err != nil {
			log.Debug().Err(err).Str("room", r.id).Msg("ping failed")
		}
	}
	r.pingSendTasks = r.pingSendTasks[:0]
}
