package game

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type websocketConnection struct {
	socket *websocket.Conn
}

func (wc *websocketConnection) Write(data []byte) error {
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConnection) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *websocketConnection) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *websocketConnection) Close(errCode string) {
	wc.socket.SetWriteDeadline(time.Now().Add(time.Second * 20))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, errCode))
	wc.socket.Close()
}

func NewWebsocketConnection(conn *websocket.Conn) websocketConnection {
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(time.Minute))
		return nil
	})
	return websocketConnection{conn}
}

type GameHandler struct {
	lobby Lobby
}

func NewGameHandler(l Lobby) *GameHandler {
	return &GameHandler{lobby: l}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin filtering happens in the router middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

// JoinGameHandler upgrades the connection and seats it in a room. The first
// frame on the socket must be JOIN{roomId,name,avatar}; the room is created
// if the id is unknown.
func (h *GameHandler) JoinGameHandler(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("ws upgrade failed")
		return
	}
	socket := NewWebsocketConnection(conn)

	first, err := socket.Read()
	if err != nil {
		socket.Close("read-failed")
		return
	}

	cmd, err := DecodeCommand(first)
	if err != nil {
		h.rejectSocket(&socket, "expected JOIN")
		return
	}
	join, ok := cmd.(JoinCommand)
	if !ok {
		h.rejectSocket(&socket, "expected JOIN")
		return
	}

	p := NewPlayer(&socket)
	jreq := NewRoomJoinRequest(join.RoomID, p, join.Name, join.Avatar)
	h.lobby.ForwardPlayerJoinRequestToRoom(ctx.Request.Context(), jreq)

	if err := <-jreq.errChan; err != nil {
		h.rejectSocket(&socket, err.Error())
		return
	}

	go p.WritePump()
	p.ReadPump()
}

func (h *GameHandler) rejectSocket(socket NetworkSession, message string) {
	if data, err := json.Marshal(newErrorEvent(message)); err == nil {
		socket.Write(data)
	}
	socket.Close(message)
}
