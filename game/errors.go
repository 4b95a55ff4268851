package game

import "errors"

var (
	ErrGameInProgress = errors.New("game already in progress")
	ErrRoomClosed     = errors.New("room closed")
	ErrSlowConsumer   = errors.New("outbound queue full")
)
