package game

import "errors"

var (
	ErrRoomNotFound      = errors.New("room-not-found")
	ErrRoomFull          = errors.New("room-full")
	ErrRoundActive       = errors.New("round-active")
	ErrDuplicateRoomCode = errors.New("duplicate-room-code")
	ErrPoolExhausted     = errors.New("pool-exhausted")
)

var (
	ErrSendBufferFull   = errors.New("send-buffer-full")
	ErrConnectionClosed = errors.New("connection-closed")
)
