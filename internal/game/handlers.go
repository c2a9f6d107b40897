package game

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Aryan-9272/doodle-it-server/internal/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type GameHandler struct {
	lobby LobbyService
	cfg   config.Config
	words []string
	log   zerolog.Logger
}

func NewGameHandler(lobby LobbyService, cfg config.Config, words []string, logger zerolog.Logger) *GameHandler {
	return &GameHandler{
		lobby: lobby,
		cfg:   cfg,
		words: words,
		log:   logger.With().Str("component", "handler").Logger(),
	}
}

func (h *GameHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/ws", h.ConnectHandler)
}

func (h *GameHandler) ConnectHandler(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	go h.runSession(NewWebsocketConnection(conn))
}

// runSession reads the opening frame, which must be create-room or
// join-room, seats the player, and hands the socket over to the pumps.
func (h *GameHandler) runSession(session NetworkSession) {
	data, err := session.Read()
	if err != nil {
		session.Close("")
		return
	}

	var cp clientPacket
	if err := json.Unmarshal(data, &cp); err != nil {
		h.rejectAndClose(session, "bad-request", "Bad request", "The opening message could not be read.")
		return
	}

	switch cp.Event {
	case "create-room":
		h.handleCreateRoom(session, cp.Payload)
	case "join-room":
		h.handleJoinRoom(session, cp.Payload)
	default:
		h.rejectAndClose(session, "bad-request", "Bad request", "Expected create-room or join-room.")
	}
}

func (h *GameHandler) handleCreateRoom(session NetworkSession, payload json.RawMessage) {
	var req CreateRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		h.rejectAndClose(session, "bad-request", "Bad request", "The create-room payload could not be read.")
		return
	}
	if msg := validateCreateRoom(req); msg != "" {
		h.rejectAndClose(session, "bad-request", "Bad request", msg)
		return
	}

	player := NewPlayer(req.Name, req.Avatar, session)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.lobby.CreateRoom(ctx, req.RoomCode, player, h.roomConfig(req))
	if err != nil {
		h.log.Info().Str("room", req.RoomCode).Err(err).Msg("create-room rejected")
		h.rejectAndClose(session, "duplicate-room", "Room code taken",
			fmt.Sprintf("A room with code %s already exists.", req.RoomCode))
		return
	}

	go player.ReadPump()
	go player.WritePump()
}

func (h *GameHandler) handleJoinRoom(session NetworkSession, payload json.RawMessage) {
	var req JoinRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		h.rejectAndClose(session, "bad-request", "Bad request", "The join-room payload could not be read.")
		return
	}
	if msg := validateJoinRoom(req); msg != "" {
		h.rejectAndClose(session, "bad-request", "Bad request", msg)
		return
	}

	player := NewPlayer(req.Name, req.Avatar, session)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch err := h.lobby.JoinRoom(ctx, req.RoomCode, player); err {
	case nil:
		go player.ReadPump()
		go player.WritePump()
	case ErrRoomNotFound:
		h.rejectAndClose(session, "room-not-found", "Room not found",
			fmt.Sprintf("No room with code %s exists.", req.RoomCode))
	case ErrRoundActive:
		h.rejectAndClose(session, "round-active", "Round in progress",
			"You cannot join while a round is being played.")
	case ErrRoomFull:
		h.rejectAndClose(session, "room-full", "Room full",
			"This room has no free spots left.")
	default:
		h.log.Error().Str("room", req.RoomCode).Err(err).Msg("join-room failed")
		h.rejectAndClose(session, "room-not-found", "Room not found",
			fmt.Sprintf("No room with code %s exists.", req.RoomCode))
	}
}

func (h *GameHandler) rejectAndClose(session NetworkSession, event, head, body string) {
	_ = session.Write(MakePacketRejection(event, head, body))
	session.Close(event)
}

func (h *GameHandler) roomConfig(req CreateRoomRequest) RoomConfig {
	return RoomConfig{
		MaxPlayers:        req.MaxPlayers,
		Rounds:            req.Rounds,
		TimeLimit:         req.TimeLimit,
		LobbyCountdown:    h.cfg.LobbyCountdown,
		PreRoundCountdown: h.cfg.PreRoundCountdown,
		FinalCountdown:    h.cfg.FinalCountdown,
		GraceInterval:     h.cfg.GraceInterval,
		RemoveIdlePlayers: h.cfg.RemoveIdlePlayers,
		RankWeight:        h.cfg.RankWeight,
		ConfidenceWeight:  h.cfg.ConfidenceWeight,
		Words:             h.words,
		Colors:            DefaultColors,
	}
}

func validateCreateRoom(req CreateRoomRequest) string {
	if len(req.RoomCode) < 4 {
		return "roomCode must be at least 4 characters"
	}
	if len(req.RoomCode) > 16 {
		return "roomCode cannot exceed 16 characters"
	}
	if req.MaxPlayers < 2 {
		return "maxPlayers must be at least 2"
	}
	if req.MaxPlayers > len(DefaultColors) {
		return fmt.Sprintf("maxPlayers cannot exceed %d", len(DefaultColors))
	}
	if req.Rounds < 1 {
		return "rounds must be at least 1"
	}
	if req.Rounds > 10 {
		return "rounds cannot exceed 10"
	}
	if req.TimeLimit < 30 {
		return "timeLimit must be at least 30 seconds"
	}
	if req.TimeLimit > 300 {
		return "timeLimit cannot exceed 300 seconds"
	}
	return validateIdentity(req.Name)
}

func validateJoinRoom(req JoinRoomRequest) string {
	if len(req.RoomCode) < 4 {
		return "roomCode must be at least 4 characters"
	}
	if len(req.RoomCode) > 16 {
		return "roomCode cannot exceed 16 characters"
	}
	return validateIdentity(req.Name)
}

func validateIdentity(name string) string {
	if name == "" {
		return "name is required"
	}
	if len(name) > 24 {
		return "name cannot exceed 24 characters"
	}
	return ""
}
