package game

import "encoding/json"

// Wire protocol: every frame is a JSON envelope {event, payload}. Inbound
// payloads stay raw until the owning handler decodes them.

type clientPacket struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type clientEnvelope struct {
	packet clientPacket
	from   Player
}

// Inbound payloads.

type CreateRoomRequest struct {
	RoomCode   string `json:"roomCode"`
	MaxPlayers int    `json:"maxPlayers"`
	Rounds     int    `json:"rounds"`
	TimeLimit  int    `json:"timeLimit"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
}

type JoinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

type DrawingSubmission struct {
	RoomCode     string  `json:"roomCode"`
	Word         string  `json:"word"`
	Image        string  `json:"image"`
	Confidence   float64 `json:"confidence"`
	ClosestMatch string  `json:"closestMatch"`
}

type ChatRequest struct {
	RoomCode string `json:"roomCode"`
	Message  string `json:"chatMsg"`
}

// Outbound payloads.

type RoomSummary struct {
	RoomCode          string `json:"roomCode"`
	Rounds            int    `json:"rounds"`
	CurrentRound      int    `json:"currentRound"`
	TimeLimit         int    `json:"timeLimit"`
	PreRoundCountdown int    `json:"preRoundCountdown"`
}

type PlayerInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar"`
	IsOwner      bool   `json:"isOwner"`
	Color        string `json:"color"`
	Score        int    `json:"score"`
	IsReady      bool   `json:"isReady"`
	HasSubmitted bool   `json:"hasSubmitted"`
}

type Rejection struct {
	Head string `json:"head"`
	Body string `json:"body"`
}

type ChatMessage struct {
	SenderID string `json:"senderId"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Message  string `json:"chatMsg"`
	Color    string `json:"color"`
}

type RoundStart struct {
	Word    string       `json:"word"`
	Players []PlayerInfo `json:"players"`
}

type ResultEntry struct {
	PlayerID   string  `json:"playerId"`
	Name       string  `json:"name"`
	Word       string  `json:"word"`
	Match      string  `json:"closestMatch"`
	Confidence float64 `json:"confidence"`
	Rank       int     `json:"rank"`
	Points     int     `json:"points"`
	Score      int     `json:"score"`
}

type serverPacket struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

func marshalPacket(event string, payload any) []byte {
	// Payloads are our own structs, marshalling cannot fail.
	data, _ := json.Marshal(serverPacket{Event: event, Payload: payload})
	return data
}

func MakePacketRoomCreated(sum RoomSummary) []byte {
	return marshalPacket("room-created", sum)
}

func MakePacketRoomFound(sum RoomSummary) []byte {
	return marshalPacket("room-found", sum)
}

func MakePacketRejection(event, head, body string) []byte {
	return marshalPacket(event, Rejection{Head: head, Body: body})
}

func MakePacketRoomUpdate(sum RoomSummary) []byte {
	return marshalPacket("room-update", sum)
}

func MakePacketPlayerList(players []PlayerInfo) []byte {
	return marshalPacket("player-list-update", players)
}

func MakePacketRoundTimer(seconds int) []byte {
	return marshalPacket("round-timer-update", seconds)
}

func MakePacketGameTimer(seconds int) []byte {
	return marshalPacket("game-timer-update", seconds)
}

func MakePacketStartRound(word string, players []PlayerInfo) []byte {
	return marshalPacket("start-round", RoundStart{Word: word, Players: players})
}

func MakePacketEndRound() []byte {
	return marshalPacket("end-round", nil)
}

func MakePacketShowResults(results []ResultEntry) []byte {
	return marshalPacket("show-results", results)
}

func MakePacketFinishGame() []byte {
	return marshalPacket("finish-game", nil)
}

func MakePacketChat(msg ChatMessage) []byte {
	return marshalPacket("chat-to-client", msg)
}

// MakePacketSystemChat is the synthetic sender used for join/leave notices.
func MakePacketSystemChat(text string) []byte {
	return marshalPacket("chat-to-client", ChatMessage{
		SenderID: "system",
		Name:     "System",
		Message:  text,
	})
}
