package game

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type RoomPhase int

const (
	// PhaseLobby covers both the waiting lobby and the pre-round countdown:
	// the countdown is armed for the whole time a room sits between rounds.
	PhaseLobby RoomPhase = iota
	PhaseDrawing
	PhaseResolving
	PhaseFinished
)

// RoomConfig is fixed at creation. Durations are whole seconds because the
// room advances on a shared one-second tick.
type RoomConfig struct {
	MaxPlayers int
	Rounds     int
	TimeLimit  int

	LobbyCountdown    int
	PreRoundCountdown int
	FinalCountdown    int
	GraceInterval     int

	RemoveIdlePlayers bool
	RankWeight        float64
	ConfidenceWeight  float64

	Words  []string
	Colors []string
}

// playerState is the room-owned, round-scoped view of a player. It lives and
// dies with the room.
type playerState struct {
	player       Player
	isOwner      bool
	color        string
	score        int
	isReady      bool
	hasSubmitted bool
}

type submission struct {
	playerID     string
	word         string
	image        string
	confidence   float64
	closestMatch string
}

type sendTask struct {
	to   Player
	data []byte
}

type roomJoinRequest struct {
	player  Player
	errChan chan error
}

// room is one game session. GameLoop is the single owner of all fields below
// the channel block; every mutation, client-driven or timer-driven, goes
// through it.
type room struct {
	code        string
	cfg         RoomConfig
	parentLobby Lobby
	log         zerolog.Logger

	phase          RoomPhase
	round          int
	roundActive    bool
	currentWord    string
	countdown      int
	drawTimeLeft   int
	graceLeft      int
	readyLatchUsed bool

	players     []*playerState
	submissions []*submission
	colors      *Pool
	words       *Pool

	sendTasks []sendTask
	pingTasks []Player

	inbox      chan clientEnvelope
	joinReqs   chan roomJoinRequest
	removeReqs chan Player
	ticks      chan time.Time
	pingSignal chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

func NewRoom(code string, owner Player, cfg RoomConfig, parent Lobby, logger zerolog.Logger) *room {
	r := &room{
		code:        code,
		cfg:         cfg,
		parentLobby: parent,
		log:         logger.With().Str("room", code).Logger(),
		phase:       PhaseLobby,
		round:       1,
		countdown:   cfg.LobbyCountdown,
		colors:      NewOrderedPool(cfg.Colors),
		words:       NewPool(cfg.Words),
		inbox:       make(chan clientEnvelope, 256),
		joinReqs:    make(chan roomJoinRequest, 16),
		removeReqs:  make(chan Player, 16),
		ticks:       make(chan time.Time, 1),
		pingSignal:  make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	// The creator always gets a color; the palette is never smaller than one.
	color, _ := r.colors.Checkout()
	r.players = append(r.players, &playerState{player: owner, isOwner: true, color: color})
	owner.SetRoom(r)

	r.unicast(owner, MakePacketRoomCreated(r.summary()))
	r.broadcast(MakePacketRoomUpdate(r.summary()))
	r.broadcast(MakePacketPlayerList(r.playerList()))
	return r
}

func (r *room) Code() string { return r.code }

func (r *room) RequestJoin(jreq roomJoinRequest) {
	select {
	case r.joinReqs <- jreq:
	case <-r.done:
		jreq.errChan <- ErrRoomNotFound
	}
}

func (r *room) Forward(env clientEnvelope) {
	select {
	case r.inbox <- env:
	case <-r.done:
	}
}

func (r *room) RemoveMe(p Player) {
	select {
	case r.removeReqs <- p:
	case <-r.done:
	}
}

// Tick never blocks: if the room is mid-event the tick is dropped rather
// than queued, so a stalled room cannot accumulate stale timer callbacks.
func (r *room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *room) PingPlayers() {
	select {
	case r.pingSignal <- struct{}{}:
	default:
	}
}

func (r *room) CloseAndRelease() {
	r.closeOnce.Do(func() { close(r.done) })
}

func (r *room) GameLoop() {
	r.flush()
	for {
		select {
		case <-r.done:
			for _, ps := range r.players {
				ps.player.CancelAndRelease()
			}
			r.players = nil
			return
		case jreq := <-r.joinReqs:
			r.dispatch(func() { r.handleJoinRequest(jreq) })
		case p := <-r.removeReqs:
			r.dispatch(func() { r.handleRemovePlayer(p) })
		case env := <-r.inbox:
			r.dispatch(func() { r.handleEnvelope(env) })
		case now := <-r.ticks:
			r.dispatch(func() { r.handleTick(now) })
		case <-r.pingSignal:
			r.dispatch(func() { r.handlePing() })
		}
		r.flush()
	}
}

// dispatch isolates one event: a fault is logged and the room keeps its
// last consistent state instead of taking the process down.
func (r *room) dispatch(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("room event handler fault")
		}
	}()
	fn()
}

func (r *room) flush() {
	for _, t := range r.sendTasks {
		if err := t.to.Send(t.data); err != nil {
			r.log.Debug().Str("player", t.to.ID()).Err(err).Msg("dropped outbound frame")
		}
	}
	r.sendTasks = r.sendTasks[:0]
	for _, p := range r.pingTasks {
		_ = p.Ping()
	}
	r.pingTasks = r.pingTasks[:0]
}

func (r *room) broadcast(data []byte) {
	for _, ps := range r.players {
		r.sendTasks = append(r.sendTasks, sendTask{to: ps.player, data: data})
	}
}

func (r *room) unicast(to Player, data []byte) {
	r.sendTasks = append(r.sendTasks, sendTask{to: to, data: data})
}

func (r *room) summary() RoomSummary {
	return RoomSummary{
		RoomCode:          r.code,
		Rounds:            r.cfg.Rounds,
		CurrentRound:      r.round,
		TimeLimit:         r.cfg.TimeLimit,
		PreRoundCountdown: r.countdown,
	}
}

func (r *room) playerList() []PlayerInfo {
	list := make([]PlayerInfo, 0, len(r.players))
	for _, ps := range r.players {
		list = append(list, PlayerInfo{
			ID:           ps.player.ID(),
			Name:         ps.player.Name(),
			Avatar:       ps.player.Avatar(),
			IsOwner:      ps.isOwner,
			Color:        ps.color,
			Score:        ps.score,
			IsReady:      ps.isReady,
			HasSubmitted: ps.hasSubmitted,
		})
	}
	return list
}

func (r *room) findState(playerID string) *playerState {
	for _, ps := range r.players {
		if ps.player.ID() == playerID {
			return ps
		}
	}
	return nil
}

// handleJoinRequest checks preconditions in order: round not active, then
// capacity, then an available color. A rejection answers only the requester
// and leaves the room untouched.
func (r *room) handleJoinRequest(jreq roomJoinRequest) {
	if r.roundActive {
		jreq.errChan <- ErrRoundActive
		return
	}
	if len(r.players) >= r.cfg.MaxPlayers {
		jreq.errChan <- ErrRoomFull
		return
	}
	color, err := r.colors.Checkout()
	if err != nil {
		jreq.errChan <- ErrRoomFull
		return
	}

	r.players = append(r.players, &playerState{player: jreq.player, color: color})
	jreq.player.SetRoom(r)
	jreq.errChan <- nil

	r.unicast(jreq.player, MakePacketRoomFound(r.summary()))
	r.broadcast(MakePacketRoomUpdate(r.summary()))
	r.broadcast(MakePacketPlayerList(r.playerList()))
	r.broadcast(MakePacketSystemChat(jreq.player.Name() + " joined the room"))
	r.log.Info().Str("player", jreq.player.ID()).Int("count", len(r.players)).Msg("player joined")
}

// handleRemovePlayer is the single leave/disconnect path. Idempotent: a
// player already gone is a no-op, which absorbs leave/disconnect races.
func (r *room) handleRemovePlayer(p Player) {
	idx := -1
	for i, ps := range r.players {
		if ps.player.ID() == p.ID() {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	ps := r.players[idx]
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	r.colors.Release(ps.color)
	r.dropSubmission(p.ID())
	r.log.Info().Str("player", p.ID()).Int("count", len(r.players)).Msg("player left")

	if len(r.players) == 0 {
		r.parentLobby.RemoveRoom(r.code)
		return
	}

	r.broadcast(MakePacketPlayerList(r.playerList()))
	r.broadcast(MakePacketSystemChat(p.Name() + " left the room"))
}

func (r *room) dropSubmission(playerID string) {
	for i, sub := range r.submissions {
		if sub.playerID == playerID {
			r.submissions = append(r.submissions[:i], r.submissions[i+1:]...)
			return
		}
	}
}

func (r *room) handleEnvelope(env clientEnvelope) {
	switch env.packet.Event {
	case "player-ready":
		r.handleReady(env.from)
	case "send-drawing":
		var sub DrawingSubmission
		if err := json.Unmarshal(env.packet.Payload, &sub); err != nil {
			r.unicast(env.from, MakePacketRejection("bad-request", "Bad request", "That drawing could not be read."))
			return
		}
		r.handleSubmission(env.from, sub)
	case "chat-to-server":
		var req ChatRequest
		if err := json.Unmarshal(env.packet.Payload, &req); err != nil {
			r.unicast(env.from, MakePacketRejection("bad-request", "Bad request", "That message could not be read."))
			return
		}
		r.handleChat(env.from, req)
	case "leave-room":
		r.handleRemovePlayer(env.from)
	default:
		r.unicast(env.from, MakePacketRejection("bad-request", "Bad request", "Unknown event "+env.packet.Event+"."))
	}
}

func (r *room) handleReady(from Player) {
	ps := r.findState(from.ID())
	if ps == nil || r.phase != PhaseLobby || ps.isReady {
		return
	}
	ps.isReady = true
	r.broadcast(MakePacketPlayerList(r.playerList()))
}

// handleSubmission records the first drawing a player sends in a round.
// Submissions are accepted during the drawing phase and the resolving grace
// window; anything else is a stale send and is ignored.
func (r *room) handleSubmission(from Player, sub DrawingSubmission) {
	ps := r.findState(from.ID())
	if ps == nil {
		return
	}
	if r.phase != PhaseDrawing && r.phase != PhaseResolving {
		return
	}
	if ps.hasSubmitted {
		return
	}

	ps.hasSubmitted = true
	r.submissions = append(r.submissions, &submission{
		playerID:     from.ID(),
		word:         sub.Word,
		image:        sub.Image,
		confidence:   sub.Confidence,
		closestMatch: sub.ClosestMatch,
	})
	r.broadcast(MakePacketPlayerList(r.playerList()))
}

func (r *room) handleChat(from Player, req ChatRequest) {
	ps := r.findState(from.ID())
	if ps == nil {
		return
	}
	r.broadcast(MakePacketChat(ChatMessage{
		SenderID: from.ID(),
		Name:     from.Name(),
		Avatar:   from.Avatar(),
		Message:  req.Message,
		Color:    ps.color,
	}))
}

func (r *room) handleTick(_ time.Time) {
	switch r.phase {
	case PhaseLobby:
		// One-shot latch: the first tick that sees every player ready cuts
		// the countdown to the short final value, at most once per round.
		if !r.readyLatchUsed && len(r.players) > 0 && r.allReady() {
			r.readyLatchUsed = true
			if r.countdown > r.cfg.FinalCountdown {
				r.countdown = r.cfg.FinalCountdown
			}
		}
		r.countdown--
		r.broadcast(MakePacketRoundTimer(r.countdown))
		if r.countdown <= 0 {
			r.startRound()
		}
	case PhaseDrawing:
		r.drawTimeLeft--
		r.broadcast(MakePacketGameTimer(r.drawTimeLeft))
		if r.drawTimeLeft <= 0 {
			r.broadcast(MakePacketEndRound())
			r.phase = PhaseResolving
			r.graceLeft = r.cfg.GraceInterval
		}
	case PhaseResolving:
		r.graceLeft--
		if r.graceLeft <= 0 {
			r.resolveRound()
		}
	case PhaseFinished:
	}
}

func (r *room) allReady() bool {
	for _, ps := range r.players {
		if !ps.isReady {
			return false
		}
	}
	return true
}

func (r *room) startRound() {
	word, err := r.words.Checkout()
	if err != nil {
		// Word pool ran dry before the configured round count; nothing left
		// to draw, so the game ends here.
		r.log.Warn().Int("round", r.round).Msg("word pool exhausted, finishing game early")
		r.finishGame()
		return
	}

	for _, ps := range r.players {
		ps.isReady = true
	}
	r.currentWord = word
	r.roundActive = true
	r.phase = PhaseDrawing
	r.drawTimeLeft = r.cfg.TimeLimit
	r.broadcast(MakePacketStartRound(word, r.playerList()))
	r.log.Info().Int("round", r.round).Msg("round started")
}

func (r *room) resolveRound() {
	if r.cfg.RemoveIdlePlayers {
		var idle []Player
		for _, ps := range r.players {
			if !ps.hasSubmitted {
				idle = append(idle, ps.player)
			}
		}
		for _, p := range idle {
			r.handleRemovePlayer(p)
			p.CancelAndRelease()
		}
		if len(r.players) == 0 {
			// Everyone was idle; the room is already being destroyed.
			return
		}
	}

	results := computeResults(r.submissions, r.players, r.cfg.RankWeight, r.cfg.ConfidenceWeight)
	r.broadcast(MakePacketShowResults(results))
	r.broadcast(MakePacketPlayerList(r.playerList()))
	r.roundActive = false
	r.advanceRound()
}

func (r *room) advanceRound() {
	if r.round >= r.cfg.Rounds {
		r.finishGame()
		return
	}

	r.round++
	for _, ps := range r.players {
		ps.isReady = false
		ps.hasSubmitted = false
	}
	r.submissions = nil
	r.currentWord = ""
	r.readyLatchUsed = false
	r.phase = PhaseLobby
	r.countdown = r.cfg.PreRoundCountdown
	r.broadcast(MakePacketRoomUpdate(r.summary()))
	r.broadcast(MakePacketPlayerList(r.playerList()))
}

func (r *room) finishGame() {
	r.broadcast(MakePacketFinishGame())
	r.phase = PhaseFinished
	r.roundActive = false
	r.log.Info().Msg("game finished")
}

func (r *room) handlePing() {
	for _, ps := range r.players {
		r.pingTasks = append(r.pingTasks, ps.player)
	}
}
