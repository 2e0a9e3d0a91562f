package game

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

const GAME_DURATION = time.Second * 30

type playerState struct {
	player   Player
	username string
}

type room struct {
	id        string
	parentHub Hub

	phase        RoomPhase
	playerStates []*playerState
	strokes      []DrawEvent
	gameDeadline time.Time
	closing      bool

	dataSendTasks []dataSendTask

	inbox    chan clientPacketEnvelope
	joinReqs chan roomJoinRequest
	removals chan Player
	ticks    chan time.Time

	closeOnce sync.Once
}

func NewRoom(id string, host Player, hostUsername string, parentHub Hub) *room {
	r := &room{
		id:        id,
		parentHub: parentHub,
		phase:     PHASE_IDLE,
		strokes:   make([]DrawEvent, 0),
		inbox:     make(chan clientPacketEnvelope, 1024),
		joinReqs:  make(chan roomJoinRequest, 64),
		removals:  make(chan Player, 64),
		ticks:     make(chan time.Time, 24),
	}
	r.playerStates = append(r.playerStates, &playerState{player: host, username: hostUsername})
	return r
}

func (r *room) Send(e clientPacketEnvelope) {
	r.inbox <- e
}

func (r *room) RequestJoin(jreq roomJoinRequest) {
	r.joinReqs <- jreq
}

func (r *room) RemoveMe(p Player) {
	r.removals <- p
}

func (r *room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *room) CloseAndRelease() {
	r.closeOnce.Do(func() {
		close(r.inbox)
		close(r.joinReqs)
		close(r.removals)
		close(r.ticks)
	})
}

// GameLoop is the room actor. All room state is owned by this goroutine;
// handlers run one at a time, queued packets are flushed after each event.
func (r *room) GameLoop() {
	for {
		select {
		case e, ok := <-r.inbox:
			if !ok {
				return
			}
			r.safeDispatch(e)
		case jreq, ok := <-r.joinReqs:
			if !ok {
				return
			}
			r.handleJoinRequest(jreq)
		case p, ok := <-r.removals:
			if !ok {
				return
			}
			r.handleRemovePlayer(p)
		case now, ok := <-r.ticks:
			if !ok {
				return
			}
			r.handleTick(now)
		}
		r.flushSendTasks()
	}
}

func (r *room) safeDispatch(e clientPacketEnvelope) {
	defer func() {
		if fault := recover(); fault != nil {
			slog.Error("room event handler panicked", "room", r.id, "event", e.event, "fault", fault)
			r.sendTo(e.from, MakePacketError(ErrMalformedEvent.Error()))
		}
	}()

	switch e.event {
	case EVENT_DRAW:
		r.handleDrawEnvelope(e)
	case EVENT_CLEAR_CANVAS:
		r.handleClearCanvas()
	case EVENT_GAME_START:
		r.handleStartGame()
	case EVENT_GAME_END:
		r.handleEndGame()
	default:
		r.sendTo(e.from, MakePacketError(ErrMalformedEvent.Error()))
	}
}

func (r *room) sendTo(p Player, data []byte) {
	if p == nil {
		return
	}
	r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: p, data: data})
}

func (r *room) broadcast(data []byte) {
	for _, state := range r.playerStates {
		r.sendTo(state.player, data)
	}
}

func (r *room) flushSendTasks() {
	for _, task := range r.dataSendTasks {
		if err := task.to.Send(task.data); err != nil {
			slog.Warn("dropping packet for slow player", "room", r.id, "player", task.to.Id())
		}
	}
	r.dataSendTasks = r.dataSendTasks[:0]
}

func (r *room) users() []UserInfo {
	users := make([]UserInfo, 0, len(r.playerStates))
	for _, state := range r.playerStates {
		users = append(users, UserInfo{Id: state.player.Id(), Username: state.username})
	}
	return users
}

func (r *room) usernames() []string {
	usernames := make([]string, 0, len(r.playerStates))
	for _, state := range r.playerStates {
		usernames = append(usernames, state.username)
	}
	return usernames
}

func (r *room) findState(p Player) int {
	for i, state := range r.playerStates {
		if state.player == p {
			return i
		}
	}
	return -1
}

func (r *room) strokesSnapshot() []DrawEvent {
	snapshot := make([]DrawEvent, len(r.strokes))
	copy(snapshot, r.strokes)
	return snapshot
}

func (r *room) standings() []ScoreEntry {
	return Standings(r.strokes, r.usernames())
}

// sendSnapshot hands a joiner everything needed to render the room.
func (r *room) sendSnapshot(p Player, username string) {
	r.sendTo(p, MakePacketRoomJoined(r.id, username, r.users()))
	r.sendTo(p, MakePacketLoadDrawings(r.strokesSnapshot()))
	r.sendTo(p, MakePacketScoresUpdated(r.standings()))
}

func (r *room) handleJoinRequest(jreq roomJoinRequest) {
	if r.closing {
		// Removal was already requested from the hub, nobody may be
		// admitted to a dying room.
		r.sendTo(jreq.player, MakePacketError(ErrRoomNotFound.Error()))
		return
	}

	if i := r.findState(jreq.player); jreq.rejoin || i != -1 {
		// Rejoin of a current member: resend the snapshot, nothing changed.
		if i != -1 {
			r.sendSnapshot(jreq.player, r.playerStates[i].username)
		}
		return
	}

	r.playerStates = append(r.playerStates, &playerState{player: jreq.player, username: jreq.username})
	r.sendSnapshot(jreq.player, jreq.username)
	r.broadcast(MakePacketUserJoined(jreq.username, r.users()))
	r.broadcast(MakePacketScoresUpdated(r.standings()))
}

func (r *room) handleRemovePlayer(p Player) {
	i := r.findState(p)
	if i == -1 {
		return
	}
	username := r.playerStates[i].username
	r.playerStates = append(r.playerStates[:i], r.playerStates[i+1:]...)

	if len(r.playerStates) == 0 {
		r.closing = true
		r.parentHub.RemoveRoom(r.id)
		return
	}
	r.broadcast(MakePacketUserLeft(username))
}

func (r *room) handleDrawEnvelope(e clientPacketEnvelope) {
	var payload drawPayload
	if err := json.Unmarshal(e.data, &payload); err != nil {
		r.sendTo(e.from, MakePacketError(ErrMalformedEvent.Error()))
		return
	}
	if len(payload.Points) == 0 || payload.LineWidth <= 0 || payload.Color == "" || payload.Username == "" {
		r.sendTo(e.from, MakePacketError(ErrMalformedEvent.Error()))
		return
	}

	r.strokes = append(r.strokes, payload.DrawEvent)
	r.broadcast(MakePacketDraw(payload.DrawEvent))
	r.broadcast(MakePacketScoresUpdated(r.standings()))
}

func (r *room) handleClearCanvas() {
	r.strokes = r.strokes[:0]
	r.broadcast(MakePacketClearCanvas())
}

func (r *room) handleStartGame() {
	if r.phase == PHASE_RUNNING {
		return
	}
	r.phase = PHASE_RUNNING
	r.strokes = r.strokes[:0]
	r.gameDeadline = time.Now().Add(GAME_DURATION)
	r.broadcast(MakePacketGameStart())
}

func (r *room) handleEndGame() {
	if r.phase != PHASE_RUNNING {
		return
	}
	r.endGame()
}

// endGame closes the round. Results are recomputed from the stroke log,
// client-supplied results are never trusted.
func (r *room) endGame() {
	r.phase = PHASE_ENDED
	r.gameDeadline = time.Time{}
	r.broadcast(MakePacketGameEnd(r.standings()))
}

func (r *room) handleTick(now time.Time) {
	if r.phase == PHASE_RUNNING && !r.gameDeadline.After(now) {
		r.endGame()
	}
}
