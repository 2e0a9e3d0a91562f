package game

import (
	"encoding/json"
	"log/slog"
	"time"
)

type roomHandle struct {
	room Room
	// Hashed once at creation and never rewritten, so the hub goroutine can
	// compare against it without coordinating with the room actor.
	passwordHash string
}

type hub struct {
	rooms      map[string]*roomHandle
	membership map[string]Room
	players    map[string]Player

	inbox          chan clientPacketEnvelope
	registrations  chan Player
	removals       chan Player
	removeRoomChan chan string

	hasher        PasswordHasher
	tickerCreator PeriodicTickerChannelCreator
	newRoom       func(id string, host Player, hostUsername string, parentHub Hub) Room
}

func NewHub(hasher PasswordHasher, tickerCreator PeriodicTickerChannelCreator) *hub {
	return &hub{
		rooms:          map[string]*roomHandle{},
		membership:     map[string]Room{},
		players:        map[string]Player{},
		inbox:          make(chan clientPacketEnvelope, 1024),
		registrations:  make(chan Player, 32),
		removals:       make(chan Player, 64),
		removeRoomChan: make(chan string, 32),
		hasher:         hasher,
		tickerCreator:  tickerCreator,
		newRoom: func(id string, host Player, hostUsername string, parentHub Hub) Room {
			return NewRoom(id, host, hostUsername, parentHub)
		},
	}
}

func (h *hub) Inbox() chan<- clientPacketEnvelope {
	return h.inbox
}

func (h *hub) Removals() chan<- Player {
	return h.removals
}

func (h *hub) Register(p Player) {
	h.registrations <- p
}

func (h *hub) RemoveRoom(roomId string) {
	h.removeRoomChan <- roomId
}

// HubActor owns the room table and the connection registry. Room lifecycle,
// password gatekeeping and event routing all run on this goroutine.
func (h *hub) HubActor(started chan struct{}) {
	ticker := h.tickerCreator.Create(time.Second)
	pingTicker := h.tickerCreator.Create(time.Second * 30)

	close(started)

	for {
		select {
		case now := <-ticker:
			for _, handle := range h.rooms {
				handle.room.Tick(now)
			}
		case <-pingTicker:
			for _, p := range h.players {
				p.Ping()
			}

		case p := <-h.registrations:
			h.players[p.Id()] = p

		case e := <-h.inbox:
			h.safeHandleEnvelope(e)

		case p := <-h.removals:
			h.handleDisconnect(p)

		case roomId := <-h.removeRoomChan:
			h.handleRemoveRoom(roomId)
		}
	}
}

func (h *hub) safeHandleEnvelope(e clientPacketEnvelope) {
	defer func() {
		if fault := recover(); fault != nil {
			slog.Error("hub event handler panicked", "event", e.event, "fault", fault)
			h.sendError(e.from, ErrMalformedEvent.Error())
		}
	}()
	h.handleEnvelope(e)
}

func (h *hub) handleEnvelope(e clientPacketEnvelope) {
	switch e.event {
	case EVENT_CREATE_ROOM:
		h.handleCreateRoom(e)
	case EVENT_JOIN_ROOM:
		h.handleJoinRoom(e)
	case EVENT_DRAW, EVENT_CLEAR_CANVAS, EVENT_GAME_START, EVENT_GAME_END:
		h.routeToRoom(e)
	default:
		h.sendError(e.from, ErrMalformedEvent.Error())
	}
}

func (h *hub) sendError(p Player, message string) {
	if p == nil {
		return
	}
	p.Send(MakePacketError(message))
}

func (h *hub) handleCreateRoom(e clientPacketEnvelope) {
	var payload roomRequestPayload
	if err := json.Unmarshal(e.data, &payload); err != nil || payload.RoomId == "" || payload.Username == "" {
		h.sendError(e.from, ErrMalformedEvent.Error())
		return
	}

	if _, exists := h.rooms[payload.RoomId]; exists {
		h.sendError(e.from, ErrRoomAlreadyExists.Error())
		return
	}

	passwordHash, err := h.hasher.Hash(payload.Password)
	if err != nil {
		slog.Error("password hashing failed", "room", payload.RoomId, "error", err)
		h.sendError(e.from, ErrMalformedEvent.Error())
		return
	}

	h.evictFromCurrentRoom(e.from)

	r := h.newRoom(payload.RoomId, e.from, payload.Username, h)
	h.rooms[payload.RoomId] = &roomHandle{room: r, passwordHash: passwordHash}
	h.membership[e.from.Id()] = r
	go r.GameLoop()

	e.from.Send(MakePacketRoomCreated(payload.RoomId, payload.Username, []UserInfo{
		{Id: e.from.Id(), Username: payload.Username},
	}))
	slog.Info("room created", "room", payload.RoomId, "host", e.from.Id())
}

func (h *hub) handleJoinRoom(e clientPacketEnvelope) {
	var payload roomRequestPayload
	if err := json.Unmarshal(e.data, &payload); err != nil || payload.RoomId == "" || payload.Username == "" {
		h.sendError(e.from, ErrMalformedEvent.Error())
		return
	}

	handle, exists := h.rooms[payload.RoomId]
	if !exists {
		h.sendError(e.from, ErrRoomNotFound.Error())
		return
	}

	match, err := h.hasher.Compare(handle.passwordHash, payload.Password)
	if err != nil || !match {
		h.sendError(e.from, ErrInvalidPassword.Error())
		return
	}

	rejoin := h.membership[e.from.Id()] == handle.room
	if !rejoin {
		h.evictFromCurrentRoom(e.from)
		h.membership[e.from.Id()] = handle.room
	}

	handle.room.RequestJoin(roomJoinRequest{player: e.from, username: payload.Username, rejoin: rejoin})
}

// evictFromCurrentRoom detaches a connection from the room it currently
// occupies, if any. The connection stays alive, only the membership moves.
func (h *hub) evictFromCurrentRoom(p Player) {
	current, ok := h.membership[p.Id()]
	if !ok {
		return
	}
	current.RemoveMe(p)
	delete(h.membership, p.Id())
}

func (h *hub) handleDisconnect(p Player) {
	if current, ok := h.membership[p.Id()]; ok {
		current.RemoveMe(p)
	}
	delete(h.membership, p.Id())
	delete(h.players, p.Id())
	p.CancelAndRelease()
}

func (h *hub) handleRemoveRoom(roomId string) {
	handle, exists := h.rooms[roomId]
	if !exists {
		return
	}
	delete(h.rooms, roomId)
	for playerId, r := range h.membership {
		if r == handle.room {
			delete(h.membership, playerId)
		}
	}
	handle.room.CloseAndRelease()
	slog.Info("room removed", "room", roomId)
}

func (h *hub) routeToRoom(e clientPacketEnvelope) {
	roomId, err := roomIdFromPayload(e.event, e.data)
	if err != nil || roomId == "" {
		h.sendError(e.from, ErrMalformedEvent.Error())
		return
	}

	handle, exists := h.rooms[roomId]
	if !exists {
		h.sendError(e.from, ErrRoomNotFound.Error())
		return
	}
	handle.room.Send(e)
}
