package game

import (
	"encoding/json"
	"fmt"
)

const (
	EVENT_CREATE_ROOM  = "create-room"
	EVENT_JOIN_ROOM    = "join-room"
	EVENT_DRAW         = "draw"
	EVENT_CLEAR_CANVAS = "clear-canvas"
	EVENT_GAME_START   = "game-start"
	EVENT_GAME_END     = "game-end"

	EVENT_ROOM_CREATED   = "room-created"
	EVENT_ROOM_JOINED    = "room-joined"
	EVENT_USER_JOINED    = "user-joined"
	EVENT_USER_LEFT      = "user-left"
	EVENT_LOAD_DRAWINGS  = "load-drawings"
	EVENT_SCORES_UPDATED = "scores-updated"
	EVENT_ERROR          = "error"
)

type clientPacket struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type serverPacket struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type roomRequestPayload struct {
	RoomId   string `json:"roomId"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type drawPayload struct {
	RoomId string `json:"roomId"`
	DrawEvent
}

type gameEndPayload struct {
	RoomId  string       `json:"roomId"`
	Results []ScoreEntry `json:"results"`
}

type roomMembershipData struct {
	RoomId   string     `json:"roomId"`
	Username string     `json:"username"`
	Users    []UserInfo `json:"users"`
}

type userJoinedData struct {
	Username string     `json:"username"`
	Users    []UserInfo `json:"users"`
}

type userLeftData struct {
	Username string `json:"username"`
}

type gameEndData struct {
	Results []ScoreEntry `json:"results"`
}

type errorData struct {
	Message string `json:"message"`
}

func marshalPacket(event string, data any) []byte {
	bin, err := json.Marshal(serverPacket{Event: event, Data: data})
	if err != nil {
		panic(fmt.Sprintf("marshal packet %q: %v", event, err))
	}
	return bin
}

func MakePacketRoomCreated(roomId, username string, users []UserInfo) []byte {
	return marshalPacket(EVENT_ROOM_CREATED, roomMembershipData{RoomId: roomId, Username: username, Users: users})
}

func MakePacketRoomJoined(roomId, username string, users []UserInfo) []byte {
	return marshalPacket(EVENT_ROOM_JOINED, roomMembershipData{RoomId: roomId, Username: username, Users: users})
}

func MakePacketUserJoined(username string, users []UserInfo) []byte {
	return marshalPacket(EVENT_USER_JOINED, userJoinedData{Username: username, Users: users})
}

func MakePacketUserLeft(username string) []byte {
	return marshalPacket(EVENT_USER_LEFT, userLeftData{Username: username})
}

func MakePacketLoadDrawings(strokes []DrawEvent) []byte {
	return marshalPacket(EVENT_LOAD_DRAWINGS, strokes)
}

func MakePacketDraw(stroke DrawEvent) []byte {
	return marshalPacket(EVENT_DRAW, stroke)
}

func MakePacketClearCanvas() []byte {
	return marshalPacket(EVENT_CLEAR_CANVAS, nil)
}

func MakePacketScoresUpdated(standings []ScoreEntry) []byte {
	return marshalPacket(EVENT_SCORES_UPDATED, standings)
}

func MakePacketGameStart() []byte {
	return marshalPacket(EVENT_GAME_START, nil)
}

func MakePacketGameEnd(results []ScoreEntry) []byte {
	return marshalPacket(EVENT_GAME_END, gameEndData{Results: results})
}

func MakePacketError(message string) []byte {
	return marshalPacket(EVENT_ERROR, errorData{Message: message})
}

// roomIdFromPayload pulls the target room id out of an inbound payload so the
// hub can route without decoding the full event. clear-canvas carries the room
// id as a bare string, everything else wraps it in an object.
func roomIdFromPayload(event string, data json.RawMessage) (string, error) {
	if event == EVENT_CLEAR_CANVAS {
		var roomId string
		if err := json.Unmarshal(data, &roomId); err != nil {
			return "", err
		}
		return roomId, nil
	}

	var target struct {
		RoomId string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &target); err != nil {
		return "", err
	}
	return target.RoomId, nil
}
