package game

import "encoding/json"

type RoomPhase int

// A room's game phase. Stroke submission itself is not gated on the phase
// (clients stop rendering outside a round); the phase only drives the
// countdown and the final score broadcast.
const (
	PHASE_IDLE RoomPhase = iota
	PHASE_RUNNING
	PHASE_ENDED
)

type DrawPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawEvent is one accepted polyline stroke. Once appended to a room's log it
// is never mutated; the author is whatever username the submitter claimed at
// submission time.
type DrawEvent struct {
	Points    []DrawPoint `json:"points"`
	Color     string      `json:"color"`
	LineWidth float64     `json:"lineWidth"`
	Username  string      `json:"username"`
}

type UserInfo struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

type ScoreEntry struct {
	Username   string `json:"username"`
	Percentage string `json:"percentage"`
}

type clientPacketEnvelope struct {
	event string
	data  json.RawMessage
	from  Player
}

type roomJoinRequest struct {
	player   Player
	username string
	rejoin   bool
}

type dataSendTask struct {
	to   Player
	data []byte
}
