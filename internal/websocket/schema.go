package websocket

import "github.com/khedma/sunday-school-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only message clients send on the feed.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady            Event = "ready"
	EventAttendanceMarked Event = "attendance_marked"
	EventError            Event = "error"
	EventPong             Event = "pong"
)

// ReadyResponse is sent once after the upgrade, naming the civil date the
// connection follows.
type ReadyResponse struct {
	Event Event  `json:"event"`
	Date  string `json:"date"`
}

// AttendanceResponse carries one committed check-in.
type AttendanceResponse struct {
	Event      Event                 `json:"event"`
	Attendance model.AttendanceEvent `json:"attendance"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
