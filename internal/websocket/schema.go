package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError         Event = "error"
	EventTermCreated   Event = "term_created"
	EventTermUpdated   Event = "term_updated"
	EventStatusChanged Event = "status_changed"
	EventTermRemoved   Event = "term_removed"
	EventPong          Event = "pong"
)

// ScheduleEvent notifies connected clients about a term change. It is
// published on the schedule events channel and relayed verbatim to every
// WebSocket subscriber.
type ScheduleEvent struct {
	Event  Event  `json:"event"`
	TermID string `json:"term_id"`
	Date   string `json:"date"`
	Status string `json:"status,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only client payload the stream accepts.
type RequestEnvelope struct {
	Action Action `json:"action"`
}
