package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventTick      Event = "tick"
	EventFinalized Event = "finalized"
)

// TickResponse carries one countdown update to the client.
type TickResponse struct {
	Event            Event  `json:"event"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Phase            string `json:"phase"`
}

// FinalizedResponse announces that the attempt reached its terminal state.
type FinalizedResponse struct {
	Event Event `json:"event"`
	Score int   `json:"score"`
}
