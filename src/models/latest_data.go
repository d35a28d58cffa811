package models

// -----------------------------------------------------------------------------
// Live feed payload pushed to websocket clients
// -----------------------------------------------------------------------------

type MLiveUpdate struct {
	Type      string              `json:"type"` // "INITIAL" or "UPDATE"
	Range     string              `json:"range"`
	Summary   *MMetricsSummary    `json:"summary,omitempty"`
	Turbines  *MTurbineHealthPage `json:"turbines,omitempty"`
	Timestamp int64               `json:"timestamp"`
	Error     string              `json:"error,omitempty"`
}

// -----------------------------------------------------------------------------
// SubscribeCommand for client messages
// -----------------------------------------------------------------------------

type MSubscribeCommand struct {
	Command string `json:"command"`
	Range   string `json:"range"`
}
