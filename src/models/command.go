package models

// -----------------------------------------------------------------------------
// Websocket commands and replies
// -----------------------------------------------------------------------------

// MChartCommand is a client request sent over the websocket.
// Command is one of "chart", "figure" or "range".
type MChartCommand struct {
	Command     string           `json:"command"`
	RequestID   string           `json:"request_id"`
	Symbol      string           `json:"symbol"`
	Source      string           `json:"source"`
	Start       string           `json:"start"`
	End         string           `json:"end"`
	Preset      string           `json:"preset"`
	Activations map[string]int64 `json:"activations"`
}

// MSocketMessage is everything the server writes to a websocket client.
type MSocketMessage struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Chart     *MChartData     `json:"chart,omitempty"`
	Figure    *MFigure        `json:"figure,omitempty"`
	Notice    *MNotice        `json:"notice,omitempty"`
	Range     *MRangeResponse `json:"range,omitempty"`
	Date      string          `json:"date,omitempty"`
	Error     string          `json:"error,omitempty"`
}
