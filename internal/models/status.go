package models

// StreamStatus is the daemon status returned by GET /api/status
type StreamStatus struct {
	State          string `json:"state"`
	Running        bool   `json:"running"`
	PollIntervalMS int64  `json:"poll_interval_ms"`
	DisplayServer  string `json:"display_server"`
	Published      int64  `json:"published"`
	Subscribers    int    `json:"subscribers"`
	JournalEntries int64  `json:"journal_entries"`
	Uptime         string `json:"uptime"`
	StreamingFor   string `json:"streaming_for,omitempty"`
}

// DisplayServerInfo answers whether window titles can be streamed
type DisplayServerInfo struct {
	Supported     bool   `json:"supported"`
	DisplayServer string `json:"display_server"`
}
