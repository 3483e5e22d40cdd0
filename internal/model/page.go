package model

// PageResponse wraps the view of one fetch cycle.
// State is "live", "mock" or "error"; on "error" Data is empty and Error carries the banner.
type PageResponse[T any] struct {
	State string `json:"state" example:"live"`
	Seq   uint64 `json:"seq"`
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// StreamMessage is one frame of the live dashboard websocket
type StreamMessage struct {
	Type      string                            `json:"type"` // "dashboard" or "error"
	Dashboard *PageResponse[DashboardViewModel] `json:"dashboard,omitempty"`
	Connected bool                              `json:"connected"`
	Address   string                            `json:"address,omitempty"`
	Timestamp int64                             `json:"timestamp"`
}
