package apimodel

type SliderState struct {
	Index         int    `json:"index"`
	Count         int    `json:"count"`
	Axis          string `json:"axis"`
	ActiveRegion  string `json:"active_region"`
	Dragging      bool   `json:"dragging"`
	Offset        int    `json:"offset"`
	Refreshes     uint64 `json:"refreshes"`
	Swaps         uint64 `json:"swaps"`
	IdleRefreshes uint64 `json:"idle_refreshes"`
	LastError     string `json:"last_error,omitempty"`
}

// TouchState is a touch sample. An omitted coordinate keeps the previous one.
type TouchState struct {
	Detected bool `json:"detected"`
	X        *int `json:"x,omitempty"`
	Y        *int `json:"y,omitempty"`
}
