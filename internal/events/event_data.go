package events

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// CycleCompletedData contains data for CycleCompleted events
type CycleCompletedData struct {
	CycleID          string  `json:"cycle_id" msgpack:"cycle_id"`
	Positions        int     `json:"positions" msgpack:"positions"`
	Unmapped         int     `json:"unmapped" msgpack:"unmapped"`
	TotalMarketValue float64 `json:"total_market_value" msgpack:"total_market_value"`
	TotalGain        float64 `json:"total_gain" msgpack:"total_gain"`
	FXFallback       bool    `json:"fx_fallback" msgpack:"fx_fallback"`
	Trigger          string  `json:"trigger" msgpack:"trigger"`
}

// EventType returns the event type for CycleCompletedData
func (d *CycleCompletedData) EventType() EventType {
	return CycleCompleted
}

// CycleFailedData contains data for CycleFailed events
type CycleFailedData struct {
	Error   string `json:"error" msgpack:"error"`
	Kind    string `json:"kind" msgpack:"kind"` // source_unavailable, schema or internal
	Trigger string `json:"trigger" msgpack:"trigger"`
}

// EventType returns the event type for CycleFailedData
func (d *CycleFailedData) EventType() EventType {
	return CycleFailed
}
