package config

import "encoding/json"

// Source identifies where a resolved option value came from.
type Source string

const (
	SourceLock     Source = "lock"
	SourceStore    Source = "store"
	SourceDefault  Source = "default"
	SourceFallback Source = "fallback"
)

// Trace records how a single option read was resolved.
type Trace struct {
	Option   string `json:"option"`
	Path     string `json:"path"`
	Source   Source `json:"source"`
	Value    any    `json:"value,omitempty"`
	Found    bool   `json:"found"`
	Locked   bool   `json:"locked,omitempty"`
	Mismatch bool   `json:"mismatch,omitempty"`
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
