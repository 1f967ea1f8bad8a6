package api

import "time"

type (
	// Envelope is the uniform success/error wrapper returned by the
	// dispatcher for every request
	Envelope struct {
		OK    bool   `json:"ok"`
		Data  any    `json:"data,omitempty"`
		Error *Error `json:"error,omitempty"`
	}

	// ListResponse contains instances of one flow type in creation order
	ListResponse[P any] struct {
		Instances []*Instance[P] `json:"instances"`
		Count     int            `json:"count"`
	}

	// FlowInfo describes one flow type and its pilot rollout status
	FlowInfo struct {
		FlowType      FlowType `json:"flowType"`
		Name          string   `json:"name"`
		RolloutStatus string   `json:"rolloutStatus"`
	}

	// RegistryResponse enumerates the flow types available for discovery
	RegistryResponse struct {
		Flows []FlowInfo `json:"flows"`
		Count int        `json:"count"`
	}

	// HealthResponse provides simulator liveness information
	HealthResponse struct {
		Status    string    `json:"status"`
		Mode      string    `json:"mode"`
		Service   string    `json:"service"`
		Version   string    `json:"version"`
		Timestamp time.Time `json:"timestamp"`
	}

	// AllowedActionsResponse lists the actions a role may currently perform
	// against an instance
	AllowedActionsResponse struct {
		InstanceID InstanceID `json:"instanceId"`
		State      State      `json:"state"`
		Role       Role       `json:"role"`
		Actions    []Action   `json:"actions"`
	}
)

// OkEnvelope wraps handler data in a success envelope
func OkEnvelope(data any) Envelope {
	return Envelope{OK: true, Data: data}
}

// ErrEnvelope wraps a structured error in a failure envelope
func ErrEnvelope(err *Error) Envelope {
	return Envelope{OK: false, Error: err}
}
