package api

import (
	"maps"
	"slices"
	"time"
)

type (
	// Instance is one in-flight or completed execution of a flow. Payload is
	// the flow-specific business data; Derived holds write-once identifiers
	// minted by the engine; History records every applied transition in order
	Instance[P any] struct {
		ID        InstanceID              `json:"instanceId"`
		FlowType  FlowType                `json:"flowType"`
		State     State                   `json:"state"`
		Payload   P                       `json:"payload"`
		Derived   map[DerivedField]string `json:"derived,omitempty"`
		History   []HistoryEntry          `json:"history"`
		CreatedAt time.Time               `json:"createdAt"`
		UpdatedAt time.Time               `json:"updatedAt"`
	}

	// HistoryEntry records a single applied transition
	HistoryEntry struct {
		Action Action    `json:"action"`
		Role   Role      `json:"actorRole"`
		From   State     `json:"fromState"`
		To     State     `json:"toState"`
		At     time.Time `json:"timestamp"`
	}
)

// SetDerived records a write-once identifier. Returns false if the field has
// already been set; the existing value is never overwritten
func (in *Instance[P]) SetDerived(field DerivedField, value string) bool {
	if _, ok := in.Derived[field]; ok {
		return false
	}
	if in.Derived == nil {
		in.Derived = map[DerivedField]string{}
	}
	in.Derived[field] = value
	return true
}

// GetDerived returns a minted identifier and whether it has been set
func (in *Instance[P]) GetDerived(field DerivedField) (string, bool) {
	v, ok := in.Derived[field]
	return v, ok
}

// AppendHistory appends a transition record. History is append-only; entries
// are never rewritten
func (in *Instance[P]) AppendHistory(e HistoryEntry) {
	in.History = append(in.History, e)
}

// CloneMeta returns a copy of the instance with independent Derived and
// History containers. The payload is copied by value; payload-internal slices
// are replaced wholesale by handlers, never mutated in place
func (in *Instance[P]) CloneMeta() *Instance[P] {
	out := *in
	out.Derived = maps.Clone(in.Derived)
	out.History = slices.Clone(in.History)
	return &out
}
