package api

type (
	// DispatchPayload is the business data of a dispatch instance
	DispatchPayload struct {
		DispatchNumber string   `json:"dispatchNumber"`
		Destination    string   `json:"destination"`
		Carrier        string   `json:"carrier"`
		PackIDs        []string `json:"packIds,omitempty"`
	}

	// CreateDispatchRequest starts a new dispatch instance
	CreateDispatchRequest struct {
		Dispatch DispatchPayload `json:"dispatch"`
	}

	// DispatchActionRequest advances a dispatch instance by one action
	DispatchActionRequest struct {
		InstanceID InstanceID `json:"instanceId"`
		ActorRole  Role       `json:"actorRole"`

		// PackIDs is consulted by the allocate action only
		PackIDs []string `json:"packIds,omitempty"`
	}
)

// States of the dispatch flow
const (
	DispatchStatePicklist  State = "PICKLIST"
	DispatchStateAllocated State = "ALLOCATED"
	DispatchStateLoaded    State = "LOADED"
	DispatchStateShipped   State = "SHIPPED"
	DispatchStateCancelled State = "CANCELLED"
)

// Actions of the dispatch flow
const (
	ActionAllocate Action = "allocate"
	ActionLoad     Action = "load"
	ActionShip     Action = "ship"
)
