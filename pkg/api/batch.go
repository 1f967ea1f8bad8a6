package api

type (
	// BatchPayload is the business data of a batch production instance
	BatchPayload struct {
		BatchNumber      string `json:"batchNumber"`
		SkuCode          string `json:"skuCode"`
		PlannedQuantity  int    `json:"plannedQuantity"`
		ProducedQuantity int    `json:"producedQuantity"`
	}

	// CreateBatchRequest starts a new batch production instance
	CreateBatchRequest struct {
		Batch BatchPayload `json:"batch"`
	}

	// BatchActionRequest advances a batch instance by one action
	BatchActionRequest struct {
		InstanceID InstanceID `json:"instanceId"`
		ActorRole  Role       `json:"actorRole"`

		// ProducedQuantity is consulted by the complete action only
		ProducedQuantity int `json:"producedQuantity,omitempty"`
	}
)

// States of the batch production flow
const (
	BatchStateCreated    State = "CREATED"
	BatchStateApproved   State = "APPROVED"
	BatchStateInProgress State = "IN_PROGRESS"
	BatchStateCompleted  State = "COMPLETED"
	BatchStateCancelled  State = "CANCELLED"
)

// Actions of the batch production flow
const (
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)
