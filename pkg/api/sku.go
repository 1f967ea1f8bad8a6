package api

type (
	// SkuPayload is the business data of an SKU approval instance
	SkuPayload struct {
		SkuCode    string `json:"skuCode"`
		SkuName    string `json:"skuName"`
		Chemistry  string `json:"chemistry"`
		FormFactor string `json:"formFactor"`
	}

	// CreateSkuRequest starts a new SKU approval instance from a draft
	CreateSkuRequest struct {
		Draft SkuPayload `json:"draft"`
	}

	// SubmitSkuRequest moves a draft into review
	SubmitSkuRequest struct {
		InstanceID InstanceID `json:"instanceId"`
		ActorRole  Role       `json:"actorRole"`
	}

	// ReviewSkuRequest records a checker decision on a submitted draft
	ReviewSkuRequest struct {
		InstanceID InstanceID     `json:"instanceId"`
		ActorRole  Role           `json:"actorRole"`
		Decision   ReviewDecision `json:"decision"`
	}

	// ApproveSkuRequest records an approver decision on a reviewed draft
	ApproveSkuRequest struct {
		InstanceID InstanceID      `json:"instanceId"`
		ActorRole  Role            `json:"actorRole"`
		Decision   ApproveDecision `json:"decision"`
	}

	// ReviewDecision is a checker's verdict during review
	ReviewDecision string

	// ApproveDecision is an approver's verdict during approval
	ApproveDecision string
)

// States of the SKU approval flow
const (
	SkuStateDraft     State = "DRAFT"
	SkuStateReview    State = "REVIEW"
	SkuStateApprove   State = "APPROVE"
	SkuStatePublished State = "PUBLISHED"
)

// Actions of the SKU approval flow
const (
	ActionSubmit   Action = "submit"
	ActionForward  Action = "forward"
	ActionSendBack Action = "send-back"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
)

const (
	ReviewForward  ReviewDecision = "FORWARD"
	ReviewSendBack ReviewDecision = "SEND_BACK"

	ApproveAccept ApproveDecision = "APPROVE"
	ApproveReject ApproveDecision = "REJECT"
)
