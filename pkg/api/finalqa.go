package api

type (
	// ChecklistResult is the recorded result of one checklist item
	ChecklistResult string

	// QaOutcome is the terminal business outcome of a final QA instance
	QaOutcome string

	// ChecklistItem is one inspection point on the final QA checklist
	ChecklistItem struct {
		ID     string          `json:"id"`
		Label  string          `json:"label"`
		Result ChecklistResult `json:"result,omitempty"`
	}

	// FinalQaPayload is the business data of a final QA instance
	FinalQaPayload struct {
		PackID    string          `json:"packId"`
		SkuCode   string          `json:"skuCode"`
		Checklist []ChecklistItem `json:"checklist,omitempty"`
		Outcome   QaOutcome       `json:"outcome,omitempty"`
	}

	// CreateFinalQaRequest starts a new final QA instance for a pack
	CreateFinalQaRequest struct {
		Pack FinalQaPayload `json:"pack"`
	}

	// FinalQaActionRequest advances a final QA instance by one action
	FinalQaActionRequest struct {
		InstanceID InstanceID `json:"instanceId"`
		ActorRole  Role       `json:"actorRole"`
	}

	// FinalizeChecklistRequest submits checklist results for decision
	FinalizeChecklistRequest struct {
		InstanceID InstanceID      `json:"instanceId"`
		ActorRole  Role            `json:"actorRole"`
		Checklist  []ChecklistItem `json:"checklist"`
	}

	// QaDecisionRequest records the supervisor disposition of a pack
	QaDecisionRequest struct {
		InstanceID InstanceID `json:"instanceId"`
		ActorRole  Role       `json:"actorRole"`
		Decision   QaDecision `json:"decision"`
	}

	// QaDecision is the supervisor's verdict at the decision stage
	QaDecision string
)

// States of the final QA flow
const (
	FinalQaStatePackInfo   State = "PACK_INFO"
	FinalQaStateChecklist  State = "CHECKLIST"
	FinalQaStateDecision   State = "DECISION"
	FinalQaStateCompletion State = "COMPLETION"
)

// Actions of the final QA flow
const (
	ActionBeginChecklist    Action = "begin-checklist"
	ActionFinalizeChecklist Action = "finalize-checklist"
	ActionRework            Action = "rework"
)

const (
	ChecklistPass ChecklistResult = "PASS"
	ChecklistFail ChecklistResult = "FAIL"
	ChecklistNA   ChecklistResult = "NA"

	QaDecisionApprove QaDecision = "APPROVE"
	QaDecisionReject  QaDecision = "REJECT"
	QaDecisionRework  QaDecision = "REWORK"

	OutcomeApproved QaOutcome = "Approved"
	OutcomeRejected QaOutcome = "Rejected"
	OutcomeRework   QaOutcome = "Rework"
)
