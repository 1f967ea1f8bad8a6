package flow

import (
	"fmt"

	"github.com/cellworks/mesflow/pkg/api"
	"github.com/cellworks/mesflow/pkg/util"
)

// Sku is the Maker-Checker-Approver SKU approval flow. Review and approval
// each carry a corrective loop back to DRAFT
func Sku() *Definition {
	return &Definition{
		Type:          api.FlowSKU,
		Name:          "SKU Creation & Approval",
		RolloutStatus: "pilot",
		Initial:       api.SkuStateDraft,
		States: util.SetOf(
			api.SkuStateDraft,
			api.SkuStateReview,
			api.SkuStateApprove,
			api.SkuStatePublished,
		),
		Terminals: util.SetOf(api.SkuStatePublished),
		Transitions: []Transition{
			{
				From:   api.SkuStateDraft,
				Action: api.ActionSubmit,
				To:     api.SkuStateReview,
				Roles:  util.SetOf(api.RoleMaker),
			},
			{
				From:   api.SkuStateReview,
				Action: api.ActionForward,
				To:     api.SkuStateApprove,
				Roles:  util.SetOf(api.RoleChecker),
			},
			{
				From:   api.SkuStateReview,
				Action: api.ActionSendBack,
				To:     api.SkuStateDraft,
				Roles:  util.SetOf(api.RoleChecker),
			},
			{
				From:   api.SkuStateApprove,
				Action: api.ActionApprove,
				To:     api.SkuStatePublished,
				Roles:  util.SetOf(api.RoleApprover),
			},
			{
				From:   api.SkuStateApprove,
				Action: api.ActionReject,
				To:     api.SkuStateDraft,
				Roles:  util.SetOf(api.RoleApprover),
			},
		},
	}
}

// Batch is the batch production flow. Cancellation is declared explicitly
// from every non-terminal state
func Batch() *Definition {
	cancelRoles := util.SetOf(api.RoleProduction, api.RoleSupervisor)
	return &Definition{
		Type:          api.FlowBatch,
		Name:          "Batch Production",
		RolloutStatus: "pilot",
		Initial:       api.BatchStateCreated,
		States: util.SetOf(
			api.BatchStateCreated,
			api.BatchStateApproved,
			api.BatchStateInProgress,
			api.BatchStateCompleted,
			api.BatchStateCancelled,
		),
		Terminals: util.SetOf(
			api.BatchStateCompleted,
			api.BatchStateCancelled,
		),
		Transitions: []Transition{
			{
				From:   api.BatchStateCreated,
				Action: api.ActionApprove,
				To:     api.BatchStateApproved,
				Roles:  util.SetOf(api.RoleSupervisor),
			},
			{
				From:   api.BatchStateApproved,
				Action: api.ActionStart,
				To:     api.BatchStateInProgress,
				Roles:  util.SetOf(api.RoleProduction),
			},
			{
				From:   api.BatchStateInProgress,
				Action: api.ActionComplete,
				To:     api.BatchStateCompleted,
				Roles:  util.SetOf(api.RoleProduction),
			},
			{
				From:   api.BatchStateCreated,
				Action: api.ActionCancel,
				To:     api.BatchStateCancelled,
				Roles:  cancelRoles,
			},
			{
				From:   api.BatchStateApproved,
				Action: api.ActionCancel,
				To:     api.BatchStateCancelled,
				Roles:  cancelRoles,
			},
			{
				From:   api.BatchStateInProgress,
				Action: api.ActionCancel,
				To:     api.BatchStateCancelled,
				Roles:  cancelRoles,
			},
		},
	}
}

// Inbound is the material receipt, serialization, and QC flow. Serialization
// and QC submission are distinct authorized steps; the pilot UI chains them,
// but the engine does not. QC may submit a serialized lot itself rather than
// waiting on Stores
func Inbound() *Definition {
	return &Definition{
		Type:          api.FlowInbound,
		Name:          "Inbound Receipt & QC",
		RolloutStatus: "pilot",
		Initial:       api.InboundStateReceipt,
		States: util.SetOf(
			api.InboundStateReceipt,
			api.InboundStateSerialization,
			api.InboundStateQC,
			api.InboundStateDisposition,
		),
		Terminals: util.SetOf(api.InboundStateDisposition),
		Transitions: []Transition{
			{
				From:   api.InboundStateReceipt,
				Action: api.ActionSerialize,
				To:     api.InboundStateSerialization,
				Roles:  util.SetOf(api.RoleStores),
			},
			{
				From:   api.InboundStateSerialization,
				Action: api.ActionSubmitQC,
				To:     api.InboundStateQC,
				Roles:  util.SetOf(api.RoleStores, api.RoleQA),
			},
			{
				From:   api.InboundStateQC,
				Action: api.ActionCompleteQC,
				To:     api.InboundStateDisposition,
				Roles:  util.SetOf(api.RoleQA),
			},
		},
	}
}

// FinalQa is the final pack QA flow. QA progresses the checklist stages; only
// a Supervisor may record the decision. Approval mints the battery identity
func FinalQa() *Definition {
	decisionRoles := util.SetOf(api.RoleSupervisor)
	return &Definition{
		Type:          api.FlowFinalQA,
		Name:          "Final QA & Identity Binding",
		RolloutStatus: "pilot",
		Initial:       api.FinalQaStatePackInfo,
		States: util.SetOf(
			api.FinalQaStatePackInfo,
			api.FinalQaStateChecklist,
			api.FinalQaStateDecision,
			api.FinalQaStateCompletion,
		),
		Terminals: util.SetOf(api.FinalQaStateCompletion),
		Transitions: []Transition{
			{
				From:   api.FinalQaStatePackInfo,
				Action: api.ActionBeginChecklist,
				To:     api.FinalQaStateChecklist,
				Roles:  util.SetOf(api.RoleQA, api.RoleSupervisor),
			},
			{
				From:   api.FinalQaStateChecklist,
				Action: api.ActionFinalizeChecklist,
				To:     api.FinalQaStateDecision,
				Roles:  util.SetOf(api.RoleQA, api.RoleSupervisor),
			},
			{
				From:   api.FinalQaStateDecision,
				Action: api.ActionApprove,
				To:     api.FinalQaStateCompletion,
				Roles:  decisionRoles,
			},
			{
				From:   api.FinalQaStateDecision,
				Action: api.ActionReject,
				To:     api.FinalQaStateCompletion,
				Roles:  decisionRoles,
			},
			{
				From:   api.FinalQaStateDecision,
				Action: api.ActionRework,
				To:     api.FinalQaStateCompletion,
				Roles:  decisionRoles,
			},
		},
	}
}

// Dispatch is the finished goods dispatch flow. Shipping mints a consignment
// note number
func Dispatch() *Definition {
	cancelRoles := util.SetOf(api.RoleLogistics, api.RoleSupervisor)
	return &Definition{
		Type:          api.FlowDispatch,
		Name:          "Finished Goods Dispatch",
		RolloutStatus: "planned",
		Initial:       api.DispatchStatePicklist,
		States: util.SetOf(
			api.DispatchStatePicklist,
			api.DispatchStateAllocated,
			api.DispatchStateLoaded,
			api.DispatchStateShipped,
			api.DispatchStateCancelled,
		),
		Terminals: util.SetOf(
			api.DispatchStateShipped,
			api.DispatchStateCancelled,
		),
		Transitions: []Transition{
			{
				From:   api.DispatchStatePicklist,
				Action: api.ActionAllocate,
				To:     api.DispatchStateAllocated,
				Roles:  util.SetOf(api.RoleStores),
			},
			{
				From:   api.DispatchStateAllocated,
				Action: api.ActionLoad,
				To:     api.DispatchStateLoaded,
				Roles:  util.SetOf(api.RoleLogistics),
			},
			{
				From:   api.DispatchStateLoaded,
				Action: api.ActionShip,
				To:     api.DispatchStateShipped,
				Roles:  util.SetOf(api.RoleLogistics, api.RoleSupervisor),
			},
			{
				From:   api.DispatchStatePicklist,
				Action: api.ActionCancel,
				To:     api.DispatchStateCancelled,
				Roles:  cancelRoles,
			},
			{
				From:   api.DispatchStateAllocated,
				Action: api.ActionCancel,
				To:     api.DispatchStateCancelled,
				Roles:  cancelRoles,
			},
			{
				From:   api.DispatchStateLoaded,
				Action: api.ActionCancel,
				To:     api.DispatchStateCancelled,
				Roles:  cancelRoles,
			},
		},
	}
}

// All returns every flow definition in registry order, validated. Panics on a
// malformed table; definitions are process-start configuration
func All() []*Definition {
	defs := []*Definition{Sku(), Batch(), Inbound(), FinalQa(), Dispatch()}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			panic(fmt.Sprintf("invalid flow definition: %v", err))
		}
	}
	return defs
}
