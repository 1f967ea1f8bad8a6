package engine

import (
	"context"
	"fmt"

	"github.com/cellworks/mesflow/pkg/api"
)

// DefaultChecklist is the standard final pack inspection checklist seeded
// when a caller supplies none
func DefaultChecklist() []api.ChecklistItem {
	return []api.ChecklistItem{
		{ID: "visual", Label: "Visual Inspection"},
		{ID: "hipot", Label: "HiPot Isolation Test"},
		{ID: "capacity", Label: "Capacity Verification"},
		{ID: "bms", Label: "BMS Communication Check"},
	}
}

// CreateFinalQa starts a new final QA instance for a serialized pack
func (e *Engine) CreateFinalQa(
	ctx context.Context, pack api.FinalQaPayload,
) (*api.Instance[api.FinalQaPayload], error) {
	if pack.PackID == "" {
		return nil, api.NewError(api.CodeValidationFailed,
			"packId is required")
	}
	if len(pack.Checklist) == 0 {
		pack.Checklist = DefaultChecklist()
	}
	pack.Outcome = ""
	return created(e.finalQa.Create(ctx, pack))
}

// BeginChecklist opens the inspection checklist for a pack
func (e *Engine) BeginChecklist(
	ctx context.Context, id api.InstanceID, role api.Role,
) (*api.Instance[api.FinalQaPayload], error) {
	def := e.byType[api.FlowFinalQA]
	return transition(
		ctx, e, e.finalQa, def, id, api.ActionBeginChecklist, role, nil,
	)
}

// FinalizeChecklist records the inspection results and moves the pack to
// decision. Every checklist item must carry a result
func (e *Engine) FinalizeChecklist(
	ctx context.Context, id api.InstanceID, role api.Role,
	checklist []api.ChecklistItem,
) (*api.Instance[api.FinalQaPayload], error) {
	if len(checklist) == 0 {
		return nil, api.NewError(api.CodeValidationFailed,
			"checklist results are required")
	}
	for _, item := range checklist {
		switch item.Result {
		case api.ChecklistPass, api.ChecklistFail, api.ChecklistNA:
		default:
			return nil, api.NewError(api.CodeValidationFailed,
				"checklist item %q has no result", item.ID)
		}
	}

	def := e.byType[api.FlowFinalQA]
	return transition(
		ctx, e, e.finalQa, def, id, api.ActionFinalizeChecklist, role,
		func(in *api.Instance[api.FinalQaPayload], _ api.State) *api.Error {
			in.Payload.Checklist = checklist
			return nil
		})
}

// DecideFinalQa records the supervisor disposition of a pack. Approval mints
// the battery identity, bound to the pack identifier and write-once; reject
// and rework mint nothing
func (e *Engine) DecideFinalQa(
	ctx context.Context, id api.InstanceID, role api.Role,
	decision api.QaDecision,
) (*api.Instance[api.FinalQaPayload], error) {
	var (
		action  api.Action
		outcome api.QaOutcome
	)
	switch decision {
	case api.QaDecisionApprove:
		action, outcome = api.ActionApprove, api.OutcomeApproved
	case api.QaDecisionReject:
		action, outcome = api.ActionReject, api.OutcomeRejected
	case api.QaDecisionRework:
		action, outcome = api.ActionRework, api.OutcomeRework
	default:
		return nil, api.NewError(api.CodeValidationFailed,
			"unknown QA decision %q", decision)
	}

	def := e.byType[api.FlowFinalQA]
	return transition(ctx, e, e.finalQa, def, id, action, role,
		func(in *api.Instance[api.FinalQaPayload], _ api.State) *api.Error {
			if decision == api.QaDecisionApprove {
				batteryID := fmt.Sprintf("BATT-%d-%s",
					e.clock().Year(), e.mint())
				if !in.SetDerived(api.DerivedBatteryID, batteryID) {
					return api.NewError(api.CodeDerivedFieldAlreadySet,
						"battery identity already minted for %s",
						in.Payload.PackID)
				}
			}
			in.Payload.Outcome = outcome
			return nil
		})
}

// GetFinalQa returns one final QA instance
func (e *Engine) GetFinalQa(
	ctx context.Context, id api.InstanceID,
) (*api.Instance[api.FinalQaPayload], error) {
	in, err := e.finalQa.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return in, nil
}

// ListFinalQa returns all final QA instances in creation order
func (e *Engine) ListFinalQa(
	ctx context.Context,
) ([]*api.Instance[api.FinalQaPayload], error) {
	return e.finalQa.List(ctx)
}
