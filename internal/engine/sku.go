package engine

import (
	"context"

	"github.com/cellworks/mesflow/pkg/api"
)

// CreateSku starts a new SKU approval instance from a draft
func (e *Engine) CreateSku(
	ctx context.Context, draft api.SkuPayload,
) (*api.Instance[api.SkuPayload], error) {
	if draft.SkuCode == "" || draft.SkuName == "" {
		return nil, api.NewError(api.CodeValidationFailed,
			"skuCode and skuName are required")
	}
	return created(e.skus.Create(ctx, draft))
}

// SubmitSku moves a draft into review
func (e *Engine) SubmitSku(
	ctx context.Context, id api.InstanceID, role api.Role,
) (*api.Instance[api.SkuPayload], error) {
	def := e.byType[api.FlowSKU]
	return transition(ctx, e, e.skus, def, id, api.ActionSubmit, role, nil)
}

// ReviewSku records the checker decision: forward to approval or send the
// draft back to the maker
func (e *Engine) ReviewSku(
	ctx context.Context, id api.InstanceID, role api.Role,
	decision api.ReviewDecision,
) (*api.Instance[api.SkuPayload], error) {
	var action api.Action
	switch decision {
	case api.ReviewForward:
		action = api.ActionForward
	case api.ReviewSendBack:
		action = api.ActionSendBack
	default:
		return nil, api.NewError(api.CodeValidationFailed,
			"unknown review decision %q", decision)
	}

	def := e.byType[api.FlowSKU]
	return transition(ctx, e, e.skus, def, id, action, role, nil)
}

// ApproveSku records the approver decision: publish the SKU or reject the
// draft back to the maker
func (e *Engine) ApproveSku(
	ctx context.Context, id api.InstanceID, role api.Role,
	decision api.ApproveDecision,
) (*api.Instance[api.SkuPayload], error) {
	var action api.Action
	switch decision {
	case api.ApproveAccept:
		action = api.ActionApprove
	case api.ApproveReject:
		action = api.ActionReject
	default:
		return nil, api.NewError(api.CodeValidationFailed,
			"unknown approve decision %q", decision)
	}

	def := e.byType[api.FlowSKU]
	return transition(ctx, e, e.skus, def, id, action, role, nil)
}

// GetSku returns one SKU instance
func (e *Engine) GetSku(
	ctx context.Context, id api.InstanceID,
) (*api.Instance[api.SkuPayload], error) {
	in, err := e.skus.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return in, nil
}

// ListSkus returns all SKU instances in creation order
func (e *Engine) ListSkus(
	ctx context.Context,
) ([]*api.Instance[api.SkuPayload], error) {
	return e.skus.List(ctx)
}
