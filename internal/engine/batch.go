package engine

import (
	"context"

	"github.com/cellworks/mesflow/pkg/api"
)

// CreateBatch starts a new batch production instance
func (e *Engine) CreateBatch(
	ctx context.Context, batch api.BatchPayload,
) (*api.Instance[api.BatchPayload], error) {
	if batch.BatchNumber == "" || batch.SkuCode == "" {
		return nil, api.NewError(api.CodeValidationFailed,
			"batchNumber and skuCode are required")
	}
	if batch.PlannedQuantity <= 0 {
		return nil, api.NewError(api.CodeValidationFailed,
			"plannedQuantity must be positive")
	}
	batch.ProducedQuantity = 0
	return created(e.batches.Create(ctx, batch))
}

// ApproveBatch authorizes production of a created batch
func (e *Engine) ApproveBatch(
	ctx context.Context, id api.InstanceID, role api.Role,
) (*api.Instance[api.BatchPayload], error) {
	def := e.byType[api.FlowBatch]
	return transition(ctx, e, e.batches, def, id, api.ActionApprove, role, nil)
}

// StartBatch begins production of an approved batch
func (e *Engine) StartBatch(
	ctx context.Context, id api.InstanceID, role api.Role,
) (*api.Instance[api.BatchPayload], error) {
	def := e.byType[api.FlowBatch]
	return transition(ctx, e, e.batches, def, id, api.ActionStart, role, nil)
}

// CompleteBatch finishes production, recording the produced quantity
func (e *Engine) CompleteBatch(
	ctx context.Context, id api.InstanceID, role api.Role, produced int,
) (*api.Instance[api.BatchPayload], error) {
	if produced < 0 {
		return nil, api.NewError(api.CodeValidationFailed,
			"producedQuantity must not be negative")
	}

	def := e.byType[api.FlowBatch]
	return transition(ctx, e, e.batches, def, id, api.ActionComplete, role,
		func(in *api.Instance[api.BatchPayload], _ api.State) *api.Error {
			in.Payload.ProducedQuantity = produced
			return nil
		})
}

// CancelBatch cancels a batch from any non-terminal state
func (e *Engine) CancelBatch(
	ctx context.Context, id api.InstanceID, role api.Role,
) (*api.Instance[api.BatchPayload], error) {
	def := e.byType[api.FlowBatch]
	return transition(ctx, e, e.batches, def, id, api.ActionCancel, role, nil)
}

// GetBatch returns one batch instance
func (e *Engine) GetBatch(
	ctx context.Context, id api.InstanceID,
) (*api.Instance[api.BatchPayload], error) {
	in, err := e.batches.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return in, nil
}

// ListBatches returns all batch instances in creation order
func (e *Engine) ListBatches(
	ctx context.Context,
) ([]*api.Instance[api.BatchPayload], error) {
	return e.batches.List(ctx)
}
