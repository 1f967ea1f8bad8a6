package engine

import (
	"context"
	"fmt"

	"github.com/cellworks/mesflow/pkg/api"
)

// CreateDispatch starts a new finished-goods dispatch instance
func (e *Engine) CreateDispatch(
	ctx context.Context, dispatch api.DispatchPayload,
) (*api.Instance[api.DispatchPayload], error) {
	if dispatch.DispatchNumber == "" || dispatch.Destination == "" {
		return nil, api.NewError(api.CodeValidationFailed,
			"dispatchNumber and destination are required")
	}
	return created(e.dispatches.Create(ctx, dispatch))
}

// AllocateDispatch assigns finished packs to the dispatch picklist
func (e *Engine) AllocateDispatch(
	ctx context.Context, id api.InstanceID, role api.Role, packIDs []string,
) (*api.Instance[api.DispatchPayload], error) {
	if len(packIDs) == 0 {
		return nil, api.NewError(api.CodeValidationFailed,
			"at least one packId is required")
	}

	def := e.byType[api.FlowDispatch]
	return transition(ctx, e, e.dispatches, def, id, api.ActionAllocate, role,
		func(in *api.Instance[api.DispatchPayload], _ api.State) *api.Error {
			in.Payload.PackIDs = packIDs
			return nil
		})
}

// LoadDispatch confirms the allocated packs are loaded for transport
func (e *Engine) LoadDispatch(
	ctx context.Context, id api.InstanceID, role api.Role,
) (*api.Instance[api.DispatchPayload], error) {
	def := e.byType[api.FlowDispatch]
	return transition(ctx, e, e.dispatches, def, id, api.ActionLoad, role, nil)
}

// ShipDispatch ships the consignment, minting a write-once consignment note
func (e *Engine) ShipDispatch(
	ctx context.Context, id api.InstanceID, role api.Role,
) (*api.Instance[api.DispatchPayload], error) {
	def := e.byType[api.FlowDispatch]
	return transition(ctx, e, e.dispatches, def, id, api.ActionShip, role,
		func(in *api.Instance[api.DispatchPayload], _ api.State) *api.Error {
			note := fmt.Sprintf("CN-%d-%s", e.clock().Year(), e.mint())
			if !in.SetDerived(api.DerivedConsignmentNote, note) {
				return api.NewError(api.CodeDerivedFieldAlreadySet,
					"consignment note already minted for %s", in.ID)
			}
			return nil
		})
}

// CancelDispatch cancels a dispatch from any non-terminal state
func (e *Engine) CancelDispatch(
	ctx context.Context, id api.InstanceID, role api.Role,
) (*api.Instance[api.DispatchPayload], error) {
	def := e.byType[api.FlowDispatch]
	return transition(ctx, e, e.dispatches, def, id, api.ActionCancel, role, nil)
}

// GetDispatch returns one dispatch instance
func (e *Engine) GetDispatch(
	ctx context.Context, id api.InstanceID,
) (*api.Instance[api.DispatchPayload], error) {
	in, err := e.dispatches.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return in, nil
}

// ListDispatches returns all dispatch instances in creation order
func (e *Engine) ListDispatches(
	ctx context.Context,
) ([]*api.Instance[api.DispatchPayload], error) {
	return e.dispatches.List(ctx)
}
