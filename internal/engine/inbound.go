package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/cellworks/mesflow/pkg/api"
)

// QCPolicy resolves an inbound lot's disposition from its pass fraction. The
// partition is configurable rather than hardcoded: at or above the release
// threshold the lot is Released, at or below the reject threshold it is
// Rejected, and anything in between is Blocked
type QCPolicy struct {
	ReleaseThreshold float64
	RejectThreshold  float64
}

// DefaultQCPolicy releases only fully-passing lots and rejects only
// fully-failing ones; any partial failure blocks the lot
func DefaultQCPolicy() QCPolicy {
	return QCPolicy{
		ReleaseThreshold: 1.0,
		RejectThreshold:  0.0,
	}
}

// Disposition computes the terminal outcome of a QC inspection
func (p QCPolicy) Disposition(passCount, total int) api.Disposition {
	frac := float64(passCount) / float64(total)
	switch {
	case frac >= p.ReleaseThreshold:
		return api.DispositionReleased
	case frac <= p.RejectThreshold:
		return api.DispositionRejected
	default:
		return api.DispositionBlocked
	}
}

// CreateInbound starts a new inbound receipt instance
func (e *Engine) CreateInbound(
	ctx context.Context, receipt api.InboundPayload,
) (*api.Instance[api.InboundPayload], error) {
	if receipt.GrnNumber == "" || receipt.SupplierName == "" ||
		receipt.MaterialCode == "" {
		return nil, api.NewError(api.CodeValidationFailed,
			"grnNumber, supplierName, and materialCode are required")
	}
	if receipt.QuantityReceived <= 0 {
		return nil, api.NewError(api.CodeValidationFailed,
			"quantityReceived must be positive")
	}
	if receipt.UOM == "" {
		receipt.UOM = "EA"
	}
	receipt.Serials = nil
	receipt.PassCount = 0
	receipt.Disposition = ""
	return created(e.inbounds.Create(ctx, receipt))
}

// SerializeInbound mints one serial number per received unit. Serials are
// minted by the engine, not accepted from the caller, and are write-once
func (e *Engine) SerializeInbound(
	ctx context.Context, id api.InstanceID, role api.Role,
) (*api.Instance[api.InboundPayload], error) {
	def := e.byType[api.FlowInbound]
	return transition(ctx, e, e.inbounds, def, id, api.ActionSerialize, role,
		func(in *api.Instance[api.InboundPayload], _ api.State) *api.Error {
			if len(in.Payload.Serials) > 0 {
				return api.NewError(api.CodeDerivedFieldAlreadySet,
					"serials already minted for %s", in.ID)
			}

			prefix, _, _ := strings.Cut(in.Payload.MaterialCode, "-")
			serials := make([]string, in.Payload.QuantityReceived)
			for i := range serials {
				serials[i] = fmt.Sprintf("%s-%d-%s-%02d",
					prefix, e.clock().Year(), e.mint(), i+1)
			}
			in.Payload.Serials = serials
			return nil
		})
}

// SubmitInboundQC hands a serialized lot to quality control. A distinct
// authorized step even though the pilot UI chains it after serialization
func (e *Engine) SubmitInboundQC(
	ctx context.Context, id api.InstanceID, role api.Role,
) (*api.Instance[api.InboundPayload], error) {
	def := e.byType[api.FlowInbound]
	return transition(ctx, e, e.inbounds, def, id, api.ActionSubmitQC, role, nil)
}

// CompleteInboundQC records the inspection result and resolves the lot's
// disposition under the configured policy
func (e *Engine) CompleteInboundQC(
	ctx context.Context, id api.InstanceID, role api.Role,
	passCount int, remarks string,
) (*api.Instance[api.InboundPayload], error) {
	if passCount < 0 {
		return nil, api.NewError(api.CodeValidationFailed,
			"passCount must not be negative")
	}

	def := e.byType[api.FlowInbound]
	return transition(ctx, e, e.inbounds, def, id, api.ActionCompleteQC, role,
		func(in *api.Instance[api.InboundPayload], _ api.State) *api.Error {
			if passCount > in.Payload.QuantityReceived {
				return api.NewError(api.CodeValidationFailed,
					"passCount %d exceeds quantityReceived %d",
					passCount, in.Payload.QuantityReceived)
			}
			in.Payload.PassCount = passCount
			in.Payload.QcRemarks = remarks
			in.Payload.Disposition = e.qc.Disposition(
				passCount, in.Payload.QuantityReceived,
			)
			return nil
		})
}

// GetInbound returns one inbound instance
func (e *Engine) GetInbound(
	ctx context.Context, id api.InstanceID,
) (*api.Instance[api.InboundPayload], error) {
	in, err := e.inbounds.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return in, nil
}

// ListInbounds returns all inbound instances in creation order
func (e *Engine) ListInbounds(
	ctx context.Context,
) ([]*api.Instance[api.InboundPayload], error) {
	return e.inbounds.List(ctx)
}
