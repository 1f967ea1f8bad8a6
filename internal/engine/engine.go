package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cellworks/mesflow/internal/events"
	"github.com/cellworks/mesflow/internal/flow"
	"github.com/cellworks/mesflow/internal/store"
	"github.com/cellworks/mesflow/pkg/api"
	"github.com/cellworks/mesflow/pkg/log"
)

type (
	// Engine coordinates the flow handlers: definitions, per-flow stores,
	// identifier minting, and transition event publication
	Engine struct {
		defs       []*flow.Definition
		byType     map[api.FlowType]*flow.Definition
		skus       store.Store[api.SkuPayload]
		batches    store.Store[api.BatchPayload]
		inbounds   store.Store[api.InboundPayload]
		finalQa    store.Store[api.FinalQaPayload]
		dispatches store.Store[api.DispatchPayload]
		mint       IDSource
		clock      store.Clock
		hub        *events.Hub
		qc         QCPolicy
	}

	// Dependencies carries the collaborators an Engine is built from
	Dependencies struct {
		Skus       store.Store[api.SkuPayload]
		Batches    store.Store[api.BatchPayload]
		Inbounds   store.Store[api.InboundPayload]
		FinalQa    store.Store[api.FinalQaPayload]
		Dispatches store.Store[api.DispatchPayload]
		Mint       IDSource
		Clock      store.Clock
		Hub        *events.Hub
		QC         QCPolicy
	}
)

// ErrUnknownFlowType is returned when a flow type is not registered
var ErrUnknownFlowType = errors.New("unknown flow type")

// New creates an engine over validated flow definitions and the supplied
// collaborators. Zero-valued optional dependencies get defaults
func New(deps Dependencies) *Engine {
	if deps.Mint == nil {
		deps.Mint = NewUUIDSource()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Hub == nil {
		deps.Hub = events.NewHub()
	}
	if deps.QC == (QCPolicy{}) {
		deps.QC = DefaultQCPolicy()
	}

	defs := flow.All()
	byType := make(map[api.FlowType]*flow.Definition, len(defs))
	for _, d := range defs {
		byType[d.Type] = d
	}

	return &Engine{
		defs:       defs,
		byType:     byType,
		skus:       deps.Skus,
		batches:    deps.Batches,
		inbounds:   deps.Inbounds,
		finalQa:    deps.FinalQa,
		dispatches: deps.Dispatches,
		mint:       deps.Mint,
		clock:      deps.Clock,
		hub:        deps.Hub,
		qc:         deps.QC,
	}
}

// NewInMemory creates an engine with fresh in-memory stores for every flow
// type, the pilot default
func NewInMemory(deps Dependencies) *Engine {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	deps.Skus = store.NewMemory[api.SkuPayload](
		api.FlowSKU, api.SkuStateDraft,
		store.NewUUIDGen(string(api.FlowSKU)), clock,
	)
	deps.Batches = store.NewMemory[api.BatchPayload](
		api.FlowBatch, api.BatchStateCreated,
		store.NewUUIDGen(string(api.FlowBatch)), clock,
	)
	deps.Inbounds = store.NewMemory[api.InboundPayload](
		api.FlowInbound, api.InboundStateReceipt,
		store.NewUUIDGen(string(api.FlowInbound)), clock,
	)
	deps.FinalQa = store.NewMemory[api.FinalQaPayload](
		api.FlowFinalQA, api.FinalQaStatePackInfo,
		store.NewUUIDGen("fqa"), clock,
	)
	deps.Dispatches = store.NewMemory[api.DispatchPayload](
		api.FlowDispatch, api.DispatchStatePicklist,
		store.NewUUIDGen("dsp"), clock,
	)
	return New(deps)
}

// Definition returns the definition for a flow type
func (e *Engine) Definition(ft api.FlowType) (*flow.Definition, error) {
	d, ok := e.byType[ft]
	if !ok {
		return nil, api.NewError(api.CodeNotFound,
			"%s: %s", ErrUnknownFlowType, ft)
	}
	return d, nil
}

// Registry enumerates the available flow types and their rollout status in
// definition order
func (e *Engine) Registry() api.RegistryResponse {
	infos := make([]api.FlowInfo, 0, len(e.defs))
	for _, d := range e.defs {
		infos = append(infos, api.FlowInfo{
			FlowType:      d.Type,
			Name:          d.Name,
			RolloutStatus: d.RolloutStatus,
		})
	}
	return api.RegistryResponse{Flows: infos, Count: len(infos)}
}

// Hub exposes the transition event hub for streaming consumers
func (e *Engine) Hub() *events.Hub {
	return e.hub
}

// AllowedActions reports the actions the role may currently perform against
// an instance, derived by scanning the flow's transition table
func (e *Engine) AllowedActions(
	ctx context.Context, ft api.FlowType, id api.InstanceID, role api.Role,
) (*api.AllowedActionsResponse, error) {
	def, err := e.Definition(ft)
	if err != nil {
		return nil, err
	}

	state, err := e.instanceState(ctx, ft, id)
	if err != nil {
		return nil, err
	}

	return &api.AllowedActionsResponse{
		InstanceID: id,
		State:      state,
		Role:       role,
		Actions:    def.AllowedActions(state, role),
	}, nil
}

func (e *Engine) instanceState(
	ctx context.Context, ft api.FlowType, id api.InstanceID,
) (api.State, error) {
	switch ft {
	case api.FlowSKU:
		return stateOf(e.skus.Get(ctx, id))
	case api.FlowBatch:
		return stateOf(e.batches.Get(ctx, id))
	case api.FlowInbound:
		return stateOf(e.inbounds.Get(ctx, id))
	case api.FlowFinalQA:
		return stateOf(e.finalQa.Get(ctx, id))
	case api.FlowDispatch:
		return stateOf(e.dispatches.Get(ctx, id))
	default:
		return "", api.NewError(api.CodeNotFound,
			"%s: %s", ErrUnknownFlowType, ft)
	}
}

func stateOf[P any](in *api.Instance[P], err error) (api.State, error) {
	if err != nil {
		return "", asNotFound(err)
	}
	return in.State, nil
}

// transition applies one authorized action to an instance: authorize from the
// current state, run the flow-specific effect, then swap state and append the
// history entry. Everything runs inside the store's atomic update; any error
// leaves the stored instance untouched
func transition[P any](
	ctx context.Context, e *Engine, s store.Store[P],
	def *flow.Definition, id api.InstanceID,
	action api.Action, role api.Role,
	effect func(*api.Instance[P], api.State) *api.Error,
) (*api.Instance[P], error) {
	var applied api.HistoryEntry

	inst, err := s.Update(ctx, id, func(in *api.Instance[P]) error {
		to, aerr := def.Authorize(in.State, action, role)
		if aerr != nil {
			return aerr
		}
		if effect != nil {
			if eerr := effect(in, to); eerr != nil {
				return eerr
			}
		}

		applied = api.HistoryEntry{
			Action: action,
			Role:   role,
			From:   in.State,
			To:     to,
			At:     e.clock(),
		}
		in.State = to
		in.AppendHistory(applied)
		return nil
	})
	if err != nil {
		return nil, asNotFound(err)
	}

	e.hub.Publish(events.TransitionEvent{
		FlowType:   def.Type,
		InstanceID: id,
		Action:     action,
		Role:       role,
		From:       applied.From,
		To:         applied.To,
		At:         applied.At,
	})
	slog.Info("Transition applied",
		log.FlowType(def.Type),
		log.InstanceID(id),
		log.Action(action),
		log.Role(role),
		log.State(applied.To))

	return inst, nil
}

// asNotFound converts a store miss into the structured NotFound error
func asNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return api.NewError(api.CodeNotFound, "%s", err)
	}
	return err
}

func created[P any](in *api.Instance[P], err error) (*api.Instance[P], error) {
	if err != nil {
		return nil, err
	}
	slog.Info("Instance created",
		log.FlowType(in.FlowType),
		log.InstanceID(in.ID),
		log.State(in.State))
	return in, nil
}
