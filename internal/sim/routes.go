package sim

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cellworks/mesflow"
	"github.com/cellworks/mesflow/internal/engine"
	"github.com/cellworks/mesflow/pkg/api"
)

// NewFlowRouter builds the full pilot routing table over an engine: one
// create route and one route per action for each flow type, plus get, list,
// allowed-actions, registry, and health
func NewFlowRouter(eng *engine.Engine) *Router {
	r := NewRouter()
	registerSku(r, eng)
	registerBatch(r, eng)
	registerInbound(r, eng)
	registerFinalQa(r, eng)
	registerDispatch(r, eng)

	r.Register(
		get("/api/flows/registry", func(
			_ context.Context, _ *Request,
		) (any, error) {
			return eng.Registry(), nil
		}),
		get("/api/health", func(_ context.Context, _ *Request) (any, error) {
			return api.HealthResponse{
				Status:    "ok",
				Mode:      "sim-inapp",
				Service:   mesflow.Name,
				Version:   mesflow.Version,
				Timestamp: time.Now().UTC(),
			}, nil
		}),
	)
	return r
}

func registerSku(r *Router, eng *engine.Engine) {
	r.Register(
		post("/api/flows/sku/create", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.CreateSkuRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.CreateSku(ctx, body.Draft)
		}),
		post("/api/flows/sku/submit", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.SubmitSkuRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.SubmitSku(ctx, body.InstanceID, body.ActorRole)
		}),
		post("/api/flows/sku/review", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.ReviewSkuRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.ReviewSku(
				ctx, body.InstanceID, body.ActorRole, body.Decision,
			)
		}),
		post("/api/flows/sku/approve", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.ApproveSkuRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.ApproveSku(
				ctx, body.InstanceID, body.ActorRole, body.Decision,
			)
		}),
		get("/api/flows/sku/get", func(
			ctx context.Context, req *Request,
		) (any, error) {
			id, err := queryID(req)
			if err != nil {
				return nil, err
			}
			return eng.GetSku(ctx, id)
		}),
		get("/api/flows/sku/list", func(
			ctx context.Context, _ *Request,
		) (any, error) {
			return listOf(eng.ListSkus(ctx))
		}),
		get("/api/flows/sku/actions", allowedActions(eng, api.FlowSKU)),
	)
}

func registerBatch(r *Router, eng *engine.Engine) {
	action := func(
		path string,
		apply func(context.Context, *api.BatchActionRequest) (
			*api.Instance[api.BatchPayload], error),
	) Route {
		return post(path, func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.BatchActionRequest](req)
			if err != nil {
				return nil, err
			}
			return apply(ctx, body)
		})
	}

	r.Register(
		post("/api/flows/batch/create", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.CreateBatchRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.CreateBatch(ctx, body.Batch)
		}),
		action("/api/flows/batch/approve", func(
			ctx context.Context, b *api.BatchActionRequest,
		) (*api.Instance[api.BatchPayload], error) {
			return eng.ApproveBatch(ctx, b.InstanceID, b.ActorRole)
		}),
		action("/api/flows/batch/start", func(
			ctx context.Context, b *api.BatchActionRequest,
		) (*api.Instance[api.BatchPayload], error) {
			return eng.StartBatch(ctx, b.InstanceID, b.ActorRole)
		}),
		action("/api/flows/batch/complete", func(
			ctx context.Context, b *api.BatchActionRequest,
		) (*api.Instance[api.BatchPayload], error) {
			return eng.CompleteBatch(
				ctx, b.InstanceID, b.ActorRole, b.ProducedQuantity,
			)
		}),
		action("/api/flows/batch/cancel", func(
			ctx context.Context, b *api.BatchActionRequest,
		) (*api.Instance[api.BatchPayload], error) {
			return eng.CancelBatch(ctx, b.InstanceID, b.ActorRole)
		}),
		get("/api/flows/batch/get", func(
			ctx context.Context, req *Request,
		) (any, error) {
			id, err := queryID(req)
			if err != nil {
				return nil, err
			}
			return eng.GetBatch(ctx, id)
		}),
		get("/api/flows/batch/list", func(
			ctx context.Context, _ *Request,
		) (any, error) {
			return listOf(eng.ListBatches(ctx))
		}),
		get("/api/flows/batch/actions", allowedActions(eng, api.FlowBatch)),
	)
}

func registerInbound(r *Router, eng *engine.Engine) {
	r.Register(
		post("/api/flows/inbound/create", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.CreateInboundRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.CreateInbound(ctx, body.Receipt)
		}),
		post("/api/flows/inbound/serialize", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.InboundActionRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.SerializeInbound(ctx, body.InstanceID, body.ActorRole)
		}),
		post("/api/flows/inbound/submit-qc", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.InboundActionRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.SubmitInboundQC(ctx, body.InstanceID, body.ActorRole)
		}),
		post("/api/flows/inbound/complete-qc", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.CompleteQcRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.CompleteInboundQC(
				ctx, body.InstanceID, body.ActorRole,
				body.PassCount, body.Remarks,
			)
		}),
		get("/api/flows/inbound/get", func(
			ctx context.Context, req *Request,
		) (any, error) {
			id, err := queryID(req)
			if err != nil {
				return nil, err
			}
			return eng.GetInbound(ctx, id)
		}),
		get("/api/flows/inbound/list", func(
			ctx context.Context, _ *Request,
		) (any, error) {
			return listOf(eng.ListInbounds(ctx))
		}),
		get("/api/flows/inbound/actions", allowedActions(eng, api.FlowInbound)),
	)
}

func registerFinalQa(r *Router, eng *engine.Engine) {
	r.Register(
		post("/api/flows/final-qa/create", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.CreateFinalQaRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.CreateFinalQa(ctx, body.Pack)
		}),
		post("/api/flows/final-qa/begin-checklist", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.FinalQaActionRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.BeginChecklist(ctx, body.InstanceID, body.ActorRole)
		}),
		post("/api/flows/final-qa/finalize-checklist", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.FinalizeChecklistRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.FinalizeChecklist(
				ctx, body.InstanceID, body.ActorRole, body.Checklist,
			)
		}),
		post("/api/flows/final-qa/decide", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.QaDecisionRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.DecideFinalQa(
				ctx, body.InstanceID, body.ActorRole, body.Decision,
			)
		}),
		get("/api/flows/final-qa/get", func(
			ctx context.Context, req *Request,
		) (any, error) {
			id, err := queryID(req)
			if err != nil {
				return nil, err
			}
			return eng.GetFinalQa(ctx, id)
		}),
		get("/api/flows/final-qa/list", func(
			ctx context.Context, _ *Request,
		) (any, error) {
			return listOf(eng.ListFinalQa(ctx))
		}),
		get("/api/flows/final-qa/actions", allowedActions(eng, api.FlowFinalQA)),
	)
}

func registerDispatch(r *Router, eng *engine.Engine) {
	action := func(
		path string,
		apply func(context.Context, *api.DispatchActionRequest) (
			*api.Instance[api.DispatchPayload], error),
	) Route {
		return post(path, func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.DispatchActionRequest](req)
			if err != nil {
				return nil, err
			}
			return apply(ctx, body)
		})
	}

	r.Register(
		post("/api/flows/dispatch/create", func(
			ctx context.Context, req *Request,
		) (any, error) {
			body, err := decode[api.CreateDispatchRequest](req)
			if err != nil {
				return nil, err
			}
			return eng.CreateDispatch(ctx, body.Dispatch)
		}),
		action("/api/flows/dispatch/allocate", func(
			ctx context.Context, b *api.DispatchActionRequest,
		) (*api.Instance[api.DispatchPayload], error) {
			return eng.AllocateDispatch(
				ctx, b.InstanceID, b.ActorRole, b.PackIDs,
			)
		}),
		action("/api/flows/dispatch/load", func(
			ctx context.Context, b *api.DispatchActionRequest,
		) (*api.Instance[api.DispatchPayload], error) {
			return eng.LoadDispatch(ctx, b.InstanceID, b.ActorRole)
		}),
		action("/api/flows/dispatch/ship", func(
			ctx context.Context, b *api.DispatchActionRequest,
		) (*api.Instance[api.DispatchPayload], error) {
			return eng.ShipDispatch(ctx, b.InstanceID, b.ActorRole)
		}),
		action("/api/flows/dispatch/cancel", func(
			ctx context.Context, b *api.DispatchActionRequest,
		) (*api.Instance[api.DispatchPayload], error) {
			return eng.CancelDispatch(ctx, b.InstanceID, b.ActorRole)
		}),
		get("/api/flows/dispatch/get", func(
			ctx context.Context, req *Request,
		) (any, error) {
			id, err := queryID(req)
			if err != nil {
				return nil, err
			}
			return eng.GetDispatch(ctx, id)
		}),
		get("/api/flows/dispatch/list", func(
			ctx context.Context, _ *Request,
		) (any, error) {
			return listOf(eng.ListDispatches(ctx))
		}),
		get("/api/flows/dispatch/actions", allowedActions(eng, api.FlowDispatch)),
	)
}

func post(path string, h Handler) Route {
	return Route{Method: "POST", Match: MatchExact, Path: path, Handler: h}
}

func get(path string, h Handler) Route {
	return Route{Method: "GET", Match: MatchExact, Path: path, Handler: h}
}

func allowedActions(eng *engine.Engine, ft api.FlowType) Handler {
	return func(ctx context.Context, req *Request) (any, error) {
		id, err := queryID(req)
		if err != nil {
			return nil, err
		}
		role := api.Role(req.Query.Get("role"))
		if role == "" {
			return nil, api.NewError(api.CodeValidationFailed,
				"role query parameter is required")
		}
		return eng.AllowedActions(ctx, ft, id, role)
	}
}

func decode[T any](req *Request) (*T, error) {
	if len(req.Body) == 0 {
		return nil, api.NewError(api.CodeValidationFailed,
			"request body is required")
	}
	var body T
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return nil, api.NewError(api.CodeValidationFailed,
			"malformed request body: %s", err)
	}
	return &body, nil
}

func queryID(req *Request) (api.InstanceID, error) {
	id := req.Query.Get("id")
	if id == "" {
		return "", api.NewError(api.CodeValidationFailed,
			"id query parameter is required")
	}
	return api.InstanceID(id), nil
}

func listOf[P any](ins []*api.Instance[P], err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return api.ListResponse[P]{Instances: ins, Count: len(ins)}, nil
}
