package sim

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/cellworks/mesflow/pkg/api"
	"github.com/cellworks/mesflow/pkg/log"
)

// Dispatcher routes synthetic requests and wraps every outcome in the
// uniform envelope. A uniform random delay in [min, max] runs before the
// handler, approximating the latency of a remote backend; zero bounds
// disable the delay for tests
type Dispatcher struct {
	router *Router
	min    time.Duration
	max    time.Duration
}

// NewDispatcher creates a dispatcher over a routing table with the given
// latency bounds
func NewDispatcher(router *Router, minLatency, maxLatency time.Duration) *Dispatcher {
	return &Dispatcher{
		router: router,
		min:    minLatency,
		max:    maxLatency,
	}
}

// Dispatch resolves and executes one request, returning the HTTP status and
// the response envelope. Handlers never build envelopes themselves
func (d *Dispatcher) Dispatch(
	ctx context.Context, req *Request,
) (int, api.Envelope) {
	if err := d.delay(ctx); err != nil {
		e := api.NewError(api.CodeInternal, "request aborted: %s", err)
		return e.Code.HTTPStatus(), api.ErrEnvelope(e)
	}

	h, ok := d.router.Resolve(req.Method, req.Path)
	if !ok {
		e := api.NewError(api.CodeRouteNotFound,
			"no route for %s %s", req.Method, req.Path)
		return e.Code.HTTPStatus(), api.ErrEnvelope(e)
	}

	data, err := h(ctx, req)
	if err != nil {
		e := api.AsError(err)
		slog.Debug("Request failed",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			log.Error(e))
		return e.Code.HTTPStatus(), api.ErrEnvelope(e)
	}
	return http.StatusOK, api.OkEnvelope(data)
}

func (d *Dispatcher) delay(ctx context.Context) error {
	if d.max <= 0 {
		return nil
	}
	wait := d.min
	if spread := d.max - d.min; spread > 0 {
		wait += time.Duration(rand.Int64N(int64(spread)))
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
