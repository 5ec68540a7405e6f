package handler

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"go.hackfix.me/purr/effect"
	"go.hackfix.me/purr/web/server/api/util"
	"go.hackfix.me/purr/web/server/types"
)

// Handle creates an HTTP handler function that processes requests through the
// pipeline p:
//
//  1. every binding is extracted and validated, in declared order, and stored
//     in a new *Req;
//  2. handlerFn is called with the request value;
//  3. its result is translated into a response, executing it first if it's an
//     effect.Effect.
//
// Any failure along the way is mapped to a response by types.MapFailure. A
// panic in handlerFn is handled like an Effect defect.
//
// Handle panics if a binding of p was created for a request type other than
// Req, so that misconfigured routes fail at startup.
func Handle[Req any](handlerFn func(context.Context, *Req) (any, error), p *Pipeline) http.HandlerFunc {
	reqType := reflect.TypeFor[Req]()
	for _, b := range p.bindings {
		if b.reqType != reqType {
			panic(fmt.Sprintf("binding for %s %q sets %s, but the handler expects %s",
				b.Kind, b.Label(), b.reqType, reqType))
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var (
			ctx = r.Context()
			req = new(Req)
			out types.Outcome
		)

		// The response is written in both success and error scenarios.
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler { //nolint:errorlint // Sentinel panic value.
					panic(rec)
				}
				out = p.fail(r, &effect.DefectError{Value: rec})
			}

			if err := util.WriteJSON(w, out.Status, p.errorLevel.Sanitize(out).Body); err != nil {
				p.logger.Error("failed writing response", "error", err.Error())
			}
		}()

		// 1. Request argument validation
		src := newSource(r)
		for _, b := range p.bindings {
			raw, ok, err := b.extract(src)
			if err != nil {
				out = p.fail(r, err)
				return
			}
			if !ok {
				continue
			}

			v, err := Validate(raw, b.Param)
			if err != nil {
				out = p.fail(r, err)
				return
			}
			b.assign(req, v)
		}

		// 2. Run the handler
		result, err := handlerFn(ctx, req)
		if err != nil {
			out = p.fail(r, err)
			return
		}

		// 3. Translate the result
		out = p.translate(r, result)
	}
}
