package synapse

import (
	"errors"
	"net/http"
)

// CompiledRoute binds a route descriptor to a live controller instance,
// its parameter descriptors, middleware chain and exception filter set.
// It is built once at registration time and must not be mutated after the
// provider starts serving it.
type CompiledRoute struct {
	ControllerName string
	HandlerName    string
	Method         string
	Path           SynapsePath
	FullPath       SynapsePath

	Handler    Handler
	Params     []ParamDescriptor
	Middleware []MiddlewareFunc
	Filters    []ExceptionFilter
}

// HandlerFunc returns the provider-facing handler driving the dispatch
// pipeline: middleware in declaration order, parameter resolution,
// handler invocation, then response serialization or error filtering.
// The returned handler is the process's error boundary; it always
// produces a response and never propagates an error to the provider.
func (r *CompiledRoute) HandlerFunc() HandlerFunc {
	core := func(c RequestContext) error {
		args, ferrs := ResolveParams(r.Params, c)
		if len(ferrs) > 0 {
			// Validation failures respond directly and never reach the filters
			if c.Response().Written() {
				return nil
			}
			return c.Response().JSON(http.StatusUnprocessableEntity,
				ErrUnprocessableEntityWithDetails("validation failed", ferrs))
		}

		result, err := r.Handler(c, args)
		if err != nil {
			return err
		}
		return r.writeResult(c, result)
	}

	chain := core
	for i := len(r.Middleware) - 1; i >= 0; i-- {
		chain = r.Middleware[i](chain)
	}

	return func(c RequestContext) error {
		if err := chain(c); err != nil {
			r.handleError(err, c)
		}
		return nil
	}
}

// writeResult serializes the handler's return value unless something
// upstream already wrote a response
func (r *CompiledRoute) writeResult(c RequestContext, result any) error {
	res := c.Response()
	if res.Written() {
		return nil
	}

	if result == nil {
		return res.NoContent(http.StatusNoContent)
	}

	if v, ok := result.(*Response); ok {
		for key, value := range v.Headers {
			res.SetHeader(key, value)
		}
		for _, cookie := range v.Cookies {
			res.SetCookie(cookie)
		}
		status := v.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		if v.Body == nil {
			return res.NoContent(status)
		}
		return res.JSON(status, v.Body)
	}

	return res.JSON(http.StatusOK, result)
}

// handleError routes a failed request to the route's exception filters,
// or to the generic failure response when no filters are declared. Each
// filter owns its response side effect and sees the original error once.
func (r *CompiledRoute) handleError(err error, c RequestContext) {
	if len(r.Filters) > 0 {
		for _, f := range r.Filters {
			f.Catch(err, c)
		}
		return
	}

	res := c.Response()
	if res.Written() {
		return
	}

	var he *HttpError
	if errors.As(err, &he) {
		_ = res.JSON(he.StatusCode, he)
		return
	}
	_ = res.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
