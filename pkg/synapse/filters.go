package synapse

// ExceptionFilter intercepts a middleware or handler error for one route.
// Catch owns its response-writing side effect; the dispatch pipeline
// invokes every filter in the route's set once with the original error.
type ExceptionFilter interface {
	Catch(err error, c RequestContext)
}

// ExceptionFilterFunc adapts a plain function to the ExceptionFilter interface
type ExceptionFilterFunc func(err error, c RequestContext)

// Catch implements ExceptionFilter
func (f ExceptionFilterFunc) Catch(err error, c RequestContext) {
	f(err, c)
}
