package synapse

// ParameterSource represents where a handler parameter comes from
type ParameterSource int

const (
	ParameterSourceBody ParameterSource = iota
	ParameterSourceQuery
	ParameterSourcePath
)

// String returns the source name used in diagnostics
func (s ParameterSource) String() string {
	switch s {
	case ParameterSourceBody:
		return "body"
	case ParameterSourceQuery:
		return "query"
	case ParameterSourcePath:
		return "path"
	default:
		return "unknown"
	}
}

// RouteDescriptor declares one (HTTP method, path) pair bound to a named
// handler method. Descriptors are immutable once declared; a controller
// owns an ordered sequence of them, and declaration order decides
// registration order.
type RouteDescriptor struct {
	Method      string
	Path        SynapsePath
	HandlerName string
}

// ParamDescriptor declares how one handler argument slot is filled
type ParamDescriptor struct {
	// Slot is the position in the handler's argument sequence
	Slot int

	// Source selects body, query or path extraction
	Source ParameterSource

	// Name is the query/path parameter name; empty for body
	Name string

	// Schema optionally validates and coerces the raw value; nil passes
	// the raw value through untouched
	Schema Schema
}

// MiddlewareRef is one link in a declared middleware chain: either an
// inline function or the name of a registered middleware, resolved at
// compile time
type MiddlewareRef struct {
	Name    string
	Handler MiddlewareFunc
}

// Args carries the resolved handler arguments indexed by slot.
// Unreferenced slots hold nil.
type Args []any

// At returns the argument at slot i, or nil when the slot is out of range
func (a Args) At(i int) any {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// StringAt returns the argument at slot i as a string, or "" when absent
func (a Args) StringAt(i int) string {
	s, _ := a.At(i).(string)
	return s
}

// IntAt returns the argument at slot i as an int, or 0 when absent
func (a Args) IntAt(i int) int {
	v, _ := a.At(i).(int)
	return v
}

// Arg returns the argument at slot i coerced to T
func Arg[T any](args Args, i int) (T, bool) {
	v, ok := args.At(i).(T)
	return v, ok
}

// Handler is a bound controller method. It receives the request context
// and its resolved arguments, and returns a result value to respond with
// (nil, *Response, or any JSON-encodable value) or an error.
type Handler func(c RequestContext, args Args) (any, error)

// HandlerMap maps handler names to their bound methods
type HandlerMap map[string]Handler

// Controller groups related routes under a shared base path. Describe
// declares the controller's metadata; it runs exactly once per process
// even when the controller compiles more than once. Handlers exposes the
// callable methods the route descriptors name.
type Controller interface {
	Name() string
	Describe(b *Blueprint)
	Handlers() HandlerMap
}

// ControllerFactory constructs a controller instance. The service
// registry is threaded through explicitly so dependencies resolve once,
// at compile time.
type ControllerFactory func(services *ServiceRegistry) (Controller, error)
