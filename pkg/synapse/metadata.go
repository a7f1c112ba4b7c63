package synapse

import (
	"github.com/toyz/synapse/internal/utils"
)

// MetadataKey identifies one kind of metadata stored on a scope
type MetadataKey string

const (
	// MetaBasePath holds the controller's mount prefix (string)
	MetaBasePath MetadataKey = "base_path"

	// MetaRoutes holds the controller's ordered route list ([]RouteDescriptor)
	MetaRoutes MetadataKey = "routes"

	// MetaMiddleware holds an ordered middleware list ([]MiddlewareRef)
	MetaMiddleware MetadataKey = "middleware"

	// MetaFilters holds an exception filter set ([]ExceptionFilter)
	MetaFilters MetadataKey = "filters"

	// MetaParams holds a method's parameter descriptors ([]ParamDescriptor)
	MetaParams MetadataKey = "params"
)

// MetadataScope addresses either a controller or one of its handler methods
type MetadataScope struct {
	Controller string
	Method     string // empty for controller scope
}

// ControllerScope returns the scope covering the whole controller
func ControllerScope(controller string) MetadataScope {
	return MetadataScope{Controller: controller}
}

// MethodScope returns the scope covering a single handler method
func MethodScope(controller, method string) MetadataScope {
	return MetadataScope{Controller: controller, Method: method}
}

// metadataEntryKey is the compound storage key for one metadata value
type metadataEntryKey struct {
	Controller string
	Method     string
	Key        MetadataKey
}

// MetadataRegistry is the keyed in-memory store for declared controller
// metadata. It is written during the single-threaded declaration phase and
// read-only once dispatch begins; entries live for the process lifetime.
type MetadataRegistry struct {
	entries  *utils.Registry[metadataEntryKey, any]
	declared *utils.Registry[string, bool]
}

// NewMetadataRegistry creates an empty metadata registry
func NewMetadataRegistry() *MetadataRegistry {
	return &MetadataRegistry{
		entries:  utils.NewRegistry[metadataEntryKey, any](),
		declared: utils.NewRegistry[string, bool](),
	}
}

// Define stores a metadata value under the scope's compound key,
// overwriting any previous definition of the same exact key
func (m *MetadataRegistry) Define(key MetadataKey, scope MetadataScope, value any) {
	m.entries.Register(metadataEntryKey{
		Controller: scope.Controller,
		Method:     scope.Method,
		Key:        key,
	}, value)
}

// Read returns the stored value for the key, or nil when nothing was
// defined. The typed accessors supply empty defaults so callers never
// observe a failure.
func (m *MetadataRegistry) Read(key MetadataKey, scope MetadataScope) any {
	value, _ := m.entries.Get(metadataEntryKey{
		Controller: scope.Controller,
		Method:     scope.Method,
		Key:        key,
	})
	return value
}

// BasePath returns the controller's declared mount prefix, or ""
func (m *MetadataRegistry) BasePath(controller string) string {
	if v, ok := m.Read(MetaBasePath, ControllerScope(controller)).(string); ok {
		return v
	}
	return ""
}

// Routes returns the controller's route list in declaration order
func (m *MetadataRegistry) Routes(controller string) []RouteDescriptor {
	if v, ok := m.Read(MetaRoutes, ControllerScope(controller)).([]RouteDescriptor); ok {
		return v
	}
	return nil
}

// Middleware returns the scope's middleware list in declaration order
func (m *MetadataRegistry) Middleware(scope MetadataScope) []MiddlewareRef {
	if v, ok := m.Read(MetaMiddleware, scope).([]MiddlewareRef); ok {
		return v
	}
	return nil
}

// Filters returns the scope's exception filter set
func (m *MetadataRegistry) Filters(scope MetadataScope) []ExceptionFilter {
	if v, ok := m.Read(MetaFilters, scope).([]ExceptionFilter); ok {
		return v
	}
	return nil
}

// Params returns a method's parameter descriptors
func (m *MetadataRegistry) Params(controller, method string) []ParamDescriptor {
	if v, ok := m.Read(MetaParams, MethodScope(controller, method)).([]ParamDescriptor); ok {
		return v
	}
	return nil
}

// AppendRoute appends one route to the controller's route list
func (m *MetadataRegistry) AppendRoute(controller string, route RouteDescriptor) {
	scope := ControllerScope(controller)
	routes := m.Routes(controller)
	m.Define(MetaRoutes, scope, append(routes, route))
}

// AppendMiddleware appends middleware references to the scope's chain.
// Chains are append-only; repeated declarations concatenate.
func (m *MetadataRegistry) AppendMiddleware(scope MetadataScope, refs ...MiddlewareRef) {
	chain := m.Middleware(scope)
	m.Define(MetaMiddleware, scope, append(chain, refs...))
}

// AppendFilters appends exception filters to the scope's filter set
func (m *MetadataRegistry) AppendFilters(scope MetadataScope, filters ...ExceptionFilter) {
	set := m.Filters(scope)
	m.Define(MetaFilters, scope, append(set, filters...))
}

// PutParam records a parameter descriptor for a method. A descriptor for
// an already-declared slot replaces the earlier one, keeping slots unique
// per method.
func (m *MetadataRegistry) PutParam(controller, method string, p ParamDescriptor) {
	scope := MethodScope(controller, method)
	params := m.Params(controller, method)
	for i, existing := range params {
		if existing.Slot == p.Slot {
			params[i] = p
			m.Define(MetaParams, scope, params)
			return
		}
	}
	m.Define(MetaParams, scope, append(params, p))
}

// MarkDeclared records that a controller's declaration ran; it returns
// true only the first time, so repeated compilation reuses the recorded
// metadata instead of accumulating duplicates.
func (m *MetadataRegistry) MarkDeclared(controller string) bool {
	if m.declared.Has(controller) {
		return false
	}
	m.declared.Register(controller, true)
	return true
}

// Declared reports whether the controller's declaration already ran
func (m *MetadataRegistry) Declared(controller string) bool {
	return m.declared.Has(controller)
}
