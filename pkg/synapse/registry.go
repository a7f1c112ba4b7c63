package synapse

// MiddlewareInstance represents a middleware with its name and handler
type MiddlewareInstance struct {
	// Name is the middleware name used in blueprint declarations
	Name string

	// Handler is the middleware function that can be applied to routes
	Handler MiddlewareFunc

	// Instance is the actual middleware struct instance (if available)
	Instance interface{}
}

// MiddlewareRegistry provides access to all registered middlewares
type MiddlewareRegistry interface {
	// RegisterMiddleware adds a middleware to the registry
	RegisterMiddleware(name string, handler MiddlewareFunc, instance interface{})

	// GetMiddleware retrieves a middleware by name
	GetMiddleware(name string) (MiddlewareInstance, bool)

	// GetAllMiddlewares returns all registered middlewares
	GetAllMiddlewares() []MiddlewareInstance
}

// inMemoryMiddlewareRegistry implements MiddlewareRegistry
type inMemoryMiddlewareRegistry struct {
	middlewares map[string]MiddlewareInstance
}

// NewInMemoryMiddlewareRegistry creates a new in-memory middleware registry
func NewInMemoryMiddlewareRegistry() MiddlewareRegistry {
	return &inMemoryMiddlewareRegistry{
		middlewares: make(map[string]MiddlewareInstance),
	}
}

func (r *inMemoryMiddlewareRegistry) RegisterMiddleware(name string, handler MiddlewareFunc, instance interface{}) {
	r.middlewares[name] = MiddlewareInstance{
		Name:     name,
		Handler:  handler,
		Instance: instance,
	}
}

func (r *inMemoryMiddlewareRegistry) GetMiddleware(name string) (MiddlewareInstance, bool) {
	middleware, exists := r.middlewares[name]
	return middleware, exists
}

func (r *inMemoryMiddlewareRegistry) GetAllMiddlewares() []MiddlewareInstance {
	result := make([]MiddlewareInstance, 0, len(r.middlewares))
	for _, middleware := range r.middlewares {
		result = append(result, middleware)
	}
	return result
}

// DefaultMiddlewareRegistry is the global middleware registry
var DefaultMiddlewareRegistry MiddlewareRegistry = NewInMemoryMiddlewareRegistry()

// RouteInfo contains metadata about a compiled route, kept for
// introspection after the route is mounted on the provider
type RouteInfo struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE)
	Method string

	// Path is the full mounted route path with parameter placeholders
	// (e.g., "/api/users/{id:int}")
	Path string

	// HandlerName is the name of the handler method
	HandlerName string

	// ControllerName is the name of the controller that owns this route
	ControllerName string

	// Middlewares lists the named middlewares applied to this route
	Middlewares []string

	// ParameterTypes maps path parameter names to their declared types
	// (e.g., {"id": "int", "slug": "string"})
	ParameterTypes map[string]string

	// Handler is the compiled pipeline handler mounted on the provider
	Handler HandlerFunc
}

// RouteRegistry provides access to all compiled routes in the application
type RouteRegistry interface {
	// GetAllRoutes returns all registered routes
	GetAllRoutes() []RouteInfo

	// GetRoutesByController returns routes filtered by controller name
	GetRoutesByController(controllerName string) []RouteInfo

	// GetRoutesByMethod returns routes filtered by HTTP method
	GetRoutesByMethod(method string) []RouteInfo

	// RegisterRoute adds a route to the registry (called by the compiler)
	RegisterRoute(route RouteInfo)
}

// DefaultRouteRegistry is the global route registry instance
var DefaultRouteRegistry RouteRegistry = NewInMemoryRouteRegistry()

// InMemoryRouteRegistry implements RouteRegistry using an in-memory slice
type InMemoryRouteRegistry struct {
	routes []RouteInfo
}

// NewInMemoryRouteRegistry creates a new in-memory route registry
func NewInMemoryRouteRegistry() *InMemoryRouteRegistry {
	return &InMemoryRouteRegistry{
		routes: make([]RouteInfo, 0),
	}
}

// GetAllRoutes returns all registered routes
func (r *InMemoryRouteRegistry) GetAllRoutes() []RouteInfo {
	return append([]RouteInfo(nil), r.routes...) // Return a copy
}

// GetRoutesByController returns routes filtered by controller name
func (r *InMemoryRouteRegistry) GetRoutesByController(controllerName string) []RouteInfo {
	var filtered []RouteInfo
	for _, route := range r.routes {
		if route.ControllerName == controllerName {
			filtered = append(filtered, route)
		}
	}
	return filtered
}

// GetRoutesByMethod returns routes filtered by HTTP method
func (r *InMemoryRouteRegistry) GetRoutesByMethod(method string) []RouteInfo {
	var filtered []RouteInfo
	for _, route := range r.routes {
		if route.Method == method {
			filtered = append(filtered, route)
		}
	}
	return filtered
}

// RegisterRoute adds a route to the registry
func (r *InMemoryRouteRegistry) RegisterRoute(route RouteInfo) {
	r.routes = append(r.routes, route)
}

// GetRoutes returns all registered routes (convenience function)
func GetRoutes() []RouteInfo {
	return DefaultRouteRegistry.GetAllRoutes()
}

// GetRoutesByController returns routes for a specific controller (convenience function)
func GetRoutesByController(controllerName string) []RouteInfo {
	return DefaultRouteRegistry.GetRoutesByController(controllerName)
}

// Middleware convenience functions

// RegisterMiddleware registers a middleware with the global registry
func RegisterMiddleware(name string, handler MiddlewareFunc, instance interface{}) {
	DefaultMiddlewareRegistry.RegisterMiddleware(name, handler, instance)
}

// GetMiddleware retrieves a middleware by name from the global registry
func GetMiddleware(name string) (MiddlewareInstance, bool) {
	return DefaultMiddlewareRegistry.GetMiddleware(name)
}

// GetAllMiddlewares returns all registered middlewares from the global registry
func GetAllMiddlewares() []MiddlewareInstance {
	return DefaultMiddlewareRegistry.GetAllMiddlewares()
}
