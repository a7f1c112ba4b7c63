package synapse

import (
	"errors"
	"io"

	"github.com/toyz/synapse/internal/utils"
)

// Compiler reads declared controller metadata and installs compiled
// request pipelines onto a web server. Construct one per application at
// startup; compilation is single-threaded bootstrap work and the stores
// it reads become read-only once dispatch begins.
type Compiler struct {
	meta        *MetadataRegistry
	services    *ServiceRegistry
	server      WebServerInterface
	routes      RouteRegistry
	middlewares MiddlewareRegistry
	diag        *utils.DiagnosticSystem
	realtime    RealtimeGateway
}

// CompilerOption customizes compiler construction
type CompilerOption func(*Compiler)

// WithRouteRegistry records compiled routes into the given registry
// instead of the package default
func WithRouteRegistry(routes RouteRegistry) CompilerOption {
	return func(c *Compiler) { c.routes = routes }
}

// WithMiddlewareRegistry resolves named middleware against the given
// registry instead of the package default
func WithMiddlewareRegistry(middlewares MiddlewareRegistry) CompilerOption {
	return func(c *Compiler) { c.middlewares = middlewares }
}

// WithVerboseDiagnostics enables full diagnostic output during compilation
func WithVerboseDiagnostics() CompilerOption {
	return func(c *Compiler) { c.diag = utils.NewVerboseDiagnostics() }
}

// WithQuietDiagnostics restricts diagnostic output to errors
func WithQuietDiagnostics() CompilerOption {
	return func(c *Compiler) { c.diag = utils.NewQuietDiagnostics() }
}

// WithLogWriter redirects diagnostic output to the given writer
func WithLogWriter(w io.Writer) CompilerOption {
	return func(c *Compiler) { c.diag.SetOutput(w) }
}

// NewCompiler creates a compiler mounting routes onto the given server,
// constructing controllers against the given service registry and
// reading declarations from the given metadata registry
func NewCompiler(meta *MetadataRegistry, services *ServiceRegistry, server WebServerInterface, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		meta:        meta,
		services:    services,
		server:      server,
		routes:      DefaultRouteRegistry,
		middlewares: DefaultMiddlewareRegistry,
		diag:        utils.NewDiagnosticSystem(utils.DiagnosticInfo),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AttachRealtime stores a reference to the real-time transport. The
// compiler only holds it for application code; it does not drive the
// transport's protocol.
func (c *Compiler) AttachRealtime(gw RealtimeGateway) {
	c.realtime = gw
}

// Realtime returns the attached real-time transport, if any
func (c *Compiler) Realtime() RealtimeGateway {
	return c.realtime
}

// Compile constructs the controller through its factory, runs its
// declaration (once per process), and mounts one route group carrying a
// compiled handler per declared route. A route whose handler name has no
// callable is reported and skipped; the remaining routes still mount.
// Compiling the same controller again mounts a second, independent set
// of registrations.
func (c *Compiler) Compile(factory ControllerFactory) error {
	instance, err := factory(c.services)
	if err != nil {
		return utils.WrapConstructError("controller", err)
	}
	name := instance.Name()

	if c.meta.MarkDeclared(name) {
		instance.Describe(NewBlueprint(c.meta, name))
	}

	basePath := c.meta.BasePath(name)
	group := c.server.RegisterGroup(basePath)
	for _, mw := range c.resolveChain(c.meta.Middleware(ControllerScope(name)), name) {
		group.Use(mw)
	}

	handlers := instance.Handlers()

	for _, route := range c.meta.Routes(name) {
		fullPath := route.Path.WithPrefix(basePath)

		if err := route.Path.Validate(); err != nil {
			c.diag.Warn("route %s %s has a malformed path pattern: %v", route.Method, fullPath.Raw(), err)
		}

		handler, ok := handlers[route.HandlerName]
		if !ok {
			c.diag.RouteSkipped(route.Method, fullPath.Raw(), "no handler named "+route.HandlerName+" on "+name)
			continue
		}

		scope := MethodScope(name, route.HandlerName)
		compiled := &CompiledRoute{
			ControllerName: name,
			HandlerName:    route.HandlerName,
			Method:         route.Method,
			Path:           route.Path,
			FullPath:       fullPath,
			Handler:        handler,
			Params:         c.meta.Params(name, route.HandlerName),
			Middleware:     c.resolveChain(c.meta.Middleware(scope), name),
			Filters:        c.meta.Filters(scope),
		}
		pipeline := compiled.HandlerFunc()

		group.RegisterRoute(route.Method, route.Path, pipeline)

		c.routes.RegisterRoute(RouteInfo{
			Method:         route.Method,
			Path:           fullPath.Raw(),
			HandlerName:    route.HandlerName,
			ControllerName: name,
			Middlewares:    namedMiddlewares(c.meta.Middleware(scope)),
			ParameterTypes: fullPath.ParamTypes(),
			Handler:        pipeline,
		})

		c.diag.RouteRegistered(route.Method, fullPath.Raw(), name+"."+route.HandlerName)
	}

	return nil
}

// CompileAll compiles several controllers, joining construction errors
// so one failing controller does not hide the others
func (c *Compiler) CompileAll(factories ...ControllerFactory) error {
	var errs []error
	for _, factory := range factories {
		if err := c.Compile(factory); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// resolveChain turns declared middleware references into callable
// middleware. Names resolve against the middleware registry; an unknown
// name is reported and skipped without aborting the chain.
func (c *Compiler) resolveChain(refs []MiddlewareRef, controller string) []MiddlewareFunc {
	var chain []MiddlewareFunc
	for _, ref := range refs {
		if ref.Handler != nil {
			chain = append(chain, ref.Handler)
			continue
		}
		instance, ok := c.middlewares.GetMiddleware(ref.Name)
		if !ok {
			c.diag.Error("middleware %q declared on %s is not registered, skipping", ref.Name, controller)
			continue
		}
		chain = append(chain, instance.Handler)
	}
	return chain
}

func namedMiddlewares(refs []MiddlewareRef) []string {
	var names []string
	for _, ref := range refs {
		if ref.Name != "" {
			names = append(names, ref.Name)
		}
	}
	return names
}
