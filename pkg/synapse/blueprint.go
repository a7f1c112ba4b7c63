package synapse

// Blueprint is the declaration API controllers use to attach metadata.
// Every call writes into the metadata registry immediately, so repeated
// attachments accumulate in declaration order.
type Blueprint struct {
	meta       *MetadataRegistry
	controller string
}

// NewBlueprint creates a blueprint writing declarations for the named
// controller into the given registry
func NewBlueprint(meta *MetadataRegistry, controller string) *Blueprint {
	return &Blueprint{meta: meta, controller: controller}
}

// BasePath sets the controller's mount prefix
func (b *Blueprint) BasePath(prefix string) *Blueprint {
	b.meta.Define(MetaBasePath, ControllerScope(b.controller), prefix)
	return b
}

// Use appends middleware to the controller chain, applying to every route
// on the controller
func (b *Blueprint) Use(middlewares ...MiddlewareFunc) *Blueprint {
	b.meta.AppendMiddleware(ControllerScope(b.controller), inlineRefs(middlewares)...)
	return b
}

// UseNamed appends registered middlewares to the controller chain by
// name; names resolve against the middleware registry at compile time
func (b *Blueprint) UseNamed(names ...string) *Blueprint {
	b.meta.AppendMiddleware(ControllerScope(b.controller), namedRefs(names)...)
	return b
}

// Catch adds exception filters at the controller level. These are
// recorded for introspection; dispatch consults the route's own filter
// set.
func (b *Blueprint) Catch(filters ...ExceptionFilter) *Blueprint {
	b.meta.AppendFilters(ControllerScope(b.controller), filters...)
	return b
}

// Route declares a route binding an HTTP method and path pattern to a
// named handler
func (b *Blueprint) Route(method, path, handlerName string) *RouteBlueprint {
	b.meta.AppendRoute(b.controller, RouteDescriptor{
		Method:      method,
		Path:        SynapsePath(path),
		HandlerName: handlerName,
	})
	return &RouteBlueprint{blueprint: b, handlerName: handlerName}
}

// Get declares a GET route
func (b *Blueprint) Get(path, handlerName string) *RouteBlueprint {
	return b.Route("GET", path, handlerName)
}

// Post declares a POST route
func (b *Blueprint) Post(path, handlerName string) *RouteBlueprint {
	return b.Route("POST", path, handlerName)
}

// Put declares a PUT route
func (b *Blueprint) Put(path, handlerName string) *RouteBlueprint {
	return b.Route("PUT", path, handlerName)
}

// Delete declares a DELETE route
func (b *Blueprint) Delete(path, handlerName string) *RouteBlueprint {
	return b.Route("DELETE", path, handlerName)
}

// RouteBlueprint declares method-scoped metadata for one handler. Two
// routes naming the same handler share its parameters, middleware and
// filters.
type RouteBlueprint struct {
	blueprint   *Blueprint
	handlerName string
}

func (r *RouteBlueprint) scope() MetadataScope {
	return MethodScope(r.blueprint.controller, r.handlerName)
}

// Use appends middleware running immediately before this handler
func (r *RouteBlueprint) Use(middlewares ...MiddlewareFunc) *RouteBlueprint {
	r.blueprint.meta.AppendMiddleware(r.scope(), inlineRefs(middlewares)...)
	return r
}

// UseNamed appends registered middlewares by name, resolved at compile
// time
func (r *RouteBlueprint) UseNamed(names ...string) *RouteBlueprint {
	r.blueprint.meta.AppendMiddleware(r.scope(), namedRefs(names)...)
	return r
}

// Catch adds exception filters for this handler. A non-empty set takes
// over error handling for the route entirely.
func (r *RouteBlueprint) Catch(filters ...ExceptionFilter) *RouteBlueprint {
	r.blueprint.meta.AppendFilters(r.scope(), filters...)
	return r
}

// Body binds the whole request body to an argument slot, optionally
// through a schema
func (r *RouteBlueprint) Body(slot int, schema ...Schema) *RouteBlueprint {
	r.blueprint.meta.PutParam(r.blueprint.controller, r.handlerName, ParamDescriptor{
		Slot:   slot,
		Source: ParameterSourceBody,
		Schema: firstSchema(schema),
	})
	return r
}

// Query binds a named query parameter to an argument slot, optionally
// through a schema
func (r *RouteBlueprint) Query(slot int, name string, schema ...Schema) *RouteBlueprint {
	r.blueprint.meta.PutParam(r.blueprint.controller, r.handlerName, ParamDescriptor{
		Slot:   slot,
		Source: ParameterSourceQuery,
		Name:   name,
		Schema: firstSchema(schema),
	})
	return r
}

// Path binds a named path parameter to an argument slot, optionally
// through a schema
func (r *RouteBlueprint) Path(slot int, name string, schema ...Schema) *RouteBlueprint {
	r.blueprint.meta.PutParam(r.blueprint.controller, r.handlerName, ParamDescriptor{
		Slot:   slot,
		Source: ParameterSourcePath,
		Name:   name,
		Schema: firstSchema(schema),
	})
	return r
}

func inlineRefs(middlewares []MiddlewareFunc) []MiddlewareRef {
	refs := make([]MiddlewareRef, 0, len(middlewares))
	for _, mw := range middlewares {
		refs = append(refs, MiddlewareRef{Handler: mw})
	}
	return refs
}

func namedRefs(names []string) []MiddlewareRef {
	refs := make([]MiddlewareRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, MiddlewareRef{Name: name})
	}
	return refs
}

func firstSchema(schemas []Schema) Schema {
	if len(schemas) > 0 {
		return schemas[0]
	}
	return nil
}
