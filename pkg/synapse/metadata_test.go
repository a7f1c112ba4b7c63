package synapse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataRegistry_DefineAndRead(t *testing.T) {
	meta := NewMetadataRegistry()
	scope := ControllerScope("UserController")

	meta.Define(MetaBasePath, scope, "/users")
	assert.Equal(t, "/users", meta.Read(MetaBasePath, scope))

	// Redefining the same key overwrites
	meta.Define(MetaBasePath, scope, "/api/users")
	assert.Equal(t, "/api/users", meta.Read(MetaBasePath, scope))
}

func TestMetadataRegistry_ReadAbsentReturnsNil(t *testing.T) {
	meta := NewMetadataRegistry()

	assert.Nil(t, meta.Read(MetaBasePath, ControllerScope("Nobody")))
	assert.Equal(t, "", meta.BasePath("Nobody"))
	assert.Nil(t, meta.Routes("Nobody"))
	assert.Nil(t, meta.Middleware(ControllerScope("Nobody")))
	assert.Nil(t, meta.Filters(ControllerScope("Nobody")))
	assert.Nil(t, meta.Params("Nobody", "Handler"))
}

func TestMetadataRegistry_ScopesAreIsolated(t *testing.T) {
	meta := NewMetadataRegistry()

	meta.Define(MetaMiddleware, ControllerScope("UserController"), []MiddlewareRef{{Name: "class"}})
	meta.Define(MetaMiddleware, MethodScope("UserController", "GetUser"), []MiddlewareRef{{Name: "method"}})

	classChain := meta.Middleware(ControllerScope("UserController"))
	methodChain := meta.Middleware(MethodScope("UserController", "GetUser"))

	assert.Len(t, classChain, 1)
	assert.Equal(t, "class", classChain[0].Name)
	assert.Len(t, methodChain, 1)
	assert.Equal(t, "method", methodChain[0].Name)

	// Same method name under a different controller is a different scope
	assert.Nil(t, meta.Middleware(MethodScope("PostController", "GetUser")))
}

func TestMetadataRegistry_AppendRoutePreservesOrder(t *testing.T) {
	meta := NewMetadataRegistry()

	meta.AppendRoute("UserController", RouteDescriptor{Method: "GET", Path: "/users", HandlerName: "ListUsers"})
	meta.AppendRoute("UserController", RouteDescriptor{Method: "POST", Path: "/users", HandlerName: "CreateUser"})
	meta.AppendRoute("UserController", RouteDescriptor{Method: "GET", Path: "/users/{id:int}", HandlerName: "GetUser"})

	routes := meta.Routes("UserController")
	assert.Len(t, routes, 3)
	assert.Equal(t, "ListUsers", routes[0].HandlerName)
	assert.Equal(t, "CreateUser", routes[1].HandlerName)
	assert.Equal(t, "GetUser", routes[2].HandlerName)
}

func TestMetadataRegistry_AppendMiddlewareAccumulates(t *testing.T) {
	meta := NewMetadataRegistry()
	scope := ControllerScope("UserController")

	meta.AppendMiddleware(scope, MiddlewareRef{Name: "first"})
	meta.AppendMiddleware(scope, MiddlewareRef{Name: "second"}, MiddlewareRef{Name: "third"})

	chain := meta.Middleware(scope)
	assert.Len(t, chain, 3)
	assert.Equal(t, "first", chain[0].Name)
	assert.Equal(t, "second", chain[1].Name)
	assert.Equal(t, "third", chain[2].Name)
}

func TestMetadataRegistry_PutParam(t *testing.T) {
	meta := NewMetadataRegistry()

	meta.PutParam("UserController", "GetUser", ParamDescriptor{Slot: 0, Source: ParameterSourcePath, Name: "id"})
	meta.PutParam("UserController", "GetUser", ParamDescriptor{Slot: 1, Source: ParameterSourceQuery, Name: "expand"})

	params := meta.Params("UserController", "GetUser")
	assert.Len(t, params, 2)

	// Re-declaring a slot replaces the earlier descriptor
	meta.PutParam("UserController", "GetUser", ParamDescriptor{Slot: 0, Source: ParameterSourceQuery, Name: "userId"})

	params = meta.Params("UserController", "GetUser")
	assert.Len(t, params, 2)
	assert.Equal(t, ParameterSourceQuery, params[0].Source)
	assert.Equal(t, "userId", params[0].Name)
	assert.Equal(t, "expand", params[1].Name)
}

func TestMetadataRegistry_MarkDeclared(t *testing.T) {
	meta := NewMetadataRegistry()

	assert.False(t, meta.Declared("UserController"))
	assert.True(t, meta.MarkDeclared("UserController"))
	assert.True(t, meta.Declared("UserController"))

	// Only the first mark reports true
	assert.False(t, meta.MarkDeclared("UserController"))

	// Other controllers are unaffected
	assert.True(t, meta.MarkDeclared("PostController"))
}

func TestMetadataRegistry_FiltersAccumulate(t *testing.T) {
	meta := NewMetadataRegistry()
	scope := MethodScope("UserController", "GetUser")

	f1 := ExceptionFilterFunc(func(err error, c RequestContext) {})
	f2 := ExceptionFilterFunc(func(err error, c RequestContext) {})

	meta.AppendFilters(scope, f1)
	meta.AppendFilters(scope, f2)

	assert.Len(t, meta.Filters(scope), 2)
}
