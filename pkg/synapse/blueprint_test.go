package synapse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlueprint_BasePath(t *testing.T) {
	meta := NewMetadataRegistry()

	NewBlueprint(meta, "Users").BasePath("/api/users")

	assert.Equal(t, "/api/users", meta.BasePath("Users"))
}

func TestBlueprint_RouteShortcuts(t *testing.T) {
	meta := NewMetadataRegistry()
	b := NewBlueprint(meta, "Users")

	b.Get("/", "ListUsers")
	b.Post("/", "CreateUser")
	b.Put("/{id}", "UpdateUser")
	b.Delete("/{id}", "DeleteUser")

	routes := meta.Routes("Users")
	require.Len(t, routes, 4)
	assert.Equal(t, "GET", routes[0].Method)
	assert.Equal(t, "POST", routes[1].Method)
	assert.Equal(t, "PUT", routes[2].Method)
	assert.Equal(t, "DELETE", routes[3].Method)
	assert.Equal(t, "UpdateUser", routes[2].HandlerName)
	assert.Equal(t, SynapsePath("/{id}"), routes[2].Path)
}

func TestBlueprint_ControllerMiddleware(t *testing.T) {
	meta := NewMetadataRegistry()
	b := NewBlueprint(meta, "Users")

	passthrough := func(next HandlerFunc) HandlerFunc { return next }
	b.Use(passthrough).UseNamed("auth")

	refs := meta.Middleware(ControllerScope("Users"))
	require.Len(t, refs, 2)
	assert.NotNil(t, refs[0].Handler)
	assert.Empty(t, refs[0].Name)
	assert.Equal(t, "auth", refs[1].Name)
	assert.Nil(t, refs[1].Handler)
}

func TestBlueprint_RouteMiddlewareIsMethodScoped(t *testing.T) {
	meta := NewMetadataRegistry()
	b := NewBlueprint(meta, "Users")

	b.Get("/{id}", "GetUser").UseNamed("cache")
	b.Get("/", "ListUsers")

	assert.Len(t, meta.Middleware(MethodScope("Users", "GetUser")), 1)
	assert.Empty(t, meta.Middleware(MethodScope("Users", "ListUsers")))
	assert.Empty(t, meta.Middleware(ControllerScope("Users")))
}

func TestBlueprint_ParamDeclarations(t *testing.T) {
	meta := NewMetadataRegistry()
	b := NewBlueprint(meta, "Users")

	b.Post("/{id}", "UpdateUser").
		Path(0, "id", Int()).
		Body(1, Struct[createUserRequest]()).
		Query(2, "notify")

	params := meta.Params("Users", "UpdateUser")
	require.Len(t, params, 3)

	assert.Equal(t, ParameterSourcePath, params[0].Source)
	assert.Equal(t, "id", params[0].Name)
	assert.NotNil(t, params[0].Schema)

	assert.Equal(t, ParameterSourceBody, params[1].Source)
	assert.Empty(t, params[1].Name)

	assert.Equal(t, ParameterSourceQuery, params[2].Source)
	assert.Equal(t, "notify", params[2].Name)
	assert.Nil(t, params[2].Schema)
}

func TestBlueprint_SharedHandlerSharesParams(t *testing.T) {
	meta := NewMetadataRegistry()
	b := NewBlueprint(meta, "Search")

	// Two routes naming one handler declare its parameters once
	b.Get("/search", "Search").Query(0, "q", Rules("required"))
	b.Post("/search", "Search")

	routes := meta.Routes("Search")
	require.Len(t, routes, 2)
	assert.Len(t, meta.Params("Search", "Search"), 1)
}

func TestBlueprint_Filters(t *testing.T) {
	meta := NewMetadataRegistry()
	b := NewBlueprint(meta, "Users")

	noop := ExceptionFilterFunc(func(err error, c RequestContext) {})
	b.Catch(noop)
	b.Get("/{id}", "GetUser").Catch(noop, noop)

	assert.Len(t, meta.Filters(ControllerScope("Users")), 1)
	assert.Len(t, meta.Filters(MethodScope("Users", "GetUser")), 2)
}
