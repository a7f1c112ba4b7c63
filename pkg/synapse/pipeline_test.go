package synapse

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_InvokesHandlerWithResolvedArgs(t *testing.T) {
	c := newMockContext("GET", "/users/42")
	c.params["id"] = "42"

	var got Args
	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			got = args
			return map[string]interface{}{"id": args[0]}, nil
		},
		Params: []ParamDescriptor{
			{Slot: 0, Source: ParameterSourcePath, Name: "id", Schema: Int()},
		},
	}

	err := route.HandlerFunc()(c)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 42, got[0])

	assert.Equal(t, http.StatusOK, c.response.status)
	assert.Equal(t, "json", c.response.lastWrite)
}

func TestPipeline_ValidationFailureSkipsHandler(t *testing.T) {
	c := newMockContext("GET", "/users/abc")
	c.params["id"] = "abc"

	calls := 0
	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			calls++
			return nil, nil
		},
		Params: []ParamDescriptor{
			{Slot: 0, Source: ParameterSourcePath, Name: "id", Schema: Int()},
		},
	}

	err := route.HandlerFunc()(c)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.Equal(t, http.StatusUnprocessableEntity, c.response.status)

	he, ok := c.response.payload.(*HttpError)
	require.True(t, ok)
	assert.Equal(t, "validation failed", he.Message)

	details, ok := he.Details.([]FieldError)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "id", details[0].Field)
}

func TestPipeline_NilResultMeansNoContent(t *testing.T) {
	c := newMockContext("DELETE", "/users/42")

	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			return nil, nil
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, http.StatusNoContent, c.response.status)
	assert.Equal(t, "nocontent", c.response.lastWrite)
}

func TestPipeline_ResponseResultControlsEverything(t *testing.T) {
	c := newMockContext("POST", "/users")

	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			return Created(map[string]string{"id": "1"}).
				WithHeader("Location", "/users/1").
				WithCookie(Cookie{Name: "session", Value: "abc"}), nil
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, http.StatusCreated, c.response.status)
	assert.Equal(t, "/users/1", c.response.headers["Location"])
	require.Len(t, c.response.cookies, 1)
	assert.Equal(t, "session", c.response.cookies[0].Name)
	assert.Equal(t, "json", c.response.lastWrite)
}

func TestPipeline_ResponseWithNilBody(t *testing.T) {
	c := newMockContext("PUT", "/users/1")

	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			return &Response{StatusCode: http.StatusAccepted}, nil
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, http.StatusAccepted, c.response.status)
	assert.Equal(t, "nocontent", c.response.lastWrite)
}

func TestPipeline_ResponseZeroStatusDefaultsToOK(t *testing.T) {
	c := newMockContext("GET", "/users")

	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			return &Response{Body: []string{"a"}}, nil
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, http.StatusOK, c.response.status)
}

func TestPipeline_HttpErrorWithoutFilters(t *testing.T) {
	c := newMockContext("GET", "/users/99")

	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			return nil, ErrNotFound("user not found")
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, http.StatusNotFound, c.response.status)

	he, ok := c.response.payload.(*HttpError)
	require.True(t, ok)
	assert.Equal(t, "user not found", he.Message)
}

func TestPipeline_GenericErrorWithoutFilters(t *testing.T) {
	c := newMockContext("GET", "/users")

	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			return nil, errors.New("database gone")
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, http.StatusInternalServerError, c.response.status)
	assert.Equal(t, map[string]string{"error": "database gone"}, c.response.payload)
}

func TestPipeline_FiltersSeeOriginalErrorOnce(t *testing.T) {
	c := newMockContext("GET", "/users")
	boom := errors.New("boom")

	var order []string
	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			return nil, boom
		},
		Filters: []ExceptionFilter{
			ExceptionFilterFunc(func(err error, c RequestContext) {
				assert.Same(t, boom, err)
				order = append(order, "first")
			}),
			ExceptionFilterFunc(func(err error, c RequestContext) {
				assert.Same(t, boom, err)
				order = append(order, "second")
				_ = c.Response().JSON(http.StatusBadGateway, map[string]string{"error": "handled"})
			}),
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, []string{"first", "second"}, order)

	// The filter set owns the response; the pipeline wrote nothing itself
	assert.Equal(t, 1, c.response.writes)
	assert.Equal(t, http.StatusBadGateway, c.response.status)
}

func TestPipeline_FiltersThatStaySilentLeaveResponseUntouched(t *testing.T) {
	c := newMockContext("GET", "/users")

	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			return nil, errors.New("boom")
		},
		Filters: []ExceptionFilter{
			ExceptionFilterFunc(func(err error, c RequestContext) {}),
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, 0, c.response.writes)
	assert.False(t, c.response.written)
}

func TestPipeline_MiddlewareRunsInDeclarationOrder(t *testing.T) {
	c := newMockContext("GET", "/users")

	var order []string
	tag := func(name string) MiddlewareFunc {
		return func(next HandlerFunc) HandlerFunc {
			return func(c RequestContext) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			order = append(order, "handler")
			return nil, nil
		},
		Middleware: []MiddlewareFunc{tag("first"), tag("second")},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestPipeline_MiddlewareErrorReachesFilters(t *testing.T) {
	c := newMockContext("GET", "/admin")
	denied := ErrUnauthorized("token expired")

	calls := 0
	var caught error
	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			calls++
			return nil, nil
		},
		Middleware: []MiddlewareFunc{
			func(next HandlerFunc) HandlerFunc {
				return func(c RequestContext) error {
					return denied
				}
			},
		},
		Filters: []ExceptionFilter{
			ExceptionFilterFunc(func(err error, c RequestContext) {
				caught = err
			}),
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, 0, calls)
	assert.Same(t, denied, caught)
}

func TestPipeline_MiddlewareShortCircuit(t *testing.T) {
	c := newMockContext("GET", "/cached")

	calls := 0
	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			calls++
			return nil, nil
		},
		Middleware: []MiddlewareFunc{
			func(next HandlerFunc) HandlerFunc {
				return func(c RequestContext) error {
					return c.Response().JSON(http.StatusOK, map[string]string{"cached": "true"})
				}
			},
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, c.response.writes)
}

func TestPipeline_HandlerWritingDirectlySkipsSerialization(t *testing.T) {
	c := newMockContext("GET", "/raw")

	route := &CompiledRoute{
		Handler: func(c RequestContext, args Args) (interface{}, error) {
			_ = c.Response().String(http.StatusOK, "raw output")
			return map[string]string{"ignored": "yes"}, nil
		},
	}

	require.NoError(t, route.HandlerFunc()(c))
	assert.Equal(t, 1, c.response.writes)
	assert.Equal(t, "string", c.response.lastWrite)
	assert.Equal(t, "raw output", c.response.text)
}
