package synapse

import (
	"context"
	"time"
)

// WebServerInterface defines the contract for web server implementations.
// The compiler mounts routes through this boundary and never touches the
// underlying framework directly.
type WebServerInterface interface {
	// Route registration
	RegisterRoute(method string, path SynapsePath, handler HandlerFunc, middlewares ...MiddlewareFunc)
	RegisterGroup(prefix string) RouteGroup

	// Global middleware
	Use(middleware MiddlewareFunc)

	// Server lifecycle
	Start(addr string) error
	Stop(ctx context.Context) error

	// Server information
	Name() string
}

// RouteGroup represents a group of routes with a common prefix
type RouteGroup interface {
	RegisterRoute(method string, path SynapsePath, handler HandlerFunc, middlewares ...MiddlewareFunc)
	Use(middleware MiddlewareFunc)
	Group(prefix string) RouteGroup
}

// RequestContext provides a framework-agnostic interface for handling HTTP requests
type RequestContext interface {
	// Request data
	Method() string
	Path() string
	RealIP() string

	// Path parameters
	Param(key string) string

	// Query parameters
	QueryParam(key string) string
	QueryParams() map[string][]string
	Query() QueryMap

	// Underlying request/response access
	Request() RequestInterface
	Response() ResponseInterface

	// Body handling
	Bind(i interface{}) error

	// Context data
	Get(key string) interface{}
	Set(key string, val interface{})

	// Form data
	FormValue(name string) string
}

// RequestInterface provides access to the underlying request
type RequestInterface interface {
	Header(key string) string
	SetHeader(key, value string)
	Body() []byte
	ContentLength() int64
	ContentType() string
	Cookie(name string) (Cookie, error)
	Cookies() []Cookie
}

// ResponseInterface provides response writing capabilities
type ResponseInterface interface {
	// Status
	Status() int
	SetStatus(code int)

	// Headers
	Header(key string) string
	SetHeader(key, value string)

	// Content
	JSON(code int, i interface{}) error
	String(code int, s string) error
	NoContent(code int) error

	// Cookies
	SetCookie(cookie Cookie)

	// Response data
	Written() bool
	Writer() interface{} // Framework-specific writer
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(RequestContext) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Cookie represents an HTTP cookie
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Expires  time.Time
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite SameSiteMode
}

// SameSiteMode defines cookie SameSite attribute modes
type SameSiteMode int

const (
	SameSiteDefaultMode SameSiteMode = iota
	SameSiteLaxMode
	SameSiteStrictMode
	SameSiteNoneMode
)
