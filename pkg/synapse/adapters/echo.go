package adapters

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/toyz/synapse/pkg/synapse"
)

// EchoAdapter implements synapse.WebServerInterface for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates a new Echo adapter with default Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	return &EchoAdapter{engine: echo.New()}
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method string, path synapse.SynapsePath, handler synapse.HandlerFunc, middlewares ...synapse.MiddlewareFunc) {
	echoHandler := ea.convertHandler(handler)

	echoMiddlewares := make([]echo.MiddlewareFunc, len(middlewares))
	for i, mw := range middlewares {
		echoMiddlewares[i] = ea.convertMiddleware(mw)
	}

	ea.engine.Add(method, synapse.PathToEcho(path), echoHandler, echoMiddlewares...)
}

// RegisterGroup creates a new route group
func (ea *EchoAdapter) RegisterGroup(prefix string) synapse.RouteGroup {
	echoGroup := ea.engine.Group(prefix)
	return &EchoGroupAdapter{group: echoGroup, adapter: ea}
}

// Use adds global middleware
func (ea *EchoAdapter) Use(middleware synapse.MiddlewareFunc) {
	ea.engine.Use(ea.convertMiddleware(middleware))
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}

// EchoGroupAdapter implements synapse.RouteGroup for Echo groups
type EchoGroupAdapter struct {
	group   *echo.Group
	adapter *EchoAdapter
}

// RegisterRoute registers a route with the group
func (ega *EchoGroupAdapter) RegisterRoute(method string, path synapse.SynapsePath, handler synapse.HandlerFunc, middlewares ...synapse.MiddlewareFunc) {
	echoHandler := ega.adapter.convertHandler(handler)

	echoMiddlewares := make([]echo.MiddlewareFunc, len(middlewares))
	for i, mw := range middlewares {
		echoMiddlewares[i] = ega.adapter.convertMiddleware(mw)
	}

	ega.group.Add(method, synapse.PathToEcho(path), echoHandler, echoMiddlewares...)
}

// Use adds middleware to the group
func (ega *EchoGroupAdapter) Use(middleware synapse.MiddlewareFunc) {
	ega.group.Use(ega.adapter.convertMiddleware(middleware))
}

// Group creates a sub-group
func (ega *EchoGroupAdapter) Group(prefix string) synapse.RouteGroup {
	subGroup := ega.group.Group(prefix)
	return &EchoGroupAdapter{group: subGroup, adapter: ega.adapter}
}

// convertHandler converts synapse.HandlerFunc to echo.HandlerFunc
func (ea *EchoAdapter) convertHandler(handler synapse.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := &EchoRequestContext{context: c}
		if err := handler(ctx); err != nil {
			return writeEchoError(c, err)
		}
		return nil
	}
}

// convertMiddleware converts synapse.MiddlewareFunc to echo.MiddlewareFunc
func (ea *EchoAdapter) convertMiddleware(middleware synapse.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			synapseNext := func(ctx synapse.RequestContext) error {
				return next(c)
			}

			wrapped := middleware(synapseNext)

			ctx := &EchoRequestContext{context: c}
			if err := wrapped(ctx); err != nil {
				return writeEchoError(c, err)
			}
			return nil
		}
	}
}

// writeEchoError renders a handler error. Echo's own error handler only
// understands echo.HTTPError, so HttpError statuses would flatten to 500
// without this.
func writeEchoError(c echo.Context, err error) error {
	if c.Response().Committed {
		return nil
	}
	if httpErr, ok := err.(*synapse.HttpError); ok {
		return c.JSON(httpErr.StatusCode, httpErr)
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// EchoRequestContext implements synapse.RequestContext for Echo
type EchoRequestContext struct {
	context echo.Context
}

// Method returns the HTTP method
func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

// Path returns the request path
func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

// RealIP returns the real IP address
func (erc *EchoRequestContext) RealIP() string {
	return erc.context.RealIP()
}

// Param returns path parameter by name
func (erc *EchoRequestContext) Param(key string) string {
	if key == "*" {
		return erc.context.Param("*")
	}
	return erc.context.Param(key)
}

// QueryParam returns query parameter by name
func (erc *EchoRequestContext) QueryParam(key string) string {
	return erc.context.QueryParam(key)
}

// QueryParams returns all query parameters
func (erc *EchoRequestContext) QueryParams() map[string][]string {
	return erc.context.QueryParams()
}

// Query returns the query parameters as a QueryMap
func (erc *EchoRequestContext) Query() synapse.QueryMap {
	return synapse.NewQueryMap(erc.context.QueryParams())
}

// Request returns the request interface
func (erc *EchoRequestContext) Request() synapse.RequestInterface {
	return &EchoRequestInterface{request: erc.context.Request()}
}

// Response returns the response interface
func (erc *EchoRequestContext) Response() synapse.ResponseInterface {
	return &EchoResponseInterface{response: erc.context.Response(), context: erc.context}
}

// Bind binds request body to provided struct
func (erc *EchoRequestContext) Bind(i interface{}) error {
	return erc.context.Bind(i)
}

// Get retrieves data from context
func (erc *EchoRequestContext) Get(key string) interface{} {
	return erc.context.Get(key)
}

// Set stores data in context
func (erc *EchoRequestContext) Set(key string, val interface{}) {
	erc.context.Set(key, val)
}

// FormValue returns form value by name
func (erc *EchoRequestContext) FormValue(name string) string {
	return erc.context.FormValue(name)
}

// EchoRequestInterface implements synapse.RequestInterface for Echo requests
type EchoRequestInterface struct {
	request *http.Request
}

// Header returns request header value
func (eri *EchoRequestInterface) Header(key string) string {
	return eri.request.Header.Get(key)
}

// SetHeader sets request header
func (eri *EchoRequestInterface) SetHeader(key, value string) {
	eri.request.Header.Set(key, value)
}

// Body returns the request body. The body is restored afterwards so later
// reads and Bind still see it.
func (eri *EchoRequestInterface) Body() []byte {
	if eri.request.Body == nil {
		return nil
	}
	data, err := io.ReadAll(eri.request.Body)
	if err != nil {
		return nil
	}
	eri.request.Body = io.NopCloser(bytes.NewReader(data))
	return data
}

// ContentLength returns content length
func (eri *EchoRequestInterface) ContentLength() int64 {
	return eri.request.ContentLength
}

// ContentType returns content type
func (eri *EchoRequestInterface) ContentType() string {
	return eri.request.Header.Get("Content-Type")
}

// Cookies returns all cookies
func (eri *EchoRequestInterface) Cookies() []synapse.Cookie {
	cookies := eri.request.Cookies()
	result := make([]synapse.Cookie, len(cookies))
	for i, c := range cookies {
		result[i] = synapse.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			MaxAge:   c.MaxAge,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
			SameSite: synapse.SameSiteMode(c.SameSite),
		}
	}
	return result
}

// Cookie returns specific cookie
func (eri *EchoRequestInterface) Cookie(name string) (synapse.Cookie, error) {
	c, err := eri.request.Cookie(name)
	if err != nil {
		return synapse.Cookie{}, err
	}
	return synapse.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		MaxAge:   c.MaxAge,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
		SameSite: synapse.SameSiteMode(c.SameSite),
	}, nil
}

// EchoResponseInterface implements synapse.ResponseInterface for Echo responses
type EchoResponseInterface struct {
	response *echo.Response
	context  echo.Context
}

// Status returns response status code
func (eri *EchoResponseInterface) Status() int {
	return eri.response.Status
}

// SetStatus sets response status code
func (eri *EchoResponseInterface) SetStatus(code int) {
	eri.response.Status = code
}

// Header returns response header value
func (eri *EchoResponseInterface) Header(key string) string {
	return eri.response.Header().Get(key)
}

// SetHeader sets response header
func (eri *EchoResponseInterface) SetHeader(key, value string) {
	eri.response.Header().Set(key, value)
}

// JSON writes JSON response
func (eri *EchoResponseInterface) JSON(code int, i interface{}) error {
	return eri.context.JSON(code, i)
}

// String writes string response
func (eri *EchoResponseInterface) String(code int, s string) error {
	return eri.context.String(code, s)
}

// NoContent writes a response with no body
func (eri *EchoResponseInterface) NoContent(code int) error {
	return eri.context.NoContent(code)
}

// SetCookie sets a cookie
func (eri *EchoResponseInterface) SetCookie(cookie synapse.Cookie) {
	httpCookie := &http.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     cookie.Path,
		Domain:   cookie.Domain,
		Expires:  cookie.Expires,
		MaxAge:   cookie.MaxAge,
		Secure:   cookie.Secure,
		HttpOnly: cookie.HttpOnly,
		SameSite: convertSameSiteToHTTP(cookie.SameSite),
	}
	eri.context.SetCookie(httpCookie)
}

// convertSameSiteToHTTP maps SameSite modes onto net/http values, which
// start at 1 rather than 0
func convertSameSiteToHTTP(mode synapse.SameSiteMode) http.SameSite {
	switch mode {
	case synapse.SameSiteLaxMode:
		return http.SameSiteLaxMode
	case synapse.SameSiteStrictMode:
		return http.SameSiteStrictMode
	case synapse.SameSiteNoneMode:
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}

// Written returns whether response has been written
func (eri *EchoResponseInterface) Written() bool {
	return eri.response.Committed
}

// Writer returns the underlying writer
func (eri *EchoResponseInterface) Writer() interface{} {
	return eri.response.Writer
}
