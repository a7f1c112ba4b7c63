package adapters

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toyz/synapse/pkg/synapse"
)

// GinAdapter implements synapse.WebServerInterface for Gin framework
type GinAdapter struct {
	engine *gin.Engine
	server *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a new Gin adapter with default Gin instance
func NewDefaultGinAdapter() *GinAdapter {
	return &GinAdapter{engine: gin.Default()}
}

// RegisterRoute registers a route with the Gin server
func (ga *GinAdapter) RegisterRoute(method string, path synapse.SynapsePath, handler synapse.HandlerFunc, middlewares ...synapse.MiddlewareFunc) {
	ginHandler := ga.convertHandler(handler)

	var ginMiddlewares []gin.HandlerFunc
	for _, middleware := range middlewares {
		ginMiddlewares = append(ginMiddlewares, ga.convertMiddleware(middleware))
	}

	handlers := append(ginMiddlewares, ginHandler)
	ga.engine.Handle(method, synapse.PathToGin(path), handlers...)
}

// RegisterGroup registers a route group with the Gin server
func (ga *GinAdapter) RegisterGroup(prefix string) synapse.RouteGroup {
	ginGroup := ga.engine.Group(prefix)
	return &GinRouteGroup{group: ginGroup, adapter: ga}
}

// Use registers a global middleware with the Gin server
func (ga *GinAdapter) Use(middleware synapse.MiddlewareFunc) {
	ga.engine.Use(ga.convertMiddleware(middleware))
}

// Start starts the Gin server
func (ga *GinAdapter) Start(addr string) error {
	// Gin's Run does not expose a shutdown handle, so wrap the engine in
	// an http.Server we can stop later
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	return ga.server.ListenAndServe()
}

// Stop gracefully stops the Gin server
func (ga *GinAdapter) Stop(ctx context.Context) error {
	if ga.server == nil {
		return nil
	}
	return ga.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}

// GinRouteGroup implements synapse.RouteGroup for Gin
type GinRouteGroup struct {
	group   *gin.RouterGroup
	adapter *GinAdapter
}

// RegisterRoute registers a route within the group
func (grg *GinRouteGroup) RegisterRoute(method string, path synapse.SynapsePath, handler synapse.HandlerFunc, middlewares ...synapse.MiddlewareFunc) {
	ginHandler := grg.adapter.convertHandler(handler)

	var ginMiddlewares []gin.HandlerFunc
	for _, middleware := range middlewares {
		ginMiddlewares = append(ginMiddlewares, grg.adapter.convertMiddleware(middleware))
	}

	handlers := append(ginMiddlewares, ginHandler)
	grg.group.Handle(method, synapse.PathToGin(path), handlers...)
}

// Use registers middleware with the group
func (grg *GinRouteGroup) Use(middleware synapse.MiddlewareFunc) {
	grg.group.Use(grg.adapter.convertMiddleware(middleware))
}

// Group creates a sub-group
func (grg *GinRouteGroup) Group(prefix string) synapse.RouteGroup {
	subGroup := grg.group.Group(prefix)
	return &GinRouteGroup{group: subGroup, adapter: grg.adapter}
}

// convertHandler converts synapse.HandlerFunc to gin.HandlerFunc
func (ga *GinAdapter) convertHandler(handler synapse.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestContext := &GinRequestContext{ctx: c}
		if err := handler(requestContext); err != nil {
			if httpErr, ok := err.(*synapse.HttpError); ok {
				c.JSON(httpErr.StatusCode, httpErr)
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
		}
	}
}

// convertMiddleware converts synapse.MiddlewareFunc to gin.HandlerFunc
func (ga *GinAdapter) convertMiddleware(middleware synapse.MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestContext := &GinRequestContext{ctx: c}

		next := func(rc synapse.RequestContext) error {
			c.Next()
			return nil
		}

		wrappedHandler := middleware(next)
		if err := wrappedHandler(requestContext); err != nil {
			if httpErr, ok := err.(*synapse.HttpError); ok {
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
		}
	}
}

// GinRequestContext implements synapse.RequestContext for Gin
type GinRequestContext struct {
	ctx *gin.Context
}

// Method returns the HTTP method
func (grc *GinRequestContext) Method() string {
	return grc.ctx.Request.Method
}

// Path returns the request path
func (grc *GinRequestContext) Path() string {
	return grc.ctx.Request.URL.Path
}

// RealIP returns the real IP address
func (grc *GinRequestContext) RealIP() string {
	return grc.ctx.ClientIP()
}

// Param returns a path parameter
func (grc *GinRequestContext) Param(name string) string {
	if name == "*" || name == "path" {
		// Catch-alls register as *path, and Gin keeps the leading slash
		value := grc.ctx.Param("path")
		if len(value) > 0 && value[0] == '/' {
			return value[1:]
		}
		return value
	}
	return grc.ctx.Param(name)
}

// QueryParam returns a query parameter
func (grc *GinRequestContext) QueryParam(name string) string {
	return grc.ctx.Query(name)
}

// QueryParams returns all query parameters
func (grc *GinRequestContext) QueryParams() map[string][]string {
	return grc.ctx.Request.URL.Query()
}

// Query returns the query parameters as a QueryMap
func (grc *GinRequestContext) Query() synapse.QueryMap {
	return synapse.NewQueryMap(grc.ctx.Request.URL.Query())
}

// Request returns the request interface
func (grc *GinRequestContext) Request() synapse.RequestInterface {
	return &GinRequestInterface{ctx: grc.ctx}
}

// Response returns the response interface
func (grc *GinRequestContext) Response() synapse.ResponseInterface {
	return &GinResponseInterface{ctx: grc.ctx}
}

// Bind binds request body to a struct
func (grc *GinRequestContext) Bind(i interface{}) error {
	return grc.ctx.ShouldBindJSON(i)
}

// Get returns a value from context
func (grc *GinRequestContext) Get(key string) interface{} {
	value, _ := grc.ctx.Get(key)
	return value
}

// Set sets a value in context
func (grc *GinRequestContext) Set(key string, val interface{}) {
	grc.ctx.Set(key, val)
}

// FormValue returns a form value
func (grc *GinRequestContext) FormValue(name string) string {
	return grc.ctx.PostForm(name)
}

// GinRequestInterface implements synapse.RequestInterface for Gin
type GinRequestInterface struct {
	ctx *gin.Context
}

// Header returns a request header
func (gri *GinRequestInterface) Header(key string) string {
	return gri.ctx.GetHeader(key)
}

// SetHeader sets a request header
func (gri *GinRequestInterface) SetHeader(key, value string) {
	gri.ctx.Request.Header.Set(key, value)
}

// Body returns the request body. The body is restored afterwards so later
// reads and Bind still see it.
func (gri *GinRequestInterface) Body() []byte {
	if gri.ctx.Request.Body == nil {
		return nil
	}
	body, err := io.ReadAll(gri.ctx.Request.Body)
	if err != nil {
		return nil
	}
	gri.ctx.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body
}

// ContentLength returns the content length
func (gri *GinRequestInterface) ContentLength() int64 {
	return gri.ctx.Request.ContentLength
}

// ContentType returns the content type
func (gri *GinRequestInterface) ContentType() string {
	return gri.ctx.ContentType()
}

// Cookies returns the request cookies
func (gri *GinRequestInterface) Cookies() []synapse.Cookie {
	var cookies []synapse.Cookie
	for _, cookie := range gri.ctx.Request.Cookies() {
		cookies = append(cookies, synapse.Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     cookie.Path,
			Domain:   cookie.Domain,
			MaxAge:   cookie.MaxAge,
			Secure:   cookie.Secure,
			HttpOnly: cookie.HttpOnly,
			SameSite: convertGinSameSite(cookie.SameSite),
		})
	}
	return cookies
}

// Cookie returns a specific cookie
func (gri *GinRequestInterface) Cookie(name string) (synapse.Cookie, error) {
	value, err := gri.ctx.Cookie(name)
	if err != nil {
		return synapse.Cookie{}, err
	}

	// Only the value comes back from Gin, so find the full cookie
	for _, c := range gri.ctx.Request.Cookies() {
		if c.Name == name {
			return synapse.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				Domain:   c.Domain,
				MaxAge:   c.MaxAge,
				Secure:   c.Secure,
				HttpOnly: c.HttpOnly,
				SameSite: convertGinSameSite(c.SameSite),
			}, nil
		}
	}

	return synapse.Cookie{Name: name, Value: value}, nil
}

// GinResponseInterface implements synapse.ResponseInterface for Gin
type GinResponseInterface struct {
	ctx *gin.Context
}

// Status returns the response status code
func (gri *GinResponseInterface) Status() int {
	return gri.ctx.Writer.Status()
}

// SetStatus sets the response status code
func (gri *GinResponseInterface) SetStatus(code int) {
	gri.ctx.Status(code)
}

// Header returns a response header
func (gri *GinResponseInterface) Header(key string) string {
	return gri.ctx.Writer.Header().Get(key)
}

// SetHeader sets a response header
func (gri *GinResponseInterface) SetHeader(key, value string) {
	gri.ctx.Header(key, value)
}

// JSON writes a JSON response
func (gri *GinResponseInterface) JSON(code int, i interface{}) error {
	gri.ctx.JSON(code, i)
	return nil
}

// String writes a string response
func (gri *GinResponseInterface) String(code int, s string) error {
	gri.ctx.String(code, s)
	return nil
}

// NoContent writes a response with no body
func (gri *GinResponseInterface) NoContent(code int) error {
	gri.ctx.Status(code)
	gri.ctx.Writer.WriteHeaderNow()
	return nil
}

// SetCookie sets a response cookie
func (gri *GinResponseInterface) SetCookie(cookie synapse.Cookie) {
	maxAge := cookie.MaxAge
	if cookie.MaxAge == 0 && !cookie.Expires.IsZero() {
		maxAge = int(time.Until(cookie.Expires).Seconds())
	}

	gri.ctx.SetCookie(
		cookie.Name,
		cookie.Value,
		maxAge,
		cookie.Path,
		cookie.Domain,
		cookie.Secure,
		cookie.HttpOnly,
	)
}

// Written returns whether the response has been written
func (gri *GinResponseInterface) Written() bool {
	return gri.ctx.Writer.Written()
}

// Writer returns the underlying response writer
func (gri *GinResponseInterface) Writer() interface{} {
	return gri.ctx.Writer
}

// convertGinSameSite converts http.SameSite to synapse.SameSiteMode
func convertGinSameSite(sameSite http.SameSite) synapse.SameSiteMode {
	switch sameSite {
	case http.SameSiteStrictMode:
		return synapse.SameSiteStrictMode
	case http.SameSiteLaxMode:
		return synapse.SameSiteLaxMode
	case http.SameSiteNoneMode:
		return synapse.SameSiteNoneMode
	default:
		return synapse.SameSiteDefaultMode
	}
}
