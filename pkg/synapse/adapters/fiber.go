package adapters

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/toyz/synapse/pkg/synapse"
)

// fiberWrittenKey marks a request whose response has been produced through
// the synapse response interface. Fasthttp pre-sets the status code, so the
// code alone cannot tell an untouched response from a written one.
const fiberWrittenKey = "synapse_response_written"

// FiberAdapter wraps a Fiber app to implement synapse.WebServerInterface
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter instance
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if httpErr, ok := err.(*synapse.HttpError); ok {
				return c.Status(httpErr.StatusCode).JSON(httpErr)
			}
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a new Fiber adapter with default middleware
func NewDefaultFiberAdapter() *FiberAdapter {
	adapter := NewFiberAdapter()

	adapter.app.Use(logger.New())
	adapter.app.Use(recover.New())

	return adapter
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method string, path synapse.SynapsePath, handler synapse.HandlerFunc, middlewares ...synapse.MiddlewareFunc) {
	registerFiberRoute(fa.app, method, synapse.PathToFiber(path), handler, middlewares)
}

// RegisterGroup creates a new route group with the given prefix
func (fa *FiberAdapter) RegisterGroup(prefix string) synapse.RouteGroup {
	fiberGroup := fa.app.Group(prefix)
	return &FiberRouteGroup{group: fiberGroup, adapter: fa}
}

// Use adds middleware to the Fiber app
func (fa *FiberAdapter) Use(middleware synapse.MiddlewareFunc) {
	fa.app.Use(convertMiddlewareToFiber(middleware))
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the Fiber server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}

// FiberRouteGroup wraps a Fiber route group to implement synapse.RouteGroup
type FiberRouteGroup struct {
	group   fiber.Router
	adapter *FiberAdapter
}

// RegisterRoute registers a route with this group
func (frg *FiberRouteGroup) RegisterRoute(method string, path synapse.SynapsePath, handler synapse.HandlerFunc, middlewares ...synapse.MiddlewareFunc) {
	registerFiberRoute(frg.group, method, synapse.PathToFiber(path), handler, middlewares)
}

// Use adds middleware to this route group
func (frg *FiberRouteGroup) Use(middleware synapse.MiddlewareFunc) {
	frg.group.Use(convertMiddlewareToFiber(middleware))
}

// Group creates a sub-group with the given prefix
func (frg *FiberRouteGroup) Group(prefix string) synapse.RouteGroup {
	subGroup := frg.group.Group(prefix)
	return &FiberRouteGroup{group: subGroup, adapter: frg.adapter}
}

// registerFiberRoute mounts a handler and its middlewares on a Fiber router
func registerFiberRoute(router fiber.Router, method, path string, handler synapse.HandlerFunc, middlewares []synapse.MiddlewareFunc) {
	var handlers []fiber.Handler
	for _, mw := range middlewares {
		handlers = append(handlers, convertMiddlewareToFiber(mw))
	}
	handlers = append(handlers, convertHandlerToFiber(handler))

	switch strings.ToUpper(method) {
	case "GET":
		router.Get(path, handlers...)
	case "POST":
		router.Post(path, handlers...)
	case "PUT":
		router.Put(path, handlers...)
	case "DELETE":
		router.Delete(path, handlers...)
	case "PATCH":
		router.Patch(path, handlers...)
	case "OPTIONS":
		router.Options(path, handlers...)
	case "HEAD":
		router.Head(path, handlers...)
	}
}

// convertHandlerToFiber converts a synapse handler to a Fiber handler
func convertHandlerToFiber(handler synapse.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		synapseCtx := &FiberRequestContext{ctx: c}

		err := handler(synapseCtx)
		if err != nil {
			if httpErr, ok := err.(*synapse.HttpError); ok {
				return c.Status(httpErr.StatusCode).JSON(httpErr)
			}
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return nil
	}
}

// convertMiddlewareToFiber converts a synapse middleware to a Fiber middleware
func convertMiddlewareToFiber(middleware synapse.MiddlewareFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		synapseCtx := &FiberRequestContext{ctx: c}

		err := middleware(func(ctx synapse.RequestContext) error {
			return c.Next()
		})(synapseCtx)

		if err != nil {
			if httpErr, ok := err.(*synapse.HttpError); ok {
				return c.Status(httpErr.StatusCode).JSON(httpErr)
			}
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return nil
	}
}

// FiberRequestContext wraps fiber.Ctx to implement synapse.RequestContext
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

func (frc *FiberRequestContext) RealIP() string {
	return frc.ctx.IP()
}

func (frc *FiberRequestContext) Param(name string) string {
	return frc.ctx.Params(name)
}

func (frc *FiberRequestContext) QueryParam(key string) string {
	return frc.ctx.Query(key)
}

func (frc *FiberRequestContext) QueryParams() map[string][]string {
	result := make(map[string][]string)
	frc.ctx.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		keyStr := string(key)
		result[keyStr] = append(result[keyStr], string(value))
	})
	return result
}

func (frc *FiberRequestContext) Query() synapse.QueryMap {
	return synapse.NewQueryMap(url.Values(frc.QueryParams()))
}

func (frc *FiberRequestContext) Request() synapse.RequestInterface {
	return &FiberRequest{ctx: frc.ctx}
}

func (frc *FiberRequestContext) Response() synapse.ResponseInterface {
	return &FiberResponse{ctx: frc.ctx}
}

func (frc *FiberRequestContext) Bind(obj interface{}) error {
	return frc.ctx.BodyParser(obj)
}

func (frc *FiberRequestContext) Get(key string) interface{} {
	return frc.ctx.Locals(key)
}

func (frc *FiberRequestContext) Set(key string, val interface{}) {
	frc.ctx.Locals(key, val)
}

func (frc *FiberRequestContext) FormValue(name string) string {
	return frc.ctx.FormValue(name)
}

// FiberRequest wraps fiber.Ctx to implement synapse.RequestInterface
type FiberRequest struct {
	ctx *fiber.Ctx
}

func (fr *FiberRequest) Header(key string) string {
	return fr.ctx.Get(key)
}

func (fr *FiberRequest) SetHeader(key, value string) {
	fr.ctx.Request().Header.Set(key, value)
}

func (fr *FiberRequest) Body() []byte {
	return fr.ctx.Body()
}

func (fr *FiberRequest) ContentLength() int64 {
	return int64(len(fr.ctx.Body()))
}

func (fr *FiberRequest) ContentType() string {
	return fr.ctx.Get(fiber.HeaderContentType)
}

func (fr *FiberRequest) Cookies() []synapse.Cookie {
	var cookies []synapse.Cookie
	fr.ctx.Request().Header.VisitAllCookie(func(key, value []byte) {
		cookies = append(cookies, synapse.Cookie{
			Name:  string(key),
			Value: string(value),
		})
	})
	return cookies
}

func (fr *FiberRequest) Cookie(name string) (synapse.Cookie, error) {
	value := fr.ctx.Cookies(name)
	if value == "" {
		return synapse.Cookie{}, http.ErrNoCookie
	}
	return synapse.Cookie{
		Name:  name,
		Value: value,
	}, nil
}

// FiberResponse wraps fiber.Ctx to implement synapse.ResponseInterface
type FiberResponse struct {
	ctx *fiber.Ctx
}

func (fr *FiberResponse) Status() int {
	return fr.ctx.Response().StatusCode()
}

func (fr *FiberResponse) SetStatus(code int) {
	fr.ctx.Status(code)
}

func (fr *FiberResponse) Header(key string) string {
	return string(fr.ctx.Response().Header.Peek(key))
}

func (fr *FiberResponse) SetHeader(name, value string) {
	fr.ctx.Set(name, value)
}

func (fr *FiberResponse) JSON(code int, data interface{}) error {
	fr.markWritten()
	return fr.ctx.Status(code).JSON(data)
}

func (fr *FiberResponse) String(code int, s string) error {
	fr.markWritten()
	return fr.ctx.Status(code).SendString(s)
}

func (fr *FiberResponse) NoContent(code int) error {
	// SendStatus would fill the body with the status text
	fr.markWritten()
	fr.ctx.Status(code)
	fr.ctx.Response().ResetBody()
	return nil
}

func (fr *FiberResponse) SetCookie(cookie synapse.Cookie) {
	fiberCookie := &fiber.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     cookie.Path,
		Domain:   cookie.Domain,
		Expires:  cookie.Expires,
		MaxAge:   cookie.MaxAge,
		Secure:   cookie.Secure,
		HTTPOnly: cookie.HttpOnly,
	}

	switch cookie.SameSite {
	case synapse.SameSiteStrictMode:
		fiberCookie.SameSite = "Strict"
	case synapse.SameSiteNoneMode:
		fiberCookie.SameSite = "None"
	default:
		fiberCookie.SameSite = "Lax"
	}

	fr.ctx.Cookie(fiberCookie)
}

func (fr *FiberResponse) Written() bool {
	return fr.ctx.Locals(fiberWrittenKey) != nil
}

func (fr *FiberResponse) Writer() interface{} {
	return fr.ctx.Response().BodyWriter()
}

func (fr *FiberResponse) markWritten() {
	fr.ctx.Locals(fiberWrittenKey, true)
}
