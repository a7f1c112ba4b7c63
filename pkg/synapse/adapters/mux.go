package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/toyz/synapse/pkg/synapse"
)

// muxWildcardParam is the route variable catch-all segments register under.
// Gorilla has no anonymous wildcards, so {*} becomes a named .* variable.
// Must match what RouteConverter.ToMux emits.
const muxWildcardParam = "rest"

// MuxAdapter implements synapse.WebServerInterface for gorilla/mux
type MuxAdapter struct {
	router *mux.Router
	server *http.Server
}

// NewMuxAdapter creates a new gorilla/mux adapter
func NewMuxAdapter(r *mux.Router) *MuxAdapter {
	return &MuxAdapter{router: r}
}

// NewDefaultMuxAdapter creates a new adapter with a fresh router
func NewDefaultMuxAdapter() *MuxAdapter {
	return &MuxAdapter{router: mux.NewRouter()}
}

// RegisterRoute registers a route with the router
func (ma *MuxAdapter) RegisterRoute(method string, path synapse.SynapsePath, handler synapse.HandlerFunc, middlewares ...synapse.MiddlewareFunc) {
	registerMuxRoute(ma.router, method, path, handler, middlewares)
}

// RegisterGroup creates a subrouter mounted under the given prefix
func (ma *MuxAdapter) RegisterGroup(prefix string) synapse.RouteGroup {
	sub := ma.router.PathPrefix(prefix).Subrouter()
	return &MuxRouteGroup{router: sub, adapter: ma}
}

// Use adds global middleware
func (ma *MuxAdapter) Use(middleware synapse.MiddlewareFunc) {
	ma.router.Use(convertMiddlewareToMux(middleware))
}

// Start starts an http.Server around the router
func (ma *MuxAdapter) Start(addr string) error {
	ma.server = &http.Server{Addr: addr, Handler: ma.router}
	return ma.server.ListenAndServe()
}

// Stop gracefully stops the server
func (ma *MuxAdapter) Stop(ctx context.Context) error {
	if ma.server == nil {
		return nil
	}
	return ma.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ma *MuxAdapter) Name() string {
	return "Mux"
}

// GetRouter returns the underlying router
func (ma *MuxAdapter) GetRouter() *mux.Router {
	return ma.router
}

// MuxRouteGroup implements synapse.RouteGroup over a subrouter
type MuxRouteGroup struct {
	router  *mux.Router
	adapter *MuxAdapter
}

// RegisterRoute registers a route with the subrouter
func (mrg *MuxRouteGroup) RegisterRoute(method string, path synapse.SynapsePath, handler synapse.HandlerFunc, middlewares ...synapse.MiddlewareFunc) {
	registerMuxRoute(mrg.router, method, path, handler, middlewares)
}

// Use adds middleware to the subrouter
func (mrg *MuxRouteGroup) Use(middleware synapse.MiddlewareFunc) {
	mrg.router.Use(convertMiddlewareToMux(middleware))
}

// Group creates a nested subrouter
func (mrg *MuxRouteGroup) Group(prefix string) synapse.RouteGroup {
	sub := mrg.router.PathPrefix(prefix).Subrouter()
	return &MuxRouteGroup{router: sub, adapter: mrg.adapter}
}

// registerMuxRoute composes route middlewares around the handler and mounts
// the result. Middlewares run in declaration order, first one outermost.
func registerMuxRoute(router *mux.Router, method string, path synapse.SynapsePath, handler synapse.HandlerFunc, middlewares []synapse.MiddlewareFunc) {
	h := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	router.HandleFunc(synapse.PathToMux(path), convertHandlerToMux(h)).Methods(method)
}

// convertHandlerToMux converts a synapse handler to an http.HandlerFunc
func convertHandlerToMux(handler synapse.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := newMuxRequestContext(w, r)
		if err := handler(ctx); err != nil {
			writeMuxError(ctx, err)
		}
	}
}

// convertMiddlewareToMux converts a synapse middleware to a mux middleware.
// The wrapped writer and the request carrying the value store are handed to
// the next handler so all layers observe the same request state.
func convertMiddlewareToMux(middleware synapse.MiddlewareFunc) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := newMuxRequestContext(w, r)

			nextFn := func(synapse.RequestContext) error {
				next.ServeHTTP(ctx.writer, ctx.request)
				return nil
			}

			if err := middleware(nextFn)(ctx); err != nil {
				writeMuxError(ctx, err)
			}
		})
	}
}

func writeMuxError(c *MuxRequestContext, err error) {
	if c.writer.written {
		return
	}
	if httpErr, ok := err.(*synapse.HttpError); ok {
		c.Response().JSON(httpErr.StatusCode, httpErr)
		return
	}
	c.Response().JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// muxStore holds per-request values shared between middleware and handler
type muxStore struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

type muxStoreKey struct{}

// ensureMuxStore returns the request's value store, attaching one when the
// request has none yet
func ensureMuxStore(r *http.Request) (*http.Request, *muxStore) {
	if store, ok := r.Context().Value(muxStoreKey{}).(*muxStore); ok {
		return r, store
	}
	store := &muxStore{values: make(map[string]interface{})}
	return r.WithContext(context.WithValue(r.Context(), muxStoreKey{}, store)), store
}

// muxResponseWriter tracks whether a response has been committed
type muxResponseWriter struct {
	http.ResponseWriter
	status  int
	pending int
	written bool
}

func (w *muxResponseWriter) WriteHeader(code int) {
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *muxResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// MuxRequestContext implements synapse.RequestContext for gorilla/mux
type MuxRequestContext struct {
	request *http.Request
	writer  *muxResponseWriter
	store   *muxStore
}

func newMuxRequestContext(w http.ResponseWriter, r *http.Request) *MuxRequestContext {
	r, store := ensureMuxStore(r)
	mw, ok := w.(*muxResponseWriter)
	if !ok {
		mw = &muxResponseWriter{ResponseWriter: w}
	}
	return &MuxRequestContext{request: r, writer: mw, store: store}
}

// Method returns the HTTP method
func (mrc *MuxRequestContext) Method() string {
	return mrc.request.Method
}

// Path returns the request path
func (mrc *MuxRequestContext) Path() string {
	return mrc.request.URL.Path
}

// RealIP returns the client address, honoring proxy headers
func (mrc *MuxRequestContext) RealIP() string {
	if ip := mrc.request.Header.Get("X-Forwarded-For"); ip != "" {
		for i := 0; i < len(ip); i++ {
			if ip[i] == ',' {
				return ip[:i]
			}
		}
		return ip
	}
	if ip := mrc.request.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(mrc.request.RemoteAddr)
	if err != nil {
		return mrc.request.RemoteAddr
	}
	return host
}

// Param returns a route variable by name
func (mrc *MuxRequestContext) Param(key string) string {
	vars := mux.Vars(mrc.request)
	if key == "*" {
		return vars[muxWildcardParam]
	}
	return vars[key]
}

// QueryParam returns a query parameter
func (mrc *MuxRequestContext) QueryParam(key string) string {
	return mrc.request.URL.Query().Get(key)
}

// QueryParams returns all query parameters
func (mrc *MuxRequestContext) QueryParams() map[string][]string {
	return mrc.request.URL.Query()
}

// Query returns the query parameters as a QueryMap
func (mrc *MuxRequestContext) Query() synapse.QueryMap {
	return synapse.NewQueryMap(mrc.request.URL.Query())
}

// Request returns the request interface
func (mrc *MuxRequestContext) Request() synapse.RequestInterface {
	return &MuxRequest{request: mrc.request}
}

// Response returns the response interface
func (mrc *MuxRequestContext) Response() synapse.ResponseInterface {
	return &MuxResponse{writer: mrc.writer}
}

// Bind decodes the JSON body into the provided struct
func (mrc *MuxRequestContext) Bind(i interface{}) error {
	return json.NewDecoder(bytes.NewReader(mrc.Request().Body())).Decode(i)
}

// Get retrieves a request-scoped value
func (mrc *MuxRequestContext) Get(key string) interface{} {
	mrc.store.mu.RLock()
	defer mrc.store.mu.RUnlock()
	return mrc.store.values[key]
}

// Set stores a request-scoped value
func (mrc *MuxRequestContext) Set(key string, val interface{}) {
	mrc.store.mu.Lock()
	defer mrc.store.mu.Unlock()
	mrc.store.values[key] = val
}

// FormValue returns a form value by name
func (mrc *MuxRequestContext) FormValue(name string) string {
	return mrc.request.FormValue(name)
}

// MuxRequest implements synapse.RequestInterface over *http.Request
type MuxRequest struct {
	request *http.Request
}

func (mr *MuxRequest) Header(key string) string {
	return mr.request.Header.Get(key)
}

func (mr *MuxRequest) SetHeader(key, value string) {
	mr.request.Header.Set(key, value)
}

// Body returns the request body. The body is restored afterwards so later
// reads and Bind still see it.
func (mr *MuxRequest) Body() []byte {
	if mr.request.Body == nil {
		return nil
	}
	data, err := io.ReadAll(mr.request.Body)
	if err != nil {
		return nil
	}
	mr.request.Body = io.NopCloser(bytes.NewReader(data))
	return data
}

func (mr *MuxRequest) ContentLength() int64 {
	return mr.request.ContentLength
}

func (mr *MuxRequest) ContentType() string {
	return mr.request.Header.Get("Content-Type")
}

func (mr *MuxRequest) Cookies() []synapse.Cookie {
	cookies := mr.request.Cookies()
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

func (mr *MuxRequest) Cookie(name string) (synapse.Cookie, error) {
	c, err := mr.request.Cookie(name)
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

// MuxResponse implements synapse.ResponseInterface over the tracked writer
type MuxResponse struct {
	writer *muxResponseWriter
}

func (mr *MuxResponse) Status() int {
	if mr.writer.status != 0 {
		return mr.writer.status
	}
	if mr.writer.pending != 0 {
		return mr.writer.pending
	}
	return http.StatusOK
}

// SetStatus records the status code without committing the header
func (mr *MuxResponse) SetStatus(code int) {
	mr.writer.pending = code
}

func (mr *MuxResponse) Header(key string) string {
	return mr.writer.Header().Get(key)
}

func (mr *MuxResponse) SetHeader(key, value string) {
	mr.writer.Header().Set(key, value)
}

func (mr *MuxResponse) JSON(code int, i interface{}) error {
	mr.writer.Header().Set("Content-Type", "application/json")
	mr.writer.WriteHeader(code)
	return json.NewEncoder(mr.writer).Encode(i)
}

func (mr *MuxResponse) String(code int, s string) error {
	mr.writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	mr.writer.WriteHeader(code)
	_, err := io.WriteString(mr.writer, s)
	return err
}

func (mr *MuxResponse) NoContent(code int) error {
	mr.writer.WriteHeader(code)
	return nil
}

func (mr *MuxResponse) SetCookie(cookie synapse.Cookie) {
	http.SetCookie(mr.writer, &http.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     cookie.Path,
		Domain:   cookie.Domain,
		Expires:  cookie.Expires,
		MaxAge:   cookie.MaxAge,
		Secure:   cookie.Secure,
		HttpOnly: cookie.HttpOnly,
		SameSite: convertSameSiteToHTTP(cookie.SameSite),
	})
}

func (mr *MuxResponse) Written() bool {
	return mr.writer.written
}

func (mr *MuxResponse) Writer() interface{} {
	return mr.writer.ResponseWriter
}
