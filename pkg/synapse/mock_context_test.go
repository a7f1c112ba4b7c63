package synapse

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// mockRequest implements RequestInterface for tests
type mockRequest struct {
	headers map[string]string
	body    []byte
	cookies []Cookie
}

func (m *mockRequest) Header(key string) string {
	return m.headers[key]
}

func (m *mockRequest) SetHeader(key, value string) {
	m.headers[key] = value
}

func (m *mockRequest) Body() []byte {
	return m.body
}

func (m *mockRequest) ContentLength() int64 {
	return int64(len(m.body))
}

func (m *mockRequest) ContentType() string {
	return m.headers["Content-Type"]
}

func (m *mockRequest) Cookie(name string) (Cookie, error) {
	for _, c := range m.cookies {
		if c.Name == name {
			return c, nil
		}
	}
	return Cookie{}, http.ErrNoCookie
}

func (m *mockRequest) Cookies() []Cookie {
	return m.cookies
}

// mockResponse implements ResponseInterface and records everything written
// to it. lastWrite distinguishes a JSON body from an explicit no-content
// response.
type mockResponse struct {
	status    int
	headers   map[string]string
	cookies   []Cookie
	payload   interface{}
	text      string
	written   bool
	lastWrite string
	writes    int
}

func (m *mockResponse) Status() int {
	return m.status
}

func (m *mockResponse) SetStatus(code int) {
	m.status = code
}

func (m *mockResponse) Header(key string) string {
	return m.headers[key]
}

func (m *mockResponse) SetHeader(key, value string) {
	m.headers[key] = value
}

func (m *mockResponse) JSON(code int, i interface{}) error {
	m.status = code
	m.payload = i
	m.written = true
	m.lastWrite = "json"
	m.writes++
	return nil
}

func (m *mockResponse) String(code int, s string) error {
	m.status = code
	m.text = s
	m.written = true
	m.lastWrite = "string"
	m.writes++
	return nil
}

func (m *mockResponse) NoContent(code int) error {
	m.status = code
	m.written = true
	m.lastWrite = "nocontent"
	m.writes++
	return nil
}

func (m *mockResponse) SetCookie(cookie Cookie) {
	m.cookies = append(m.cookies, cookie)
}

func (m *mockResponse) Written() bool {
	return m.written
}

func (m *mockResponse) Writer() interface{} {
	return nil
}

// mockContext implements RequestContext for tests
type mockContext struct {
	method   string
	path     string
	params   map[string]string
	query    url.Values
	values   map[string]interface{}
	request  *mockRequest
	response *mockResponse
}

func newMockContext(method, path string) *mockContext {
	return &mockContext{
		method:   method,
		path:     path,
		params:   make(map[string]string),
		query:    make(url.Values),
		values:   make(map[string]interface{}),
		request:  &mockRequest{headers: make(map[string]string)},
		response: &mockResponse{headers: make(map[string]string)},
	}
}

func (m *mockContext) Method() string {
	return m.method
}

func (m *mockContext) Path() string {
	return m.path
}

func (m *mockContext) RealIP() string {
	return "127.0.0.1"
}

func (m *mockContext) Param(key string) string {
	return m.params[key]
}

func (m *mockContext) QueryParam(key string) string {
	return m.query.Get(key)
}

func (m *mockContext) QueryParams() map[string][]string {
	return m.query
}

func (m *mockContext) Query() QueryMap {
	return NewQueryMap(m.query)
}

func (m *mockContext) Request() RequestInterface {
	return m.request
}

func (m *mockContext) Response() ResponseInterface {
	return m.response
}

func (m *mockContext) Bind(i interface{}) error {
	return json.Unmarshal(m.request.body, i)
}

func (m *mockContext) Get(key string) interface{} {
	return m.values[key]
}

func (m *mockContext) Set(key string, val interface{}) {
	m.values[key] = val
}

func (m *mockContext) FormValue(name string) string {
	return ""
}
