// Package synapse provides the public runtime APIs for the Synapse framework
package synapse

// Response represents an HTTP response with custom status code and body.
// This struct should be used as a return type from route handlers when
// you need to control the HTTP status code and response body.
//
// Example usage:
//
//	func (c *UserController) CreateUser(ctx synapse.RequestContext, args synapse.Args) (any, error) {
//	    // ... create user logic ...
//	    return synapse.Created(createdUser), nil
//	}
type Response struct {
	// StatusCode is the HTTP status code to return (e.g., 200, 201, 404, 500)
	StatusCode int `json:"-"`

	// Body is the response body that will be JSON-encoded and sent to the client
	Body interface{} `json:"body,omitempty"`

	// Headers holds additional response headers to set before the body is written
	Headers map[string]string `json:"-"`

	// Cookies holds cookies to set before the body is written
	Cookies []Cookie `json:"-"`
}

// NewResponse creates a new Response with the specified status code and body
func NewResponse(statusCode int, body interface{}) *Response {
	return &Response{
		StatusCode: statusCode,
		Body:       body,
	}
}

// WithHeader returns the response with an additional header set
func (r *Response) WithHeader(key, value string) *Response {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

// WithCookie returns the response with an additional cookie set
func (r *Response) WithCookie(cookie Cookie) *Response {
	r.Cookies = append(r.Cookies, cookie)
	return r
}

// WithSimpleCookie returns the response with a name/value cookie on path "/"
func (r *Response) WithSimpleCookie(name, value string) *Response {
	return r.WithCookie(Cookie{Name: name, Value: value, Path: "/"})
}

// OK creates a 200 OK response with the given body
func OK(body interface{}) *Response {
	return NewResponse(200, body)
}

// Created creates a 201 Created response with the given body
func Created(body interface{}) *Response {
	return NewResponse(201, body)
}

// NoContent creates a 204 No Content response
func NoContent() *Response {
	return NewResponse(204, nil)
}

// BadRequest creates a 400 Bad Request response with the given error message
func BadRequest(message string) *Response {
	return NewResponse(400, map[string]string{"error": message})
}

// NotFound creates a 404 Not Found response with the given error message
func NotFound(message string) *Response {
	return NewResponse(404, map[string]string{"error": message})
}

// InternalServerError creates a 500 Internal Server Error response with the given error message
func InternalServerError(message string) *Response {
	return NewResponse(500, map[string]string{"error": message})
}
