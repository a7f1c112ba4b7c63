package synapse

import (
	"fmt"
	"log"
	"net/http"
	"time"
)

// RecoverMiddleware converts a panicking handler into a 500 response so
// a single request cannot take down the process
func RecoverMiddleware() MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			defer func() {
				if r := recover(); r != nil {
					if !c.Response().Written() {
						_ = c.Response().JSON(http.StatusInternalServerError,
							map[string]string{"error": fmt.Sprintf("%v", r)})
					}
				}
			}()
			return next(c)
		}
	}
}

// LoggerMiddleware logs one line per request with method, path, status
// and duration
func LoggerMiddleware() MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			start := time.Now()
			err := next(c)
			log.Printf("%s %s -> %d (%v)", c.Method(), c.Path(), c.Response().Status(), time.Since(start))
			return err
		}
	}
}

// CORSMiddleware answers preflight requests and marks every response as
// cross-origin accessible
func CORSMiddleware() MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			res := c.Response()
			res.SetHeader("Access-Control-Allow-Origin", "*")
			res.SetHeader("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			res.SetHeader("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if c.Method() == http.MethodOptions {
				return res.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
