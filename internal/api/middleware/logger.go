// Package middleware provides the middleware for the Echo instance
package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// SetupLoggerMiddleware wires request logging and panic recovery. The count
// endpoint is polled by the page and would drown the log, so it is skipped.
func SetupLoggerMiddleware(e *echo.Echo) {
	e.Use(echomw.LoggerWithConfig(echomw.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/api/signature/count"
		},
		Format: "${time_rfc3339} ip=${remote_ip} method=${method} uri=${uri} status=${status} bytes_out=${bytes_out} latency=${latency_human} error=${error}\n",
	}))
	e.Use(echomw.Recover())
}
