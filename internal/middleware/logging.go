package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes one line per HTTP request. Scoring calls can take tens of
// seconds while the website fetch and model call run, so latency is logged
// for every request.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			log.Printf("request_id=%s method=%s path=%s status=%d ip=%s latency=%s",
				RequestIDFromContext(c), c.Request().Method, c.Request().URL.Path, c.Response().Status, c.RealIP(), latency)

			return err
		}
	}
}
