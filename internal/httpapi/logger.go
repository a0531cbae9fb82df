package httpapi

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
)

// Color codes for terminal output.
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	gray   = "\033[90m"
)

// ColorizedLogger returns a middleware that prints one colorized line
// per request to stdout: time, status, method, latency, path and the
// request ID assigned by echomiddleware.RequestID.
func ColorizedLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			latency := time.Since(start)

			fmt.Printf("%s%s%s %s%3d%s %s%-7s%s %s%9s%s %s %s%s%s\n",
				gray, start.Format("15:04:05"), reset,
				statusColor(res.Status), res.Status, reset,
				cyan, req.Method, reset,
				latencyColor(latency), formatLatency(latency), reset,
				req.URL.Path,
				gray, res.Header().Get(echo.HeaderXRequestID), reset,
			)

			return err
		}
	}
}

func statusColor(status int) string {
	switch {
	case status >= 200 && status < 300:
		return green
	case status >= 300 && status < 400:
		return cyan
	case status >= 400 && status < 500:
		return yellow
	default:
		return red
	}
}

func latencyColor(latency time.Duration) string {
	switch {
	case latency < 10*time.Millisecond:
		return green
	case latency < 100*time.Millisecond:
		return yellow
	default:
		return red
	}
}

func formatLatency(latency time.Duration) string {
	switch {
	case latency < time.Microsecond:
		return fmt.Sprintf("%dns", latency.Nanoseconds())
	case latency < time.Millisecond:
		return fmt.Sprintf("%dµs", latency.Microseconds())
	case latency < time.Second:
		return fmt.Sprintf("%dms", latency.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", latency.Seconds())
	}
}
