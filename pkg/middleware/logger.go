package middleware

import (
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Logger writes one access log line per request, tagged with the request id
// and the active trace.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = res.Header().Get(echo.HeaderXRequestID)
			}
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			logger.WithContext(ctx).WithFields(map[string]any{
				"request_id":    requestID,
				"trace_id":      tracing.GetTraceID(ctx),
				"method":        req.Method,
				"uri":           req.RequestURI,
				"route":         c.Path(),
				"status":        res.Status,
				"remote_ip":     c.RealIP(),
				"host":          req.Host,
				"user_agent":    req.UserAgent(),
				"referer":       req.Referer(),
				"response_time": elapsed,
				"request_size":  req.Header.Get(echo.HeaderContentLength),
				"response_size": strconv.FormatInt(res.Size, 10),
			}).Info("Request")

			return nil
		}
	}
}
