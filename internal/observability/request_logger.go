package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// UnmatchedRoute labels requests that reached no registered route.
const UnmatchedRoute = "unmatched"

// RouteLabel returns the registered route pattern of the request as a metric
// label. Fiber strings alias pooled buffers, so the label is copied before it
// is stored in a collector.
func RouteLabel(c *fiber.Ctx) string {
	route := c.Route().Path
	if route == "" {
		return UnmatchedRoute
	}
	return utils.CopyString(route)
}

// MethodLabel copies the request method for use as a metric label.
func MethodLabel(c *fiber.Ctx) string {
	return utils.CopyString(c.Method())
}

// RequestLogger logs every request and records request metrics. Register it
// outside the error middleware so the final status is observed.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		metrics.RecordRequest(RouteLabel(c), MethodLabel(c), status, duration)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
		return err
	}
}
