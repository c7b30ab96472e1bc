package middleware

import (
	"time"

	"shelfsmart/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// VersionHeader is the response header carrying the client build version.
const VersionHeader = "X-ShelfSmart-Version"

// RequestID reuses an incoming X-Request-ID or assigns a new one, stores it
// on the request context and echoes it in the response. Outbound backend
// calls made while serving the request carry the same id.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(common.RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.SetRequest(req.WithContext(common.WithRequestID(req.Context(), id)))
			c.Response().Header().Set(common.RequestIDHeader, id)
			return next(c)
		}
	}
}

// Version adds the build version to every response.
func Version(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(VersionHeader, version)
			return next(c)
		}
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			requestID, _ := common.GetRequestIDFromContext(req.Context())
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", requestID),
			}
			switch {
			case status >= 500:
				logger.Error("Request failed", append(fields, zap.Error(err))...)
			case status >= 400:
				logger.Warn("Request rejected", fields...)
			default:
				logger.Info("Request handled", fields...)
			}
			return nil
		}
	}
}
