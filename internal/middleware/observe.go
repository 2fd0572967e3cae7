package middleware

import (
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/commerce/pkg/metrics"
)

// Observe records request count and latency per matched route and logs
// server errors. Routes are labelled by their pattern, never by raw path.
func Observe(m *metrics.Metrics, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)

			route, _ := ctx.UserValue(router.MatchedRoutePathParam).(string)
			if route == "" {
				route = "unmatched"
			}
			status := ctx.Response.StatusCode()
			elapsed := time.Since(start)
			m.ObserveRequest(string(ctx.Method())+" "+route, status, elapsed)

			if status >= fasthttp.StatusInternalServerError {
				logger.Warn("request failed",
					zap.String("method", string(ctx.Method())),
					zap.String("route", route),
					zap.Int("status", status),
					zap.Duration("elapsed", elapsed),
					zap.ByteString("request_id", ctx.Response.Header.Peek("X-Request-ID")),
				)
			}
		}
	}
}
