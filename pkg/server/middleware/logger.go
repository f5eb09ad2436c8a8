package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/de-tools/txn-atlas/pkg/metrics"
)

// Logger binds a request-scoped zerolog logger into the context, logs
// each completed request, and feeds the request metrics.
func Logger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Logger()

			ctx := reqLogger.WithContext(req.Context())
			req = req.WithContext(ctx)

			ww := chimiddleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, req)

			elapsed := time.Since(start)
			metrics.ObserveRequest(req.URL.Path, strconv.Itoa(ww.Status()), elapsed)
			reqLogger.Info().
				Int("status", ww.Status()).
				Dur("elapsed", elapsed).
				Msg("request completed")
		})
	}
}
