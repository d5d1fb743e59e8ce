package logging

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger scopes a logger to each request, tagged with its method, path
// and the ID assigned by the request ID middleware, which must run first.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chimiddleware.GetReqID(r.Context())
			fields := []zap.Field{zap.String("method", r.Method), zap.String("path", r.URL.Path)}
			if id != "" {
				fields = append(fields, zap.String("requestId", id))
			}
			ctx := contextWithLogger(contextWithRequestID(r.Context(), id), Logger().With(fields...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLogger writes one summary line per request through the request's
// logger. Client errors log at warn level and server errors at error level.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if ce := LoggerFromContext(r.Context()).Check(accessLevel(status), "request completed"); ce != nil {
				ce.Write(
					zap.Int("status", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

func accessLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
