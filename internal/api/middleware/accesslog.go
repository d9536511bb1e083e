package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/summarygate/internal/api/ctxkeys"
	"github.com/matiasleandrokruk/summarygate/internal/infra/logging"
)

// AccessLog derives a request-scoped logger (tagged with the request ID),
// stores it in the context for downstream code, and logs one line per request.
// Expected order in router: RequestID -> AccessLog -> handlers.
func AccessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger
			if id, ok := ctxkeys.String(r.Context(), ctxkeys.RequestID); ok {
				reqLogger = logger.With(zap.String("request_id", id))
			}

			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(recorder, r.WithContext(logging.WithContext(r.Context(), reqLogger)))

			reqLogger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Flush keeps streaming responses (MCP over SSE) working through the recorder.
func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
