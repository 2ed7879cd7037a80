package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.com/peopleclay/api/push-activity-service/internal/observer"
	"gitlab.com/peopleclay/api/push-activity-service/internal/reqctx"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps an API handler with request-ID propagation, access
// logging and request metrics. The route pattern keeps the metric label
// cardinality bounded.
func (s *Server) instrument(pattern string, handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := reqctx.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := utils.Now()

		handler(recorder, r.WithContext(ctx))

		duration := utils.Now().Sub(start)
		observer.RecordHTTPRequest(r.Method, pattern, strconv.Itoa(recorder.status), duration)
		logger.FromContext(ctx).Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("duration", duration))
	})
}
