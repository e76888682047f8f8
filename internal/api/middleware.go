package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"trip-planner-service/internal/platform/obs"
)

// statusWriter records the status code and body size actually sent, so the
// access log reflects what the client saw rather than what the handler meant.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	// Handlers that write without WriteHeader get an implicit 200.
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware tags each request with a short id, threads it through the
// context for the op-timing logs, and writes one access-log line per request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := strings.SplitN(uuid.NewString(), "-", 2)[0]
		ctx := obs.WithRequestID(r.Context(), reqID)

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r.WithContext(ctx))

		log.Printf(
			"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			reqID, r.Method, r.URL.RequestURI(), sw.status, sw.bytes,
			time.Since(start).Milliseconds(),
		)
	})
}
