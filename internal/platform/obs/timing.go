// Package obs holds the minimal observability helpers: request-id plumbing
// and per-operation timing logs.
package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const requestIDKey ctxKey = "req_id"

// WithRequestID attaches a request id so downstream op logs can be
// correlated with the access log.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the id set by WithRequestID, or "" when the operation
// runs outside a request (background route passes, CLI).
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Time logs the duration of an operation when the returned func is deferred:
//
//	defer obs.Time(ctx, "ors.Geocode")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start).Milliseconds()

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur, *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur)
	}
}
