package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLength = 128

type requestIDKey struct{}

// RequestID echoes the caller's X-Request-ID, or generates one, and stores
// it in the request context. Each handled operation is logged at debug level.
func RequestID(ctx huma.Context, next func(huma.Context)) {
	id := ctx.Header(HeaderRequestID)
	if id == "" || len(id) > maxRequestIDLength {
		id = uuid.NewString()
	}
	ctx.SetHeader(HeaderRequestID, id)

	start := time.Now()
	next(huma.WithValue(ctx, requestIDKey{}, id))

	u := ctx.URL()
	slog.Debug("Request handled",
		"operation", ctx.Operation().OperationID,
		"method", ctx.Method(),
		"path", u.Path,
		"request_id", id,
		"duration", time.Since(start),
	)
}

// RequestIDFromContext returns the request ID stored by RequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
