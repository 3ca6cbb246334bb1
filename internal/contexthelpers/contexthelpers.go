// Package contexthelpers stores request scoped values in the request context.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

const (
	cspNonceContextKey = contextKey("cspNonce")
	traceIDContextKey  = contextKey("traceID")
)

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), cspNonceContextKey, cspNonce))
}

func CSPNonce(ctx context.Context) string {
	cspNonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}
	return cspNonce
}

// SetTraceID stores the id used to correlate the log lines and error responses of one request.
func SetTraceID(r *http.Request, traceID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), traceIDContextKey, traceID))
}

func TraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(traceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
