// Package ctxutil carries per-request identifiers through context.Context.
package ctxutil

import "context"

type requestIDsKey struct{}

// RequestIDs identify one inbound request across logs, spans and response headers.
type RequestIDs struct {
	TraceID   string
	RequestID string
}

// Empty reports whether neither id is set.
func (ids RequestIDs) Empty() bool {
	return ids.TraceID == "" && ids.RequestID == ""
}

func WithRequestIDs(ctx context.Context, ids RequestIDs) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDsKey{}, ids)
}

// RequestIDsFrom returns the ids stamped on ctx, or the zero value.
func RequestIDsFrom(ctx context.Context) RequestIDs {
	if ctx == nil {
		return RequestIDs{}
	}
	ids, _ := ctx.Value(requestIDsKey{}).(RequestIDs)
	return ids
}
