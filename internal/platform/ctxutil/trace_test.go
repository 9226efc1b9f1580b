package ctxutil

import (
	"context"
	"testing"
)

func TestRequestIDsRoundTrip(t *testing.T) {
	ctx := WithRequestIDs(context.Background(), RequestIDs{TraceID: "t-1", RequestID: "r-1"})
	got := RequestIDsFrom(ctx)
	if got.TraceID != "t-1" || got.RequestID != "r-1" {
		t.Fatalf("unexpected ids: %+v", got)
	}
}

func TestRequestIDsFromBareContext(t *testing.T) {
	if ids := RequestIDsFrom(context.Background()); !ids.Empty() {
		t.Fatalf("expected empty ids, got %+v", ids)
	}
	if ids := RequestIDsFrom(nil); !ids.Empty() {
		t.Fatalf("expected empty ids for nil ctx, got %+v", ids)
	}
}
