package aggregates

import (
	"testing"

	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
)

func TestRequireStateAllowed(t *testing.T) {
	if err := RequireStateAllowed("draft", "nope", "draft"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := RequireStateAllowed("live", "only draft courses can be made live", "draft")
	if !domainagg.IsCode(err, domainagg.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
	if domainagg.MessageOf(err) != "only draft courses can be made live" {
		t.Fatalf("message: %q", domainagg.MessageOf(err))
	}
}

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireCASSuccess(false, "stale"); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}
