package ctxutil

import (
	"context"
	"testing"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := ActorFromContext(ctx); got != "" {
		t.Errorf("expected empty actor, got %q", got)
	}
	ctx = WithActorID(ctx, "consultor@see.cl")
	if got := ActorFromContext(ctx); got != "consultor@see.cl" {
		t.Errorf("ActorFromContext = %q", got)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}

func TestEngagementRoundTrip(t *testing.T) {
	ctx := WithEngagementID(WithActorID(context.Background(), "a"), "ENG-007")
	if got := EngagementFromContext(ctx); got != "ENG-007" {
		t.Errorf("EngagementFromContext = %q", got)
	}
	if got := ActorFromContext(ctx); got != "a" {
		t.Errorf("actor lost when scoping engagement: %q", got)
	}
}
