// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for actor ID.
// Exported so it can be used consistently across packages.
type ActorKey struct{}

// RequestIDKey is the context key for the HTTP request id.
type RequestIDKey struct{}

// WithActorID returns a context with the actor ID embedded.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, id)
}

// RequestIDFromContext returns the request id, or empty string if not set.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// EngagementKey is the context key for the engagement being worked on.
type EngagementKey struct{}

// WithEngagementID returns a context scoped to an engagement.
func WithEngagementID(ctx context.Context, engagementID string) context.Context {
	return context.WithValue(ctx, EngagementKey{}, engagementID)
}

// EngagementFromContext returns the engagement ID, or empty string if not set.
func EngagementFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(EngagementKey{}).(string); ok {
		return v
	}
	return ""
}
