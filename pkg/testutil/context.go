package testutil

import (
	"context"
	"net/http"

	"eregister/internal/platform/middleware"
)

// WithUID adds an authenticated uid to the request context, simulating what
// the auth middleware does for a valid bearer token.
func WithUID(req *http.Request, uid string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUID, uid)
	return req.WithContext(ctx)
}

// WithAuth adds uid, email, and role to the request context. This is the
// typical state inside the admin route group.
func WithAuth(req *http.Request, uid, email, role string) *http.Request {
	ctx := req.Context()
	if uid != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeyUID, uid)
	}
	if email != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeyEmail, email)
	}
	if role != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeyRole, role)
	}
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
