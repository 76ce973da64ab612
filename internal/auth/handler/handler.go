package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eregister/internal/auth/models"
	"eregister/internal/platform/middleware"
	dErrors "eregister/pkg/domain-errors"
	"eregister/pkg/platform/httputil"
)

// Service answers identity questions for authenticated callers.
type Service interface {
	WhoAmI(ctx context.Context, uid, email string) (models.User, error)
}

// Handler serves the identity endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the identity endpoints; the router wraps them with
// RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me", h.HandleMe)
}

// MeResponse echoes the caller's identity and resolved role.
type MeResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// HandleMe handles GET /api/me.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := middleware.GetUID(ctx)
	if uid == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
		return
	}

	user, err := h.service.WhoAmI(ctx, uid, middleware.GetEmail(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve identity",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to resolve identity"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, MeResponse{
		UID:   user.UID,
		Email: user.Email,
		Role:  string(user.Role),
	})
}
