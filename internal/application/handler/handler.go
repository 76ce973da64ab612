package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eregister/internal/application/models"
	"eregister/internal/application/service"
	"eregister/internal/platform/middleware"
	dErrors "eregister/pkg/domain-errors"
	"eregister/pkg/platform/httputil"
)

// Service defines the application lifecycle operations the HTTP layer needs.
type Service interface {
	Submit(ctx context.Context, uid string, sub models.Submission) (models.Application, error)
	Status(ctx context.Context, uid string) (models.Application, error)
	List(ctx context.Context) ([]models.Application, error)
	Review(ctx context.Context, caller service.Caller, targetUID string, decision models.Status) (models.Application, error)
	Verify(ctx context.Context, uid string) (models.Application, error)
}

// Handler wires application endpoints to the lifecycle service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterCitizen mounts the authenticated applicant endpoints.
func (h *Handler) RegisterCitizen(r chi.Router) {
	r.Get("/status", h.HandleStatus)
	r.Post("/apply", h.HandleApply)
}

// RegisterAdmin mounts the reviewer endpoints; the router guards them with
// the superuser middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/applications", h.HandleAdminList)
	r.Post("/review/{uid}", h.HandleAdminReview)
}

// RegisterPublic mounts the unauthenticated QR verification endpoint.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/verify/{uid}", h.HandleVerify)
}

// HandleStatus handles GET /api/status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := middleware.GetUID(ctx)
	if uid == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
		return
	}

	app, err := h.service.Status(ctx, uid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

// HandleApply handles POST /api/apply.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	uid := middleware.GetUID(ctx)
	if uid == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
		return
	}

	sub, err := parseSubmission(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected application form",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.Submit(ctx, uid, sub)
	if err != nil {
		h.logger.WarnContext(ctx, "application submission failed",
			"request_id", requestID,
			"uid", uid,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "application accepted",
		"request_id", requestID,
		"uid", uid,
		"application_id", app.ApplicationID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, fromApplication(app))
}

// HandleAdminList handles GET /api/admin/applications.
func (h *Handler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apps, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list applications",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplications(apps))
}

// HandleAdminReview handles POST /api/admin/review/{uid}.
func (h *Handler) HandleAdminReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	targetUID := chi.URLParam(r, "uid")

	req, ok := httputil.DecodeAndPrepare[ReviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	caller := service.Caller{
		UID:  middleware.GetUID(ctx),
		Role: middleware.GetRole(ctx),
	}
	app, err := h.service.Review(ctx, caller, targetUID, req.Decision())
	if err != nil {
		h.logger.WarnContext(ctx, "review failed",
			"request_id", requestID,
			"uid", targetUID,
			"decision", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "review recorded",
		"request_id", requestID,
		"uid", targetUID,
		"decision", req.Status,
		"actor", caller.UID,
	)
	httputil.WriteJSON(w, http.StatusOK, fromApplicationAdmin(app))
}

// HandleVerify handles GET /verify/{uid}. Public by design: the QR code on a
// printed ID resolves here.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	app, err := h.service.Verify(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromVerification(app))
}
