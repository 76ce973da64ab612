package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"eregister/internal/application/models"
	"eregister/internal/application/store"
	"eregister/internal/audit"
	"eregister/internal/biometric"
	"eregister/internal/blobstore"
	"eregister/internal/platform/metrics"
	dErrors "eregister/pkg/domain-errors"
	"eregister/pkg/platform/sentinel"
)

// CaptureGate validates the enrollment photo before any network interaction.
type CaptureGate interface {
	Evaluate(frame []byte) (biometric.Capture, error)
}

// CredentialIssuer derives the verification artifact for an approved application.
type CredentialIssuer interface {
	Issue(ctx context.Context, app models.Application) (string, error)
}

// Caller identifies who invokes a service operation, resolved upstream from
// the bearer token. There is no ambient session: every call carries this
// explicitly.
type Caller struct {
	UID  string
	Role string
}

// Service owns the application lifecycle: submission, review, status reads.
// The application store is the only shared mutable resource and is written
// exclusively through here.
type Service struct {
	logger  *slog.Logger
	apps    store.ApplicationStore
	blobs   blobstore.Store
	gate    CaptureGate
	issuer  CredentialIssuer
	audit   audit.Publisher
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

func New(
	logger *slog.Logger,
	apps store.ApplicationStore,
	blobs blobstore.Store,
	gate CaptureGate,
	issuer CredentialIssuer,
	auditPub audit.Publisher,
	m *metrics.Metrics,
) *Service {
	return &Service{
		logger:  logger,
		apps:    apps,
		blobs:   blobs,
		gate:    gate,
		issuer:  issuer,
		audit:   auditPub,
		metrics: m,
		tracer:  otel.Tracer("eregister/application"),
		now:     time.Now,
	}
}

// Status returns the caller's own application. Absence is a legitimate
// outcome ("not applied yet"), surfaced as CodeNotFound for the 404 mapping.
func (s *Service) Status(ctx context.Context, uid string) (models.Application, error) {
	app, err := s.apps.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Application{}, dErrors.New(dErrors.CodeNotFound, "no application found")
		}
		return models.Application{}, fmt.Errorf("query application status: %w", err)
	}
	return app, nil
}

// List returns every application for the admin dashboard, newest first.
func (s *Service) List(ctx context.Context) ([]models.Application, error) {
	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// Verify is the public QR target: it confirms an approved application
// without exposing anything beyond the holder's name. Pending, rejected,
// and absent applications are indistinguishable to the verifier.
func (s *Service) Verify(ctx context.Context, uid string) (models.Application, error) {
	app, err := s.apps.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Application{}, dErrors.New(dErrors.CodeNotFound, "no approved application found")
		}
		return models.Application{}, fmt.Errorf("verify application: %w", err)
	}
	if app.Status != models.StatusApproved {
		return models.Application{}, dErrors.New(dErrors.CodeNotFound, "no approved application found")
	}
	return app, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"error", err,
			"action", string(event.Action),
		)
	}
}
