package service

import (
	"context"
	"errors"
	"fmt"

	"eregister/internal/application/models"
	"eregister/internal/audit"
	"eregister/internal/platform/middleware"
	dErrors "eregister/pkg/domain-errors"
	"eregister/pkg/platform/sentinel"
)

// Review applies a terminal decision to a pending application. Approval
// issues the verification credential before the state transition commits:
// if issuance fails, the record is still pending and the review can simply
// be retried. The store's compare-and-set guarantees that of any number of
// concurrent reviewers exactly one lands a decision; the rest see a
// conflict and must re-read.
func (s *Service) Review(ctx context.Context, caller Caller, targetUID string, decision models.Status) (models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.review")
	defer span.End()

	// Transport middleware already enforces the role; this re-check keeps
	// the rule local to the transition it protects. A citizen caller gets
	// the same answer here as an unauthenticated one.
	if caller.Role != "superuser" {
		return models.Application{}, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header")
	}
	if decision != models.StatusApproved && decision != models.StatusRejected {
		return models.Application{}, dErrors.New(dErrors.CodeBadRequest, "status must be approved or rejected")
	}

	app, err := s.apps.FindByUID(ctx, targetUID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Application{}, dErrors.New(dErrors.CodeNotFound, "no application found")
		}
		return models.Application{}, fmt.Errorf("load application for review: %w", err)
	}
	if app.Status.Terminal() {
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "application already reviewed")
	}

	var credentialRef string
	if decision == models.StatusApproved {
		credentialRef, err = s.issuer.Issue(ctx, app)
		if err != nil {
			s.logger.ErrorContext(ctx, "credential issuance failed", "error", err, "uid", targetUID)
			return models.Application{}, dErrors.New(dErrors.CodeInternal, "credential issuance failed")
		}
	}

	updated, err := s.apps.FinalizeIfPending(ctx, targetUID, decision, credentialRef)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return models.Application{}, dErrors.New(dErrors.CodeNotFound, "no application found")
		case errors.Is(err, sentinel.ErrConflict):
			return models.Application{}, dErrors.New(dErrors.CodeConflict, "application already reviewed")
		}
		return models.Application{}, fmt.Errorf("finalize review: %w", err)
	}

	s.metrics.ReviewsCompleted.WithLabelValues(string(decision)).Inc()
	action := audit.ActionApplicationRejected
	if decision == models.StatusApproved {
		action = audit.ActionApplicationApproved
		s.metrics.CredentialsIssued.Inc()
	}
	s.emitAudit(ctx, audit.Event{
		UID:       targetUID,
		ActorUID:  caller.UID,
		Action:    action,
		RequestID: middleware.GetRequestID(ctx),
	})
	if decision == models.StatusApproved {
		s.emitAudit(ctx, audit.Event{
			UID:       targetUID,
			ActorUID:  caller.UID,
			Action:    audit.ActionCredentialIssued,
			RequestID: middleware.GetRequestID(ctx),
		})
	}
	s.logger.InfoContext(ctx, "application reviewed",
		"uid", targetUID,
		"decision", string(decision),
		"actor", caller.UID,
	)
	return updated, nil
}
