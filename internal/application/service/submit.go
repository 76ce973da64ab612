package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"eregister/internal/application/models"
	"eregister/internal/audit"
	"eregister/internal/biometric"
	"eregister/internal/platform/middleware"
	dErrors "eregister/pkg/domain-errors"
	"eregister/pkg/platform/sentinel"
)

// Submit runs the full intake pipeline for one applicant: field validation,
// the biometric capture gate, document uploads, then the atomic create. The
// gate runs before any blob is written so nothing a rejected frame touched
// ever reaches storage, and the store's create-if-absent is the final word
// on the one-application-per-uid rule.
func (s *Service) Submit(ctx context.Context, uid string, sub models.Submission) (models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.submit")
	defer span.End()

	if uid == "" {
		return models.Application{}, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header")
	}
	if err := validateSubmission(sub); err != nil {
		return models.Application{}, err
	}

	// Cheap read-path check. Harmless under races: Create re-checks atomically.
	if _, err := s.apps.FindByUID(ctx, uid); err == nil {
		s.metrics.SubmissionConflicts.Inc()
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "application already submitted")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return models.Application{}, fmt.Errorf("check existing application: %w", err)
	}

	capture, err := s.gate.Evaluate(sub.Photo.Data)
	if err != nil {
		if errors.Is(err, biometric.ErrNoFaceDetected) {
			return models.Application{}, dErrors.New(dErrors.CodeBadRequest,
				"photo rejected: exactly one face must be visible")
		}
		return models.Application{}, fmt.Errorf("evaluate photo: %w", err)
	}

	refs, err := s.uploadDocuments(ctx, uid, capture, sub)
	if err != nil {
		return models.Application{}, err
	}

	app := models.Application{
		UID:             uid,
		ApplicationID:   newApplicationID(),
		FullName:        sub.FullName,
		DOB:             sub.DOB,
		Address:         sub.Address,
		Village:         sub.Village,
		PhotoRef:        refs.photo,
		BirthCertRef:    refs.birthCert,
		GuardianCertRef: refs.guardianCert,
		Status:          models.StatusPending,
		SubmittedAt:     s.now().UTC(),
	}

	if err := s.apps.Create(ctx, app); err != nil {
		s.discardBlobs(ctx, refs.all())
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.SubmissionConflicts.Inc()
			return models.Application{}, dErrors.New(dErrors.CodeConflict, "application already submitted")
		}
		return models.Application{}, fmt.Errorf("create application: %w", err)
	}

	s.metrics.ApplicationsSubmitted.Inc()
	s.emitAudit(ctx, audit.Event{
		UID:       uid,
		Action:    audit.ActionApplicationSubmitted,
		RequestID: middleware.GetRequestID(ctx),
	})
	s.logger.InfoContext(ctx, "application submitted",
		"uid", uid,
		"application_id", app.ApplicationID,
	)
	return app, nil
}

func validateSubmission(sub models.Submission) error {
	missing := func(field string) error {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("missing required field: %s", field))
	}
	switch {
	case strings.TrimSpace(sub.FullName) == "":
		return missing("fullName")
	case strings.TrimSpace(sub.DOB) == "":
		return missing("dob")
	case strings.TrimSpace(sub.Address) == "":
		return missing("address")
	case strings.TrimSpace(sub.Village) == "":
		return missing("village")
	case len(sub.Photo.Data) == 0:
		return missing("photo")
	case len(sub.BirthCert.Data) == 0:
		return missing("birthCertificate")
	}
	if sub.GuardianCert != nil && len(sub.GuardianCert.Data) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "guardianCertificate is empty")
	}
	return nil
}

type documentRefs struct {
	photo        string
	birthCert    string
	guardianCert string
}

func (r documentRefs) all() []string {
	refs := []string{r.photo, r.birthCert}
	if r.guardianCert != "" {
		refs = append(refs, r.guardianCert)
	}
	return refs
}

// uploadDocuments writes the gated photo and supporting documents in
// parallel. If any upload fails the ones that landed are deleted, so a
// failed submission leaves no partial state behind.
func (s *Service) uploadDocuments(ctx context.Context, uid string, capture biometric.Capture, sub models.Submission) (documentRefs, error) {
	var refs documentRefs

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ref, err := s.blobs.Put(gctx, blobKey("photo", uid, ".jpg"), capture.ContentType, capture.Blob)
		if err != nil {
			return fmt.Errorf("store photo: %w", err)
		}
		refs.photo = ref
		return nil
	})
	g.Go(func() error {
		key := blobKey("birth_cert", uid, docExt(sub.BirthCert.Filename))
		ref, err := s.blobs.Put(gctx, key, sub.BirthCert.ContentType, sub.BirthCert.Data)
		if err != nil {
			return fmt.Errorf("store birth certificate: %w", err)
		}
		refs.birthCert = ref
		return nil
	})
	if sub.GuardianCert != nil {
		g.Go(func() error {
			key := blobKey("guardian_cert", uid, docExt(sub.GuardianCert.Filename))
			ref, err := s.blobs.Put(gctx, key, sub.GuardianCert.ContentType, sub.GuardianCert.Data)
			if err != nil {
				return fmt.Errorf("store guardian certificate: %w", err)
			}
			refs.guardianCert = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.discardBlobs(ctx, refs.all())
		s.logger.ErrorContext(ctx, "document upload failed", "error", err, "uid", uid)
		return documentRefs{}, dErrors.New(dErrors.CodeInternal, "document storage unavailable")
	}
	return refs, nil
}

// discardBlobs best-effort removes blobs from an abandoned submission.
// Runs even when ctx is already cancelled.
func (s *Service) discardBlobs(ctx context.Context, refs []string) {
	ctx = context.WithoutCancel(ctx)
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, ref); err != nil {
			s.logger.WarnContext(ctx, "orphan blob cleanup failed", "error", err, "ref", ref)
		}
	}
}

func newApplicationID() string {
	return "app_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func blobKey(kind, uid, ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%s_%s%s", kind, uid, suffix, ext)
}

func docExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ".bin"
	}
	return ext
}
