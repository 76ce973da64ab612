package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"eregister/internal/application/models"
	dErrors "eregister/pkg/domain-errors"
)

// maxUploadBytes bounds the whole multipart form. Webcam JPEGs and scanned
// certificates fit comfortably; anything bigger is a client error.
const maxUploadBytes = 16 << 20

// ReviewRequest is the HTTP request body for POST /api/admin/review/{uid}.
type ReviewRequest struct {
	Status string `json:"status"`
}

// Validate implements httputil.Validatable.
func (r *ReviewRequest) Validate() error {
	r.Status = strings.TrimSpace(strings.ToLower(r.Status))
	err := validation.ValidateStruct(r,
		validation.Field(&r.Status,
			validation.Required,
			validation.In(string(models.StatusApproved), string(models.StatusRejected)),
		),
	)
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "status must be approved or rejected")
	}
	return nil
}

// Decision returns the validated terminal status.
func (r *ReviewRequest) Decision() models.Status {
	return models.Status(r.Status)
}

// parseSubmission extracts the application form and its documents from a
// multipart request. The whole body is hard-capped at maxUploadBytes; an
// oversized upload fails the parse rather than arriving truncated.
// Field-level requirements are enforced by the service; this only deals
// with transport shape.
func parseSubmission(w http.ResponseWriter, r *http.Request) (models.Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.Submission{}, dErrors.New(dErrors.CodeBadRequest, "upload exceeds the 16 MiB limit")
		}
		return models.Submission{}, dErrors.New(dErrors.CodeBadRequest, "request must be multipart/form-data")
	}

	sub := models.Submission{
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		DOB:      strings.TrimSpace(r.FormValue("dob")),
		Address:  strings.TrimSpace(r.FormValue("address")),
		Village:  strings.TrimSpace(r.FormValue("village")),
	}

	photo, err := readDocument(r, "photo")
	if err != nil {
		return models.Submission{}, err
	}
	if photo != nil {
		sub.Photo = *photo
	}

	birthCert, err := readDocument(r, "birthCertificate")
	if err != nil {
		return models.Submission{}, err
	}
	if birthCert != nil {
		sub.BirthCert = *birthCert
	}

	guardianCert, err := readDocument(r, "guardianCertificate")
	if err != nil {
		return models.Submission{}, err
	}
	sub.GuardianCert = guardianCert

	return sub, nil
}

// readDocument returns nil with no error when the part is absent; presence
// requirements belong to the service.
func readDocument(r *http.Request, field string) (*models.Document, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, dErrors.New(dErrors.CodeBadRequest, "malformed upload: "+field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unreadable upload: "+field)
	}
	return &models.Document{
		Filename:    header.Filename,
		ContentType: documentContentType(header),
		Data:        data,
	}, nil
}

func documentContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
