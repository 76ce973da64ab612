package handler

import (
	"time"

	"eregister/internal/application/models"
)

// ApplicationResponse is the applicant-facing projection of a record.
type ApplicationResponse struct {
	UID           string    `json:"uid"`
	ApplicationID string    `json:"applicationId"`
	FullName      string    `json:"fullName"`
	DOB           string    `json:"dob"`
	Address       string    `json:"address"`
	Village       string    `json:"village"`
	Status        string    `json:"status"`
	CredentialRef string    `json:"credentialRef,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// AdminApplicationResponse adds the document references reviewers need.
type AdminApplicationResponse struct {
	ApplicationResponse
	PhotoRef        string `json:"photoRef"`
	BirthCertRef    string `json:"birthCertRef"`
	GuardianCertRef string `json:"guardianCertRef,omitempty"`
}

// VerifyResponse is the public QR confirmation: name and state, nothing else.
type VerifyResponse struct {
	UID      string `json:"uid"`
	FullName string `json:"fullName"`
	Status   string `json:"status"`
}

type ListResponse struct {
	Applications []AdminApplicationResponse `json:"applications"`
}

func fromApplication(app models.Application) ApplicationResponse {
	return ApplicationResponse{
		UID:           app.UID,
		ApplicationID: app.ApplicationID,
		FullName:      app.FullName,
		DOB:           app.DOB,
		Address:       app.Address,
		Village:       app.Village,
		Status:        string(app.Status),
		CredentialRef: app.CredentialRef,
		SubmittedAt:   app.SubmittedAt,
	}
}

func fromApplicationAdmin(app models.Application) AdminApplicationResponse {
	return AdminApplicationResponse{
		ApplicationResponse: fromApplication(app),
		PhotoRef:            app.PhotoRef,
		BirthCertRef:        app.BirthCertRef,
		GuardianCertRef:     app.GuardianCertRef,
	}
}

func fromApplications(apps []models.Application) ListResponse {
	out := ListResponse{Applications: make([]AdminApplicationResponse, 0, len(apps))}
	for _, app := range apps {
		out.Applications = append(out.Applications, fromApplicationAdmin(app))
	}
	return out
}

func fromVerification(app models.Application) VerifyResponse {
	return VerifyResponse{
		UID:      app.UID,
		FullName: app.FullName,
		Status:   string(app.Status),
	}
}
