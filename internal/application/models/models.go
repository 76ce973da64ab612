package models

import "time"

// Status tracks an application through its lifecycle. Transitions are
// monotone: pending is the only non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further review transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Application is the persisted record tracking one applicant's digital-ID
// request. At most one exists per uid; only the review service mutates it.
type Application struct {
	UID             string
	ApplicationID   string
	FullName        string
	DOB             string
	Address         string
	Village         string
	PhotoRef        string
	BirthCertRef    string
	GuardianCertRef string
	Status          Status
	CredentialRef   string
	SubmittedAt     time.Time
}

// Submission carries the validated inputs for creating an application.
// Document payloads are raw bytes; the blob store assigns references.
type Submission struct {
	FullName     string
	DOB          string
	Address      string
	Village      string
	Photo        Document
	BirthCert    Document
	GuardianCert *Document
}

// Document is an uploaded file plus enough metadata to store it.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}
