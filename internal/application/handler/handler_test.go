package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eregister/internal/application/models"
	"eregister/internal/application/service"
	dErrors "eregister/pkg/domain-errors"
	"eregister/pkg/testutil"
)

// fakeService records calls and returns canned results; transport behavior
// is what is under test here.
type fakeService struct {
	app models.Application
	err error

	lastCaller   service.Caller
	lastTarget   string
	lastDecision models.Status
	lastSubmit   models.Submission
}

func (f *fakeService) Submit(_ context.Context, uid string, sub models.Submission) (models.Application, error) {
	f.lastTarget = uid
	f.lastSubmit = sub
	return f.app, f.err
}

func (f *fakeService) Status(_ context.Context, uid string) (models.Application, error) {
	f.lastTarget = uid
	return f.app, f.err
}

func (f *fakeService) List(context.Context) ([]models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Application{f.app}, nil
}

func (f *fakeService) Review(_ context.Context, caller service.Caller, targetUID string, decision models.Status) (models.Application, error) {
	f.lastCaller = caller
	f.lastTarget = targetUID
	f.lastDecision = decision
	return f.app, f.err
}

func (f *fakeService) Verify(_ context.Context, uid string) (models.Application, error) {
	f.lastTarget = uid
	return f.app, f.err
}

func approvedApp(uid string) models.Application {
	return models.Application{
		UID:           uid,
		ApplicationID: "app_" + uid,
		FullName:      "Asha Nansubuga",
		DOB:           "2009-03-14",
		Address:       "Plot 12, Kira Road",
		Village:       "Bulindo",
		PhotoRef:      "photo_" + uid + ".jpg",
		BirthCertRef:  "birth_cert_" + uid + ".pdf",
		Status:        models.StatusApproved,
		CredentialRef: "qr_codes/" + uid + ".png",
	}
}

func newRouter(svc Service) (chi.Router, *Handler) {
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		h.RegisterCitizen(api)
		api.Route("/admin", h.RegisterAdmin)
	})
	h.RegisterPublic(r)
	return r, h
}

func TestHandleStatus(t *testing.T) {
	t.Run("returns the caller's application", func(t *testing.T) {
		svc := &fakeService{app: approvedApp("u1")}
		r, _ := newRouter(svc)

		req := testutil.WithUID(testutil.NewRequest(t, http.MethodGet, "/api/status"), "u1")
		rr := testutil.DoRequest(r, req)

		testutil.AssertStatusOK(t, rr)
		got := testutil.UnmarshalResponse[ApplicationResponse](t, rr)
		assert.Equal(t, "u1", got.UID)
		assert.Equal(t, "approved", got.Status)
		assert.Equal(t, "u1", svc.lastTarget)
	})

	t.Run("without identity in context", func(t *testing.T) {
		r, _ := newRouter(&fakeService{})
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/api/status"))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("maps not found", func(t *testing.T) {
		svc := &fakeService{err: dErrors.New(dErrors.CodeNotFound, "no application found")}
		r, _ := newRouter(svc)

		req := testutil.WithUID(testutil.NewRequest(t, http.MethodGet, "/api/status"), "u1")
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}

func TestHandleApply(t *testing.T) {
	fields := map[string]string{
		"fullName": "Asha Nansubuga",
		"dob":      "2009-03-14",
		"address":  "Plot 12, Kira Road",
		"village":  "Bulindo",
	}
	files := []testutil.FormFile{
		{Field: "photo", Filename: "webcam.jpg", Data: []byte("frame")},
		{Field: "birthCertificate", Filename: "birth.pdf", Data: []byte("pdf")},
	}

	t.Run("accepted submission returns 201", func(t *testing.T) {
		app := approvedApp("u2")
		app.Status = models.StatusPending
		app.CredentialRef = ""
		svc := &fakeService{app: app}
		r, _ := newRouter(svc)

		req := testutil.WithUID(testutil.NewMultipartRequest(t, http.MethodPost, "/api/apply", fields, files), "u2")
		rr := testutil.DoRequest(r, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		testutil.AssertJSONContains(t, rr, "status", "pending")
		assert.Equal(t, "Asha Nansubuga", svc.lastSubmit.FullName)
		assert.Equal(t, []byte("frame"), svc.lastSubmit.Photo.Data)
	})

	t.Run("service conflict surfaces as 409", func(t *testing.T) {
		svc := &fakeService{err: dErrors.New(dErrors.CodeConflict, "application already submitted")}
		r, _ := newRouter(svc)

		req := testutil.WithUID(testutil.NewMultipartRequest(t, http.MethodPost, "/api/apply", fields, files), "u2")
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	t.Run("oversized upload is a bad request and never reaches the service", func(t *testing.T) {
		svc := &fakeService{}
		r, _ := newRouter(svc)

		big := []testutil.FormFile{
			{Field: "photo", Filename: "webcam.jpg", Data: bytes.Repeat([]byte{0xff}, maxUploadBytes+4096)},
			{Field: "birthCertificate", Filename: "birth.pdf", Data: []byte("pdf")},
		}
		req := testutil.WithUID(testutil.NewMultipartRequest(t, http.MethodPost, "/api/apply", fields, big), "u2")
		rr := testutil.DoRequest(r, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
		assert.Empty(t, svc.lastTarget, "service must not see oversized submissions")
	})

	t.Run("JSON body is rejected", func(t *testing.T) {
		r, _ := newRouter(&fakeService{})
		req := testutil.WithUID(testutil.NewJSONRequest(t, http.MethodPost, "/api/apply", map[string]string{"fullName": "x"}), "u2")
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}

func TestHandleAdminReview(t *testing.T) {
	t.Run("passes caller and decision through", func(t *testing.T) {
		svc := &fakeService{app: approvedApp("u3")}
		r, _ := newRouter(svc)

		req := testutil.WithAuth(
			testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/review/u3", map[string]string{"status": "approved"}),
			"admin-1", "admin@gov.example", "superuser",
		)
		rr := testutil.DoRequest(r, req)

		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, "u3", svc.lastTarget)
		assert.Equal(t, models.StatusApproved, svc.lastDecision)
		assert.Equal(t, service.Caller{UID: "admin-1", Role: "superuser"}, svc.lastCaller)

		got := testutil.UnmarshalResponse[AdminApplicationResponse](t, rr)
		require.Equal(t, "qr_codes/u3.png", got.CredentialRef)
		assert.NotEmpty(t, got.PhotoRef)
	})

	t.Run("invalid decision is rejected at the edge", func(t *testing.T) {
		svc := &fakeService{}
		r, _ := newRouter(svc)

		req := testutil.WithAuth(
			testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/review/u3", map[string]string{"status": "pending"}),
			"admin-1", "admin@gov.example", "superuser",
		)
		rr := testutil.DoRequest(r, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
		assert.Empty(t, svc.lastTarget, "service must not be called for invalid bodies")
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		r, _ := newRouter(&fakeService{})
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/admin/review/u3", `{`)
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}

func TestHandleVerify(t *testing.T) {
	testutil.Given(t, "an approved application", func(t *testing.T) {
		svc := &fakeService{app: approvedApp("u4")}
		r, _ := newRouter(svc)

		testutil.When(t, "the QR target is fetched", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/verify/u4"))

			testutil.Then(t, "only name and state are disclosed", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				got := testutil.UnmarshalResponse[VerifyResponse](t, rr)
				assert.Equal(t, "u4", got.UID)
				assert.Equal(t, "Asha Nansubuga", got.FullName)
				assert.Equal(t, "approved", got.Status)
			})
		})
	})

	t.Run("unknown uid is not found", func(t *testing.T) {
		svc := &fakeService{err: dErrors.New(dErrors.CodeNotFound, "no approved application found")}
		r, _ := newRouter(svc)
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/verify/ghost"))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}
