package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
	"github.com/ezla-online/portal/internal/server/http/dto"
	testhelpers "github.com/ezla-online/portal/internal/test"
)

const validCaseBody = `{
	"illness_from": "2026-10-14",
	"illness_to": "2026-10-17",
	"leave_type": "self",
	"interview": {"fever": "yes", "chronic_diseases": "no", "medications": "none", "allergies": "none", "pregnancy": "no"},
	"symptoms": ["cough"],
	"profile": {
		"first_name": "Jan", "last_name": "Kowalski", "pesel": "44051401359", "date_of_birth": "1944-05-14",
		"email": "jan@example.com", "phone_number": "600700800", "address": "Marszałkowska",
		"house_number": "1", "postal_code": "00-001", "city": "Warszawa"
	}
}`

func TestCaseHandlerCreateGuest(t *testing.T) {
	var got model.CaseInput
	var gotUser *int64
	handler := NewCaseHandler(testhelpers.CaseFacadeStub{CreateFn: func(_ context.Context, userID *int64, in model.CaseInput) (*model.Case, error) {
		got, gotUser = in, userID
		return &model.Case{ID: "c1", CaseNumber: "EZ-1", IllnessFrom: in.IllnessFrom, IllnessTo: in.IllnessTo,
			Status: model.CaseStatusDraft, PaymentStatus: model.PaymentStatusPending}, nil
	}})

	resp := performRequest(t, http.MethodPost, "/cases", handler.Create, nil, []byte(validCaseBody), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if gotUser != nil {
		t.Fatalf("guest request must not carry a user id")
	}
	if got.Profile == nil || got.Profile.PESEL != "44051401359" || !got.Profile.DateOfBirth.Equal(time.Date(1944, 5, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("profile not bound: %+v", got.Profile)
	}
	if got.LeaveType != model.LeaveTypeSelf || len(got.Symptoms) != 1 || got.Interview["fever"] != "yes" {
		t.Fatalf("wizard answers not bound: %+v", got)
	}

	var out dto.CaseResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out.IllnessFrom != "2026-10-14" || out.Status != "draft" || out.PaymentStatus != "pending" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestCaseHandlerCreateSignedInWithoutProfile(t *testing.T) {
	var gotUser *int64
	var gotProfile *model.Profile
	handler := NewCaseHandler(testhelpers.CaseFacadeStub{CreateFn: func(_ context.Context, userID *int64, in model.CaseInput) (*model.Case, error) {
		gotUser, gotProfile = userID, in.Profile
		return &model.Case{ID: "c1"}, nil
	}})
	body := `{"illness_from":"2026-10-14","illness_to":"2026-10-14","leave_type":"child_care","interview":{},"symptoms":["fever"]}`

	resp := performRequest(t, http.MethodPost, "/cases", handler.Create, signedIn(5), []byte(body), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if gotUser == nil || *gotUser != 5 || gotProfile != nil {
		t.Fatalf("unexpected facade input: user=%v profile=%v", gotUser, gotProfile)
	}
}

func TestCaseHandlerCreateRejectsInput(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		field  string
	}{
		{name: "malformed", body: "{", status: http.StatusBadRequest},
		{name: "leave type", body: strings.Replace(validCaseBody, `"self"`, `"vacation"`, 1), status: http.StatusUnprocessableEntity, field: "leave_type"},
		{name: "date format", body: strings.Replace(validCaseBody, `"2026-10-14"`, `"14.10.2026"`, 1), status: http.StatusUnprocessableEntity, field: "illness_from"},
		{name: "no symptoms", body: strings.Replace(validCaseBody, `["cough"]`, `[]`, 1), status: http.StatusUnprocessableEntity, field: "symptoms"},
		{name: "pesel checksum", body: strings.Replace(validCaseBody, "44051401359", "44051401358", 1), status: http.StatusUnprocessableEntity, field: "profile.pesel"},
		{name: "postal code", body: strings.Replace(validCaseBody, "00-001", "00001", 1), status: http.StatusUnprocessableEntity, field: "profile.postal_code"},
		{name: "usecase validation", body: validCaseBody, err: domainErrors.Invalid("illness_from", "may be back-dated by at most 3 days"), status: http.StatusUnprocessableEntity, field: "illness_from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCaseHandler(testhelpers.CaseFacadeStub{CreateFn: func(context.Context, *int64, model.CaseInput) (*model.Case, error) {
				if tt.err == nil {
					t.Fatal("facade must not be called for rejected input")
				}
				return nil, tt.err
			}})
			resp := performRequest(t, http.MethodPost, "/cases", handler.Create, nil, []byte(tt.body), jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
			if tt.field != "" {
				if out := decodeError(t, resp); out.Field != tt.field {
					t.Fatalf("expected field %q, got %+v", tt.field, out)
				}
			}
		})
	}
}

func TestCaseHandlerGet(t *testing.T) {
	visit := "v1"
	handler := NewCaseHandler(testhelpers.CaseFacadeStub{GetFn: func(_ context.Context, requester *int64, id string) (*model.Case, error) {
		if id == "missing" {
			return nil, domainErrors.ErrNotFound
		}
		return &model.Case{ID: id, VisitID: &visit, Status: model.CaseStatusSubmitted}, nil
	}})

	router := gin.New()
	router.GET("/cases/:id", handler.Get)

	resp := performRoute(router, http.MethodGet, "/cases/c1")
	var out dto.CaseResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil || resp.Code != http.StatusOK {
		t.Fatalf("unexpected response %d: %v", resp.Code, err)
	}
	if out.ID != "c1" || !out.VisitBooked || out.Status != "submitted" {
		t.Fatalf("unexpected case view: %+v", out)
	}

	if resp := performRoute(router, http.MethodGet, "/cases/missing"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCaseHandlerList(t *testing.T) {
	handler := NewCaseHandler(testhelpers.CaseFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/cases", handler.List, signedIn(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	empty := NewCaseHandler(testhelpers.CaseFacadeStub{ListFn: func(context.Context, int64) ([]model.Case, error) {
		return nil, nil
	}})
	if resp := performRequest(t, http.MethodGet, "/cases", empty.List, signedIn(1), nil, nil); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestCaseHandlerPayment(t *testing.T) {
	router := gin.New()
	router.POST("/cases/:id/payment", NewCaseHandler(testhelpers.CaseFacadeStub{LinkFn: func(_ context.Context, _ *int64, id string) (*model.PaymentLink, error) {
		if id == "paid" {
			return nil, domainErrors.ErrCaseNotPayable
		}
		return &model.PaymentLink{OrderID: "abc", RedirectURL: "https://pay.example.com/payment?OrderID=abc"}, nil
	}}).Payment)

	resp := performRoute(router, http.MethodPost, "/cases/c1/payment")
	var out dto.PaymentLinkResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil || out.OrderID != "abc" || out.RedirectURL == "" {
		t.Fatalf("unexpected link: %d %+v", resp.Code, out)
	}
	if resp := performRoute(router, http.MethodPost, "/cases/paid/payment"); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestCaseHandlerSummary(t *testing.T) {
	router := gin.New()
	router.GET("/cases/:id/summary.pdf", NewCaseHandler(testhelpers.CaseFacadeStub{}).Summary)

	resp := performRoute(router, http.MethodGet, "/cases/c1/summary.pdf")
	if resp.Code != http.StatusOK || resp.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Header().Get("Content-Type"))
	}
	if !strings.Contains(resp.Header().Get("Content-Disposition"), "EZ-261014-ABC123.pdf") {
		t.Fatalf("unexpected disposition %q", resp.Header().Get("Content-Disposition"))
	}
}
