package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/services"
	"quill/internal/httputil"
)

// fakeSharingService returns canned results per call.
type fakeSharingService struct {
	shareResult *models.ShareResult
	shareErr    error
	shareCalls  int
	acl         []models.ACLEntry
	aclErr      error
	notebooks   []models.Notebook
}

func (f *fakeSharingService) Share(ctx context.Context, req *services.ShareRequest) (*models.ShareResult, error) {
	f.shareCalls++
	if f.shareErr != nil {
		return nil, f.shareErr
	}
	return f.shareResult, nil
}

func (f *fakeSharingService) GetACL(ctx context.Context, notebookID string) ([]models.ACLEntry, error) {
	if f.aclErr != nil {
		return nil, f.aclErr
	}
	return f.acl, nil
}

func (f *fakeSharingService) SharedWith(ctx context.Context, principal models.PrincipalID) ([]models.Notebook, error) {
	return f.notebooks, nil
}

// fakeEngine records the policy decision it was asked for.
type fakeEngine struct {
	allow       bool
	err         error
	calls       int
	gotAction   string
	gotResource string
}

func (f *fakeEngine) IsAuthorized(ctx context.Context, identityToken, action, notebookID string) (bool, error) {
	f.calls++
	f.gotAction = action
	f.gotResource = notebookID
	return f.allow, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestShareNotebookResponses(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		service     *fakeSharingService
		wantStatus  int
		wantMessage string
	}{
		{
			name: "shared",
			body: `{"notebookId":"r1","email":"a@b.com"}`,
			service: &fakeSharingService{
				shareResult: &models.ShareResult{ACL: []models.ACLEntry{{Email: "a@b.com", Provisional: true}}},
			},
			wantStatus:  http.StatusOK,
			wantMessage: "notebook shared successfully",
		},
		{
			name: "already shared",
			body: `{"notebookId":"r1","email":"a@b.com"}`,
			service: &fakeSharingService{
				shareResult: &models.ShareResult{AlreadyShared: true, ACL: []models.ACLEntry{{Email: "a@b.com"}}},
			},
			wantStatus:  http.StatusOK,
			wantMessage: "notebook already shared with user",
		},
		{
			name:       "malformed body",
			body:       `{`,
			service:    &fakeSharingService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "validation error",
			body:       `{"notebookId":"","email":"a@b.com"}`,
			service:    &fakeSharingService{shareErr: fmt.Errorf("%w: notebookId: cannot be blank", domain.ErrValidation)},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown grantee",
			body:       `{"notebookId":"r1","email":"nobody@nowhere.test"}`,
			service:    &fakeSharingService{shareErr: &domain.ValidationError{Message: "grantee not found"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "dependency failure",
			body:       `{"notebookId":"r1","email":"a@b.com"}`,
			service:    &fakeSharingService{shareErr: fmt.Errorf("%w: list policies: timeout", domain.ErrDependency)},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSharingHandler(tt.service, &fakeEngine{allow: true}, testLogger())

			req := httptest.NewRequest(http.MethodPut, "/share-notebook", strings.NewReader(tt.body))
			req = httputil.WithToken(req, "id-token")
			rec := httptest.NewRecorder()
			h.ShareNotebook(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantMessage != "" {
				var resp shareResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid response body: %v", err)
				}
				if resp.Message != tt.wantMessage {
					t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
				}
			}

			if tt.wantStatus == http.StatusInternalServerError {
				// Upstream details must not leak to the caller
				if strings.Contains(rec.Body.String(), "list policies") {
					t.Errorf("dependency detail leaked: %s", rec.Body.String())
				}
			}
		})
	}
}

// The share route's policy decision must name the notebook from the request
// body as its resource; the id never appears in the path.
func TestShareNotebookAuthorization(t *testing.T) {
	t.Run("resource comes from the body", func(t *testing.T) {
		engine := &fakeEngine{allow: true}
		svc := &fakeSharingService{
			shareResult: &models.ShareResult{ACL: []models.ACLEntry{{Email: "a@b.com", Provisional: true}}},
		}
		h := NewSharingHandler(svc, engine, testLogger())

		// Routed through a mux as in production, so the path truly carries
		// no id segment
		mux := http.NewServeMux()
		mux.HandleFunc("PUT /share-notebook", h.ShareNotebook)

		req := httptest.NewRequest(http.MethodPut, "/share-notebook",
			strings.NewReader(`{"notebookId":"r1","email":"a@b.com"}`))
		req = httputil.WithToken(req, "id-token")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		if engine.gotAction != "shareNotebook" {
			t.Errorf("action = %q, want shareNotebook", engine.gotAction)
		}
		if engine.gotResource != "r1" {
			t.Errorf("resource = %q, want r1", engine.gotResource)
		}
	})

	t.Run("denied before the service runs", func(t *testing.T) {
		engine := &fakeEngine{allow: false}
		svc := &fakeSharingService{}
		h := NewSharingHandler(svc, engine, testLogger())

		req := httptest.NewRequest(http.MethodPut, "/share-notebook",
			strings.NewReader(`{"notebookId":"r1","email":"a@b.com"}`))
		req = httputil.WithToken(req, "id-token")
		rec := httptest.NewRecorder()
		h.ShareNotebook(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if svc.shareCalls != 0 {
			t.Errorf("share ran %d times on a denied request", svc.shareCalls)
		}
	})

	t.Run("engine failure", func(t *testing.T) {
		engine := &fakeEngine{err: fmt.Errorf("%w: is authorized: timeout", domain.ErrDependency)}
		h := NewSharingHandler(&fakeSharingService{}, engine, testLogger())

		req := httptest.NewRequest(http.MethodPut, "/share-notebook",
			strings.NewReader(`{"notebookId":"r1","email":"a@b.com"}`))
		req = httputil.WithToken(req, "id-token")
		rec := httptest.NewRecorder()
		h.ShareNotebook(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "is authorized") {
			t.Errorf("dependency detail leaked: %s", rec.Body.String())
		}
	})

	t.Run("missing token", func(t *testing.T) {
		engine := &fakeEngine{allow: true}
		h := NewSharingHandler(&fakeSharingService{}, engine, testLogger())

		req := httptest.NewRequest(http.MethodPut, "/share-notebook",
			strings.NewReader(`{"notebookId":"r1","email":"a@b.com"}`))
		rec := httptest.NewRecorder()
		h.ShareNotebook(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if engine.calls != 0 {
			t.Errorf("policy engine consulted %d times without a token", engine.calls)
		}
	})

	t.Run("id-less request skips the decision", func(t *testing.T) {
		engine := &fakeEngine{allow: true}
		svc := &fakeSharingService{shareErr: fmt.Errorf("%w: notebookId: cannot be blank", domain.ErrValidation)}
		h := NewSharingHandler(svc, engine, testLogger())

		req := httptest.NewRequest(http.MethodPut, "/share-notebook",
			strings.NewReader(`{"notebookId":"","email":"a@b.com"}`))
		req = httputil.WithToken(req, "id-token")
		rec := httptest.NewRecorder()
		h.ShareNotebook(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if engine.calls != 0 {
			t.Errorf("policy engine asked about an empty resource %d times", engine.calls)
		}
	})
}

func TestGetACLResponses(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		h := NewSharingHandler(&fakeSharingService{acl: []models.ACLEntry{}}, &fakeEngine{allow: true}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/get-acl/r1", nil)
		req.SetPathValue("id", "r1")
		rec := httptest.NewRecorder()
		h.GetACL(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"acl":[]}` {
			t.Errorf("body = %s, want {\"acl\":[]}", got)
		}
	})

	t.Run("entries", func(t *testing.T) {
		h := NewSharingHandler(&fakeSharingService{
			acl: []models.ACLEntry{{Email: "a@b.com"}, {Email: "c@d.com", Provisional: true}},
		}, &fakeEngine{allow: true}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/get-acl/r1", nil)
		req.SetPathValue("id", "r1")
		rec := httptest.NewRecorder()
		h.GetACL(rec, req)

		var resp struct {
			ACL []models.ACLEntry `json:"acl"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if len(resp.ACL) != 2 {
			t.Fatalf("expected two entries, got %+v", resp.ACL)
		}
		if !resp.ACL[1].Provisional {
			t.Error("provisional marker lost in response")
		}
	})

	t.Run("missing id", func(t *testing.T) {
		h := NewSharingHandler(&fakeSharingService{}, &fakeEngine{allow: true}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/get-acl/", nil)
		rec := httptest.NewRecorder()
		h.GetACL(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestSharedWithMe(t *testing.T) {
	h := NewSharingHandler(&fakeSharingService{
		notebooks: []models.Notebook{{ID: "r1", Name: "Notes", Owner: "sub-owner"}},
	}, &fakeEngine{allow: true}, testLogger())

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/shared-with-me", nil)
		req = httputil.WithCaller(req, httputil.CallerIdentity{
			Principal: models.NewPrincipalID("pool", "sub-a"),
			Email:     "a@b.com",
		})
		rec := httptest.NewRecorder()
		h.SharedWithMe(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var notebooks []models.Notebook
		if err := json.Unmarshal(rec.Body.Bytes(), &notebooks); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if len(notebooks) != 1 || notebooks[0].ID != "r1" {
			t.Errorf("unexpected notebooks: %+v", notebooks)
		}
	})

	t.Run("no caller identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/shared-with-me", nil)
		rec := httptest.NewRecorder()
		h.SharedWithMe(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
