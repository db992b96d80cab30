package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session-auth/internal/model"
	"session-auth/pkg/apierror"
)

var errStoreDown = errors.New("connection refused: 10.0.0.5:5432")

type stubSessionService struct {
	views     []model.SessionView
	listErr   error
	deleteErr error
	deleted   []string
}

func (s *stubSessionService) List(context.Context) ([]model.SessionView, error) {
	return s.views, s.listErr
}

func (s *stubSessionService) Delete(_ context.Context, rawID string) error {
	s.deleted = append(s.deleted, rawID)
	return s.deleteErr
}

type stubAuthService struct {
	logoutErr  error
	logoutIDs  []string
	loginErr   error
	registered []string
}

func (s *stubAuthService) Register(_ context.Context, username string, _ string) error {
	s.registered = append(s.registered, username)
	return nil
}

func (s *stubAuthService) Login(context.Context, string, string) (model.LoginResult, error) {
	return model.LoginResult{Token: "tok", SessionID: "sid"}, s.loginErr
}

func (s *stubAuthService) Logout(_ context.Context, sessionID string) error {
	s.logoutIDs = append(s.logoutIDs, sessionID)
	return s.logoutErr
}

func (s *stubAuthService) ForgotPassword(context.Context, string, string) error {
	return nil
}

func adminRouter(h *AdminHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/admin/dashboard", h.Dashboard)
	r.Delete("/admin/session/{id}", h.DeleteSession)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()

	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestDeleteSessionErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "deleted", err: nil, wantStatus: http.StatusOK},
		{name: "unknown id", err: model.ErrSessionNotFound, wantStatus: http.StatusNotFound, wantError: "Session not found"},
		{name: "malformed id", err: model.ErrMalformedSession, wantStatus: http.StatusInternalServerError, wantError: "An error occurred while deleting the session"},
		{name: "store failure", err: errStoreDown, wantStatus: http.StatusInternalServerError, wantError: "An error occurred while deleting the session"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &stubSessionService{deleteErr: tc.err}
			rec := httptest.NewRecorder()
			adminRouter(NewAdminHandler(svc)).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/session/abc", nil))

			require.Equal(t, tc.wantStatus, rec.Code)
			require.Equal(t, []string{"abc"}, svc.deleted)
			if tc.wantError == "" {
				return
			}

			body := decodeBody(t, rec)
			assert.Equal(t, tc.wantError, body.Error)
			assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		})
	}
}

func TestDashboardStoreFailure(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	h := NewAdminHandler(&stubSessionService{listErr: errStoreDown})
	adminRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, decodeBody(t, rec).Error, "connection refused")
}

func TestDashboardEmptyIsArray(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	h := NewAdminHandler(&stubSessionService{views: []model.SessionView{}})
	adminRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	t.Parallel()

	for _, err := range []error{nil, model.ErrMalformedSession, model.ErrSessionNotFound, errStoreDown} {
		svc := &stubAuthService{logoutErr: err}
		rec := httptest.NewRecorder()
		NewAuthHandler(svc).Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(`{"session_id":"x"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"x"}, svc.logoutIDs)
	}

	svc := &stubAuthService{}
	rec := httptest.NewRecorder()
	NewAuthHandler(svc).Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(`{`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.logoutIDs)
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{}
	rec := httptest.NewRecorder()
	body := `{"username":"a","password":"b"}{"username":"c"}`
	NewAuthHandler(svc).Register(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", decodeBody(t, rec).Error)
	assert.Empty(t, svc.registered)
}

func TestWriteErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err        error
		wantStatus int
	}{
		{apierror.Conflict("Username already exists", "bob"), http.StatusConflict},
		{model.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("%w: unexpected EOF", model.ErrInvalidInput), http.StatusBadRequest},
		{errStoreDown, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		assert.Equal(t, tc.wantStatus, rec.Code, tc.err.Error())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestLoginFailureBody(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{loginErr: model.ErrInvalidCredentials}
	rec := httptest.NewRecorder()
	NewAuthHandler(svc).Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"a","password":"b"}`)))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, rec).Error)
}
