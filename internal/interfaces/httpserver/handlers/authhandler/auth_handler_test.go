package authhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"triage-server/internal/config"
	"triage-server/internal/domain/session"
	"triage-server/internal/interfaces/httpserver/responses"
)

func newTestRouter(t *testing.T) (*gin.Engine, *session.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AuthorizedEmails:     "user@example.com",
		AuthTokenSecret:      "test-secret",
		DefaultPatientAge:    35,
		DefaultPatientGender: "Male",
	}
	sessions := session.NewService(cfg, zerolog.Nop())
	handler := NewAuthHandler(sessions, zerolog.Nop())

	router := gin.New()
	router.POST("/auth/login", handler.Login)
	router.GET("/auth/session", handler.WithSessionChain(handler.GetSession)...)
	router.POST("/auth/logout", handler.WithSessionChain(handler.Logout)...)
	return router, sessions
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"user@example.com"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	var login responses.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.Token == "" || login.SessionState == "" {
		t.Fatal("expected a token and a session state blob")
	}

	rec = doJSON(t, router, http.MethodGet, "/auth/session", "", map[string]string{
		"Authorization": "Bearer " + login.Token,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("session status = %d, body %s", rec.Code, rec.Body.String())
	}
	var sess responses.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	if sess.Email != "user@example.com" || sess.Patient.Age != 35 {
		t.Errorf("unexpected session response: %+v", sess)
	}
}

func TestLoginRejectsUnlistedEmail(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"intruder@evil.com"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginRejectsMalformedPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"not-an-email"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRequireSessionRejectsAnonymous(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/auth/session", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionStateRecovery(t *testing.T) {
	router, sessions := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"user@example.com"}`, nil)
	var login responses.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	// Simulate a server restart: the registry forgets the token.
	sessions.Logout(login.Token)

	rec = doJSON(t, router, http.MethodGet, "/auth/session", "", map[string]string{
		"Authorization":   "Bearer " + login.Token,
		"X-Session-State": login.SessionState,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("recovery status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestSessionStateRecoveryRejectsGarbage(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/auth/session", "", map[string]string{
		"X-Session-State": "@@garbage@@",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	router, sessions := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"user@example.com"}`, nil)
	var login responses.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/logout", "", map[string]string{
		"Authorization": "Bearer " + login.Token,
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}
	if _, ok := sessions.Lookup(login.Token); ok {
		t.Error("token must be gone after logout")
	}
}
