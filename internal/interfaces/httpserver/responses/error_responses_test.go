package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"triage-server/internal/utils/platformerrors"
)

func renderError(t *testing.T, render func(*gin.Context)) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	render(c)

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return rec, body
}

func TestHandleErrorRendersPlatformError(t *testing.T) {
	ctx := context.WithValue(context.Background(), "requestID", "req-123") //nolint:staticcheck
	domainErr := platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")

	rec, body := renderError(t, func(c *gin.Context) {
		HandleError(c, domainErr, "lookup failed")
	})

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if body.Error != "conversation not found" {
		t.Errorf("expected the domain message, got %q", body.Error)
	}
	if body.Code == "" {
		t.Error("expected the error instance id in the body")
	}
	if body.RequestID != "req-123" {
		t.Errorf("expected the request id to be echoed, got %q", body.RequestID)
	}
}

func TestHandleErrorFallsBackForPlainErrors(t *testing.T) {
	rec, body := renderError(t, func(c *gin.Context) {
		HandleError(c, errors.New("disk on fire"), "something went wrong")
	})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if body.Error != "something went wrong" {
		t.Errorf("wrapped errors must not reach the client, got %q", body.Error)
	}
}

func TestHandleNewErrorRendersRouteError(t *testing.T) {
	rec, body := renderError(t, func(c *gin.Context) {
		HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "")
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if body.Error != "invalid request body" {
		t.Errorf("unexpected error message %q", body.Error)
	}
	if body.Code == "" {
		t.Error("expected a generated error instance id")
	}
}
