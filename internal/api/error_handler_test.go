package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lostfound/board-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"email taken", domain.ErrEmailTaken, http.StatusConflict, "email already in use"},
		{"idempotency key busy", domain.ErrIdempotencyInProgress, http.StatusConflict, "a request with this idempotency key is in progress"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"missing token", domain.ErrMissingToken, http.StatusUnauthorized, "missing token"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "invalid or expired token"},
		{"missing refresh", domain.ErrMissingRefreshToken, http.StatusUnauthorized, "missing refresh token"},
		{"invalid refresh", domain.ErrInvalidRefreshToken, http.StatusUnauthorized, "invalid or expired refresh token"},
		{"non-owner wrapped", fmt.Errorf("update: %w", domain.ErrForbidden), http.StatusUnauthorized, "not authorized"},
		{"item not found", domain.ErrItemNotFound, http.StatusNotFound, "item not found"},
		{"echo error", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"), http.StatusRequestEntityTooLarge, "Request Entity Too Large"},
		{"unexpected", errors.New("mongo: socket closed"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/items", nil), rec)

			handler(tt.err, c)

			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.message {
				t.Errorf("error = %q, want %q", body.Error, tt.message)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/items", nil), rec)

	verr := &domain.ValidationError{}
	verr.Add("title", "title is required")
	verr.Add("location.address", "location.address is required")
	NewHTTPErrorHandler(zerolog.Nop())(verr, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "validation failed" || len(body.Fields) != 2 || body.Fields[1].Field != "location.address" {
		t.Errorf("body = %+v", body)
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Errorf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
