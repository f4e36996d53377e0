package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campuskart/internal/models"
	"campuskart/internal/payment"

	"github.com/alexedwards/scs/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication() *application {
	return &application{
		logger:  zerolog.Nop(),
		session: scs.New(),
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorResponseTaxonomy(t *testing.T) {
	app := newTestApplication()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", models.ErrNoRecord, http.StatusNotFound, "Not Found"},
		{"wrapped not found", errors.Wrap(models.ErrNoRecord, "getting order"), http.StatusNotFound, "Not Found"},
		{"validation", &models.ValidationError{Message: "Please enter product name"}, http.StatusBadRequest, "Please enter product name"},
		{"duplicate identity", models.ErrDuplicateIdentity, http.StatusBadRequest, "Email is already registered"},
		{"invalid credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"already delivered", models.ErrAlreadyDelivered, http.StatusBadRequest, "You have already delivered this order"},
		{"payment failed", payment.ErrVerificationFailed, http.StatusBadRequest, "Payment Failed"},
		{"unhandled", errors.New("mongo exploded"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/anything", nil)

			app.errorResponse(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestWriteJSON(t *testing.T) {
	app := newTestApplication()
	rec := httptest.NewRecorder()

	app.writeJSON(rec, http.StatusCreated, envelope{"success": true, "message": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestReadJSONMalformedBody(t *testing.T) {
	app := newTestApplication()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", nil)

	var dst struct{}
	err := app.readJSON(rec, req, &dst)
	require.Error(t, err)
	var ve *models.ValidationError
	assert.ErrorAs(t, err, &ve)
}
