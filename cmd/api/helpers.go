package main

import (
	"encoding/json"
	"io"
	"net/http"

	"campuskart/internal/models"
	"campuskart/internal/payment"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type envelope map[string]interface{}

const maxBodyBytes = 1 << 20

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope) {
	body, err := json.Marshal(data)
	if err != nil {
		app.logger.Error().Err(err).Msg("encoding response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &models.ValidationError{Message: "Malformed request body"}
	}
	return nil
}

// errorResponse is the single funnel every handler's error path runs
// through. It maps the error taxonomy to status codes and always emits
// {"success": false, "message": ...}.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError

	switch {
	case errors.Is(err, models.ErrNoRecord):
		app.writeJSON(w, http.StatusNotFound, envelope{"success": false, "message": "Not Found"})
	case errors.As(err, &ve):
		app.writeJSON(w, http.StatusBadRequest, envelope{"success": false, "message": ve.Message})
	case errors.Is(err, models.ErrDuplicateIdentity):
		app.writeJSON(w, http.StatusBadRequest, envelope{"success": false, "message": "Email is already registered"})
	case errors.Is(err, models.ErrInvalidCredentials):
		app.writeJSON(w, http.StatusUnauthorized, envelope{"success": false, "message": "Invalid email or password"})
	case errors.Is(err, models.ErrAlreadyDelivered):
		app.writeJSON(w, http.StatusBadRequest, envelope{"success": false, "message": "You have already delivered this order"})
	case errors.Is(err, payment.ErrVerificationFailed):
		app.writeJSON(w, http.StatusBadRequest, envelope{"success": false, "message": "Payment Failed"})
	default:
		app.logger.Error().Str("uri", r.URL.RequestURI()).Msgf("%+v", err)
		app.writeJSON(w, http.StatusInternalServerError, envelope{"success": false, "message": "Internal Server Error"})
	}
}

// pathID parses the :id URL parameter as an object id.
func pathID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get(":id"))
	if err != nil {
		return primitive.NilObjectID, models.ErrNoRecord
	}
	return id, nil
}

// formFile pulls a multipart upload out of the request. A missing file is
// reported as (nil, "", "", nil); callers decide whether that is an error.
func formFile(r *http.Request, field string) (io.ReadCloser, string, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", "", nil
		}
		return nil, "", "", &models.ValidationError{Message: "Malformed file upload"}
	}
	return file, header.Filename, header.Header.Get("Content-Type"), nil
}

// deleteBlob is best-effort image cleanup: failures are logged, never
// surfaced to the client.
func (app *application) deleteBlob(key string) {
	if err := app.images.Delete(key); err != nil {
		app.logger.Warn().Err(err).Str("key", key).Msg("failed to delete blob")
	}
}
