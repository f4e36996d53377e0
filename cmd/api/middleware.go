package main

import (
	"net/http"

	"campuskart/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	sessionKeyUserID   = "authenticatedUserID"
	sessionKeyUserRole = "userRole"
	sessionKeyUserName = "userName"
	sessionKeyState    = "oauthState"
)

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.Info().
			Str("remote", r.RemoteAddr).
			Str("method", r.Method).
			Str("uri", r.URL.RequestURI()).
			Msg("request")
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.logger.Error().Interface("panic", err).Msg("recovered from panic")
				app.writeJSON(w, http.StatusInternalServerError, envelope{
					"success": false,
					"message": "Internal Server Error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (app *application) isAuthenticated(r *http.Request) bool {
	return app.session.Exists(r.Context(), sessionKeyUserID)
}

// requireAuthentication gates a handler on an active session.
func (app *application) requireAuthentication(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !app.isAuthenticated(r) {
			app.writeJSON(w, http.StatusUnauthorized, envelope{
				"success": false,
				"message": "Not Logged In",
			})
			return
		}
		next(w, r)
	}
}

// requireAdmin gates a handler on role=admin. The role check only ever runs
// behind requireAuthentication, so the session user is known to exist.
func (app *application) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return app.requireAuthentication(func(w http.ResponseWriter, r *http.Request) {
		if app.session.GetString(r.Context(), sessionKeyUserRole) != models.RoleAdmin {
			app.writeJSON(w, http.StatusMethodNotAllowed, envelope{
				"success": false,
				"message": "Only Admin Allowed",
			})
			return
		}
		next(w, r)
	})
}

// currentUserID reads the authenticated account id out of the session.
func (app *application) currentUserID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(app.session.GetString(r.Context(), sessionKeyUserID))
}

// signIn binds the session to the account.
func (app *application) signIn(r *http.Request, user *models.User) {
	app.session.Put(r.Context(), sessionKeyUserID, user.ID.Hex())
	app.session.Put(r.Context(), sessionKeyUserRole, user.Role)
	app.session.Put(r.Context(), sessionKeyUserName, user.Name)
}
