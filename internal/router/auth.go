package router

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/GustavoCaso/spadesk/internal/storage"
)

const authRealm = `Basic realm="spadesk"`

// requireAuth checks HTTP basic credentials against the users table when auth is enabled.
func (router *router) requireAuth(next http.Handler) http.Handler {
	if !router.conf.Server.Auth {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username == "" {
			router.unauthorized(w)
			return
		}

		user, err := router.storage.GetUserByUsername(r.Context(), username)
		if err != nil {
			var notFoundErr *storage.NotFoundError
			if errors.As(err, &notFoundErr) {
				router.unauthorized(w)
				return
			}
			router.logger.Error("Failed to get user", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			return
		}

		if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(password)); err != nil {
			router.logger.Debug("Invalid credentials", "username", username)
			router.unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (router *router) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", authRealm)
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}
