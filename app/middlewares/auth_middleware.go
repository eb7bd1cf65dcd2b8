package middlewares

import (
	"log"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/Rakhulsr/go-foodie/app/utils/sessions"
	"github.com/unrolled/render"
)

type AuthMiddleware struct {
	sessions sessions.SessionStore
	auth     *services.AuthService
	render   *render.Render
}

func NewAuthMiddleware(store sessions.SessionStore, auth *services.AuthService, rnd *render.Render) *AuthMiddleware {
	return &AuthMiddleware{sessions: store, auth: auth, render: rnd}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// Identify attaches the current user, if any, to the request context. A
// bearer token takes precedence over the session cookie; a bad token is
// rejected rather than silently ignored.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := ""
		if token := bearerToken(r); token != "" {
			id, err := m.auth.ParseToken(token)
			if err != nil {
				helpers.RespondError(m.render, w, r, err)
				return
			}
			userID = id
		} else {
			userID = m.sessions.GetUserID(r)
		}

		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.auth.UserByID(r.Context(), userID)
		if err != nil {
			helpers.RespondError(m.render, w, r, err)
			return
		}
		if user == nil {
			log.Printf("AuthMiddleware.Identify: user %s no longer exists", userID)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(helpers.WithUser(r.Context(), user)))
	})
}

func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if helpers.CurrentUser(r) == nil {
			helpers.RespondError(m.render, w, r, apperr.Unauthorized("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := helpers.CurrentUser(r)
		if user == nil {
			helpers.RespondError(m.render, w, r, apperr.Unauthorized("authentication required"))
			return
		}
		if !user.IsAdmin() {
			log.Printf("AuthMiddleware.RequireAdmin: user %s attempted %s %s", user.Username, r.Method, r.URL.Path)
			helpers.RespondError(m.render, w, r, apperr.Forbidden("you do not have permission to perform this action"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IsBearerRequest is used to exempt token clients from cookie CSRF checks.
func IsBearerRequest(r *http.Request) bool {
	return bearerToken(r) != ""
}
