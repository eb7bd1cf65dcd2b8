package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/Rakhulsr/go-foodie/app/utils/sessions"
	"github.com/unrolled/render"
)

type LoginResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type AuthHandler struct {
	authSvc      *services.AuthService
	sessionStore sessions.SessionStore
	render       *render.Render
}

func NewAuthHandler(authSvc *services.AuthService, sessionStore sessions.SessionStore, render *render.Render) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, sessionStore: sessionStore, render: render}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := helpers.DecodeJSONBody(r, &input); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	user, err := h.authSvc.Register(r.Context(), input)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, user)
}

// Login starts a cookie session and also returns a bearer token for
// clients that cannot keep cookies.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := helpers.DecodeJSONBody(r, &input); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	user, err := h.authSvc.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		log.Printf("AuthHandler.Login: %s: %v", input.Username, err)
		helpers.RespondError(h.render, w, r, err)
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	resp := LoginResponse{User: user}
	token, expires, err := h.authSvc.IssueToken(user)
	if err != nil {
		log.Printf("AuthHandler.Login: no bearer token for %s: %v", user.Username, err)
	} else {
		resp.Token = token
		resp.ExpiresAt = expires
	}
	h.render.JSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.render.JSON(w, http.StatusOK, helpers.CurrentUser(r))
}
