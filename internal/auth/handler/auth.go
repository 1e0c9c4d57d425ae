package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"carbook/internal/auth/service"
	"carbook/internal/auth/session"
	apperrors "carbook/pkg/errors"
	httputil "carbook/pkg/http"
	"carbook/pkg/logger"
	"carbook/pkg/model"
)

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

type sessionResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	creds, ok := h.decodeCredentials(w, r, "Register")
	if !ok {
		return
	}

	sess, err := h.service.Register(r.Context(), creds)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	session.SetCookie(w, sess)
	if err := httputil.WriteSuccess(w, sessionResponse{Success: true, Name: sess.Name, Email: sess.Email}); err != nil {
		h.log.Error("failed to write success response", "handler", "Register", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	creds, ok := h.decodeCredentials(w, r, "Login")
	if !ok {
		return
	}

	sess, err := h.service.Login(r.Context(), creds)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	session.SetCookie(w, sess)
	if err := httputil.WriteSuccess(w, sessionResponse{Success: true, Name: sess.Name, Email: sess.Email}); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "error", err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := ""
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		token = cookie.Value
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		h.writeError(w, "Logout", err)
		return
	}

	session.ClearCookie(w)
	if err := httputil.WriteSuccess(w, map[string]bool{"success": true}); err != nil {
		h.log.Error("failed to write success response", "handler", "Logout", "error", err)
	}
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request, op string) (model.Credentials, bool) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeError(w, op, apperrors.InvalidInput("Request body must be valid JSON"))
		return model.Credentials{}, false
	}
	return creds, true
}

func (h *AuthHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/register", h.Register)
	router.POST("/api/login", h.Login)
	router.POST("/api/logout", h.Logout)
}
