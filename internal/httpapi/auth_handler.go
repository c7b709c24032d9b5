package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/csukav/Webshop/internal/auth"
	"github.com/csukav/Webshop/internal/auth/repository"
	"github.com/csukav/Webshop/internal/domain"
)

type AuthHandler struct {
	auth       *auth.Service
	sessionTTL time.Duration
}

func NewAuthHandler(authService *auth.Service, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: authService, sessionTTL: sessionTTL}
}

type RegisterRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileResponseDTO struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	FullName string      `json:"full_name,omitempty"`
	Role     domain.Role `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	profile, token, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailRequired):
			respondError(w, http.StatusBadRequest, "email_required", err.Error())
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondError(w, http.StatusBadRequest, "password_too_short", err.Error())
		case errors.Is(err, repository.ErrDuplicateEmail):
			respondError(w, http.StatusConflict, "email_taken", "this email is already registered")
		default:
			respondError(w, http.StatusInternalServerError, "registration_failed", err.Error())
		}
		return
	}

	h.setSessionCookie(w, token)
	respondJSON(w, http.StatusCreated, profileDTO(profile))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	profile, token, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "login_failed", err.Error())
		return
	}

	h.setSessionCookie(w, token)
	respondJSON(w, http.StatusOK, profileDTO(profile))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		if errOut := h.auth.SignOut(r.Context(), cookie.Value); errOut != nil {
			respondError(w, http.StatusInternalServerError, "logout_failed", errOut.Error())
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "not signed in")
		return
	}

	profile, err := h.auth.CurrentProfile(r.Context(), identity)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			respondError(w, http.StatusUnauthorized, "unauthorized", "profile no longer exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "profile_lookup_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, profileDTO(profile))
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func profileDTO(p *domain.Profile) ProfileResponseDTO {
	return ProfileResponseDTO{
		ID:       p.ID.String(),
		Email:    p.Email,
		FullName: p.FullName,
		Role:     p.Role,
	}
}
