package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/questkitchen/backend/internal/domain/session"
	"github.com/questkitchen/backend/internal/infrastructure/config"
	"github.com/questkitchen/backend/internal/infrastructure/http/middleware"
	"github.com/questkitchen/backend/internal/infrastructure/monitoring"
	"github.com/questkitchen/backend/internal/ports/inbound"
	errs "github.com/questkitchen/backend/pkg/errors"
)

// AuthAPIHandlers handles authentication API requests
type AuthAPIHandlers struct {
	authService inbound.AuthService
	config      *config.Config
	metrics     *monitoring.MetricsCollector
	logger      *zap.Logger
}

// NewAuthAPIHandlers creates a new authentication API handlers instance
func NewAuthAPIHandlers(
	authService inbound.AuthService,
	cfg *config.Config,
	metrics *monitoring.MetricsCollector,
	logger *zap.Logger,
) *AuthAPIHandlers {
	return &AuthAPIHandlers{
		authService: authService,
		config:      cfg,
		metrics:     metrics,
		logger:      logger,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username_charset"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the current user and CSRF token. Both fields are
// null for anonymous callers of GET /api/auth/me.
type AuthResponse struct {
	User      *inbound.UserDTO `json:"user"`
	CSRFToken *string          `json:"csrf_token"`
}

// CSRFTokenResponse carries a freshly issued or refreshed CSRF token
type CSRFTokenResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// Register handles POST /api/auth/register
func (h *AuthAPIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.authService.Register(r.Context(), inbound.RegisterCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.metrics.UserRegistered()
	h.setSessionCookies(w, result.Session)
	writeJSON(w, h.logger, http.StatusCreated, AuthResponse{
		User:      &result.User,
		CSRFToken: &result.Session.CSRFToken,
	})
}

// Login handles POST /api/auth/login
func (h *AuthAPIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.authService.Login(r.Context(), inbound.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.metrics.UserLogin("failure")
		writeError(w, h.logger, err)
		return
	}

	h.metrics.UserLogin("success")
	h.setSessionCookies(w, result.Session)
	writeJSON(w, h.logger, http.StatusOK, AuthResponse{
		User:      &result.User,
		CSRFToken: &result.Session.CSRFToken,
	})
}

// Logout handles POST /api/auth/logout. Anonymous callers still receive
// 200 so a stale client can always reset its cookies.
func (h *AuthAPIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.config.Session.CookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	h.clearSessionCookies(w)
	writeJSON(w, h.logger, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Me handles GET /api/auth/me
func (h *AuthAPIHandlers) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, h.logger, http.StatusOK, AuthResponse{})
		return
	}

	// Sessions created before a CSRF token existed get one minted here,
	// so the token always comes from the service rather than the context.
	token, err := h.authService.CSRFToken(r.Context(), sess.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.setCSRFCookie(w, token, sess.ExpiresAt)
	writeJSON(w, h.logger, http.StatusOK, AuthResponse{
		User:      &inbound.UserDTO{ID: sess.UserID, Username: sess.Username},
		CSRFToken: &token,
	})
}

// CSRFToken handles GET /api/auth/csrf-token
func (h *AuthAPIHandlers) CSRFToken(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, errs.NewUnauthorizedError(""))
		return
	}

	token, err := h.authService.CSRFToken(r.Context(), sess.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.setCSRFCookie(w, token, sess.ExpiresAt)
	writeJSON(w, h.logger, http.StatusOK, CSRFTokenResponse{CSRFToken: token})
}

// setSessionCookies writes both cookies for a freshly created session
func (h *AuthAPIHandlers) setSessionCookies(w http.ResponseWriter, sess *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.config.Session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.config.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	h.setCSRFCookie(w, sess.CSRFToken, sess.ExpiresAt)
}

// setCSRFCookie writes the CSRF cookie. It is deliberately not HTTP-only:
// the frontend reads it and echoes the value in the X-CSRF-Token header.
func (h *AuthAPIHandlers) setCSRFCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CSRF.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: false,
		Secure:   h.config.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookies expires both cookies on the client
func (h *AuthAPIHandlers) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{h.config.Session.CookieName, h.config.CSRF.CookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: name == h.config.Session.CookieName,
			Secure:   h.config.Session.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
