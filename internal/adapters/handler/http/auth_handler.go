package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type CookieConfig struct {
	Domain          string
	Secure          bool
	SameSite        http.SameSite
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieConfig
	logger      *zap.Logger
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	res, err := h.authService.Register(r.Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	h.writeSession(w, res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	res, err := h.authService.Login(r.Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	h.writeSession(w, res)
}

// Refresh issues a new access token from the refresh_token cookie.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "Missing refresh token")
		return
	}

	res, err := h.authService.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		h.expireCookies(w)
		respondError(w, r, h.logger, err, nil)
		return
	}

	h.writeSession(w, res)
}

// Logout revokes the refresh token, if any, and clears both cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to revoke refresh token", zap.Error(err))
		}
	}

	h.expireCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, res *ports.AuthResult) {
	h.setCookie(w, accessTokenCookie, res.AccessToken, h.cookies.AccessTokenTTL)
	h.setCookie(w, refreshTokenCookie, res.RefreshToken, h.cookies.RefreshTokenTTL)
	writeJSON(w, http.StatusOK, authResponse{Token: res.AccessToken, Username: res.Username})
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *AuthHandler) expireCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, MaxAge: -1, Path: "/", Domain: h.cookies.Domain})
	http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, MaxAge: -1, Path: "/", Domain: h.cookies.Domain})
}
