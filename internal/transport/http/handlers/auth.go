package http_handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/deskhive/deskhive/internal/application/auth"
	"github.com/deskhive/deskhive/internal/infrastructure/security"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/transport/http/dto"
	"github.com/deskhive/deskhive/internal/transport/http/response"
)

type AuthHandler struct {
	svc           *auth.Service
	sessionTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(svc *auth.Service, sessionTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		UserType: req.UserType,
		Image:    req.Image,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Msg("user_registered")

	response.Created(w, dto.ToUserView(u))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	security.SetSessionToken(w, res.Token.Value, h.sessionTTL, h.secureCookies)

	response.OK(w, dto.LoginResponse{
		User:      dto.ToUserView(res.User),
		ExpiresIn: res.Token.ExpiresIn,
	})
}

// Logout clears the session cookie unconditionally. No token check: a
// client with broken or absent state still ends up logged out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	security.ClearSessionToken(w, h.secureCookies)
	response.OK(w, dto.LogoutResponse{Success: true})
}

// InitiateReset handles POST /api/updatepassword: step one of the reset
// handshake. Generates the code, stores it with its expiry, and hands it
// to the sender.
func (h *AuthHandler) InitiateReset(w http.ResponseWriter, r *http.Request) {
	var req dto.InitiateResetRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.InitiateReset(r.Context(), req.Email); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, dto.InitiateResetResponse{Success: true, Message: "Email sent."})
}

// VerifyCode handles POST /api/verifycode: step two, read-only check of
// the submitted code. Does not consume the code.
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyCodeRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.VerifyResetCode(r.Context(), strings.TrimSpace(req.Email), req.Code); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.VerifyCodeResponse{Success: true})
}

// ResetPassword handles POST /api/resetpassword: step three. Re-validates
// the code and installs the new password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.CompleteReset(r.Context(), strings.TrimSpace(req.Email), req.Code, req.NewPassword); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().Msg("password_reset_completed")

	response.OK(w, dto.ResetPasswordResponse{Success: true, Message: "Password updated."})
}
