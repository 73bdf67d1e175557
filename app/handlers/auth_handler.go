package handlers

import (
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type AuthHandler struct {
	render    *render.Render
	auth      *services.AuthService
	validator *validator.Validate
	log       *zap.Logger
}

func NewAuthHandler(rnd *render.Render, auth *services.AuthService, v *validator.Validate, log *zap.Logger) *AuthHandler {
	return &AuthHandler{render: rnd, auth: auth, validator: v, log: log}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}
	h.issueToken(w, r, in.Email, in.Password)
}

// Token is the form-encoded password grant; username carries the email.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.JSON(w, http.StatusUnprocessableEntity, errorBody{Detail: "invalid form body"})
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if username == "" || password == "" {
		h.render.JSON(w, http.StatusUnprocessableEntity, errorBody{Detail: "username and password are required"})
		return
	}
	h.issueToken(w, r, username, password)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, email, password string) {
	token, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.render.JSON(w, http.StatusUnprocessableEntity, errorBody{Detail: "token is required"})
		return
	}
	if err := h.auth.VerifyEmail(r.Context(), token); err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, Message{Message: "Email verified successfully"})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in forgotPasswordRequest
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}
	if err := h.auth.ForgotPassword(r.Context(), in.Email); err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, Message{Message: "Password reset email sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in resetPasswordRequest
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}
	if err := h.auth.ResetPassword(r.Context(), in.Token, in.NewPassword); err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, Message{Message: "Password has been reset successfully"})
}
