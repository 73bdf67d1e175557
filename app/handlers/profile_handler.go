package handlers

import (
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	render    *render.Render
	accounts  *services.AccountService
	validator *validator.Validate
	log       *zap.Logger
}

func NewProfileHandler(rnd *render.Render, accounts *services.AccountService, v *validator.Validate, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{render: rnd, accounts: accounts, validator: v, log: log}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	h.render.JSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)

	var in services.ProfileUpdate
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	updated, err := h.accounts.UpdateProfile(r.Context(), user, in)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, updated)
}

func (h *ProfileHandler) BecomeArtisan(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	if err := h.accounts.BecomeArtisan(r.Context(), user); err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, Message{Message: "You are now an artisan"})
}
