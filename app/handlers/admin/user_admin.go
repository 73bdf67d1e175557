package admin

import (
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/handlers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
)

type promoteRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.render, "user_id")
	if !ok {
		return
	}

	var in services.ProfileUpdate
	if !handlers.DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	user, err := h.accounts.AdminUpdateUser(r.Context(), id, in)
	if err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, user)
}

func (h *AdminHandler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.render, "user_id")
	if !ok {
		return
	}

	var in promoteRequest
	if !handlers.DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	user, err := h.accounts.Promote(r.Context(), id, in.Role)
	if err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.render, "user_id")
	if !ok {
		return
	}
	if err := h.accounts.DeleteUser(r.Context(), id); err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, handlers.Message{Message: "User deleted successfully"})
}
