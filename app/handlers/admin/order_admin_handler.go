package admin

import (
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/handlers"
)

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAllOrders(r.Context())
	if err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.render, "order_id")
	if !ok {
		return
	}

	var in orderStatusRequest
	if !handlers.DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	order, err := h.orders.AdminUpdateStatus(r.Context(), id, in.Status)
	if err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, order)
}

func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.render, "order_id")
	if !ok {
		return
	}
	if err := h.orders.AdminDeleteOrder(r.Context(), id); err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, handlers.Message{Message: "Order deleted successfully"})
}
