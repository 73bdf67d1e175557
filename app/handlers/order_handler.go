package handlers

import (
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type OrderHandler struct {
	render    *render.Render
	orders    *services.OrderService
	validator *validator.Validate
	log       *zap.Logger
}

func NewOrderHandler(rnd *render.Render, orders *services.OrderService, v *validator.Validate, log *zap.Logger) *OrderHandler {
	return &OrderHandler{render: rnd, orders: orders, validator: v, log: log}
}

type createOrderRequest struct {
	OrderItems []services.OrderLine `json:"order_items" validate:"required,min=1,dive"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)

	var in createOrderRequest
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), user, in.OrderItems)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	orders, err := h.orders.ListMyOrders(r.Context(), user)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) MyOrderDetails(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	details, err := h.orders.ListMyOrderDetails(r.Context(), user)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, details)
}

func (h *OrderHandler) Bill(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	id, ok := PathID(w, r, h.render, "order_id")
	if !ok {
		return
	}
	bill, err := h.orders.GetBill(r.Context(), user, id)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, bill)
}

func (h *OrderHandler) Details(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	id, ok := PathID(w, r, h.render, "order_id")
	if !ok {
		return
	}
	details, err := h.orders.GetOrderDetails(r.Context(), user, id)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, details)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	id, ok := PathID(w, r, h.render, "order_id")
	if !ok {
		return
	}
	if err := h.orders.DeleteOrder(r.Context(), user, id); err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, Message{Message: "Order deleted successfully"})
}

func (h *OrderHandler) ArtisanOrders(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	orders, err := h.orders.ListArtisanOrders(r.Context(), user)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ArtisanOrderDetails(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	id, ok := PathID(w, r, h.render, "order_id")
	if !ok {
		return
	}
	details, err := h.orders.GetArtisanOrderDetails(r.Context(), user, id)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, details)
}

func (h *OrderHandler) ArtisanUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	id, ok := PathID(w, r, h.render, "order_id")
	if !ok {
		return
	}

	var in orderStatusRequest
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	order, err := h.orders.UpdateArtisanOrderStatus(r.Context(), user, id, in.Status)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, order)
}
