package admin

import (
	"net/http"
	"strings"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/handlers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type AdminHandler struct {
	render    *render.Render
	validator *validator.Validate
	accounts  *services.AccountService
	catalog   *services.CatalogService
	orders    *services.OrderService
	log       *zap.Logger
}

func NewAdminHandler(
	render *render.Render,
	validator *validator.Validate,
	accounts *services.AccountService,
	catalog *services.CatalogService,
	orders *services.OrderService,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		render:    render,
		validator: validator,
		accounts:  accounts,
		catalog:   catalog,
		orders:    orders,
		log:       log,
	}
}

type dashboardSummary struct {
	Users            int            `json:"users"`
	Products         int            `json:"products"`
	PendingApprovals int            `json:"pending_approvals"`
	Orders           int            `json:"orders"`
	OrdersByStatus   map[string]int `json:"orders_by_status"`
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.accounts.ListUsers(ctx)
	if err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	products, err := h.catalog.ListAllProducts(ctx)
	if err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	orders, err := h.orders.ListAllOrders(ctx)
	if err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}

	summary := dashboardSummary{
		Users:          len(users),
		Products:       len(products),
		Orders:         len(orders),
		OrdersByStatus: map[string]int{},
	}
	for _, p := range products {
		if !p.Approved {
			summary.PendingApprovals++
		}
	}
	for _, o := range orders {
		summary.OrdersByStatus[strings.ToLower(orderStatus(o))]++
	}

	h.render.JSON(w, http.StatusOK, summary)
}

func orderStatus(o models.Order) string {
	if o.Status == "" {
		return models.OrderStatusPending
	}
	return o.Status
}
