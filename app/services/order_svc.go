package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models/other"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/utils/calc"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	msgOrderNotFound        = "Order not found"
	msgBillNotFound         = "Bill not found for this order"
	msgNoOrders             = "No orders found for this user"
	msgNoBrands             = "No brands found for this user"
	msgArtisanOrderNotFound = "Order not found or does not contain your products"
	msgOrderDeleteForbidden = "Cannot delete order: bill is already confirmed or processed."
)

type OrderLine struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Size      *string `json:"size" validate:"omitempty,max=50"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
}

// ArtisanStatuses are the order statuses an artisan may set on a paid order.
var ArtisanStatuses = []string{models.OrderStatusShipped, models.OrderStatusDelivered}

type OrderService struct {
	db            *gorm.DB
	productRepo   repositories.ProductRepository
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	billRepo      repositories.BillRepository
	brandRepo     repositories.BrandRepository
	stock         *StockEngine
	baseURL       string
	log           *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	billRepo repositories.BillRepository,
	brandRepo repositories.BrandRepository,
	stock *StockEngine,
	baseURL string,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		db:            db,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		billRepo:      billRepo,
		brandRepo:     brandRepo,
		stock:         stock,
		baseURL:       strings.TrimRight(baseURL, "/"),
		log:           log,
	}
}

// CreateOrder persists the order, its items and a pending bill in one
// transaction. Any failing line rolls the whole order back.
func (s *OrderService) CreateOrder(ctx context.Context, user *models.User, lines []OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, detail(ErrValidation, "order_items must contain at least one item")
	}
	for i, line := range lines {
		if line.Quantity < 1 {
			return nil, detail(ErrValidation, fmt.Sprintf("order_items[%d].quantity must be at least 1", i))
		}
	}

	order := &models.Order{
		UserID: user.ID,
		Status: models.OrderStatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		priced := make([]calc.Line, 0, len(lines))
		for _, line := range lines {
			product, err := s.productRepo.GetByIDForUpdate(ctx, tx, line.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %d: %w", line.ProductID, err)
			}
			if product == nil {
				return detail(ErrNotFound, fmt.Sprintf("Product with id %d not found", line.ProductID))
			}
			if err := s.stock.CheckAvailability(product, line.Quantity); err != nil {
				return err
			}
			priced = append(priced, calc.Line{Price: product.Price, Quantity: line.Quantity})
		}

		total, err := calc.ComputeTotal(priced)
		if err != nil {
			return detail(ErrValidation, err.Error())
		}

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]models.OrderItem, len(lines))
		for i, line := range lines {
			items[i] = models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Size:      line.Size,
				Quantity:  line.Quantity,
			}
		}
		if err := s.orderItemRepo.BulkCreate(ctx, tx, items); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		bill := &models.Bill{
			OrderID: order.ID,
			Amount:  total,
			Method:  models.BillMethodPending,
			TrxID:   models.BillTrxPlaceholder,
			Status:  models.BillStatusPending,
		}
		if err := s.billRepo.Create(ctx, tx, bill); err != nil {
			return fmt.Errorf("failed to create bill: %w", err)
		}

		order.OrderItems = items
		order.Bill = bill
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", user.ID),
		zap.String("amount", order.Bill.Amount.StringFixed(calc.MoneyScale)))
	return order, nil
}

func (s *OrderService) summary(order models.Order) other.OrderSummary {
	return other.OrderSummary{
		OrderID:           order.ID,
		UserID:            order.UserID,
		Status:            order.Status,
		OrderDetailsURL:   fmt.Sprintf("%s/order/%d", s.baseURL, order.ID),
		ProductDetailsURL: fmt.Sprintf("%s/order/%d/products", s.baseURL, order.ID),
	}
}

func (s *OrderService) ListMyOrders(ctx context.Context, user *models.User) ([]other.OrderSummary, error) {
	orders, err := s.orderRepo.GetOrdersByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, detail(ErrNotFound, msgNoOrders)
	}

	summaries := make([]other.OrderSummary, len(orders))
	for i, order := range orders {
		summaries[i] = s.summary(order)
	}
	return summaries, nil
}

func (s *OrderService) ListMyOrderDetails(ctx context.Context, user *models.User) ([]other.OrderDetail, error) {
	orders, err := s.orderRepo.GetOrdersByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, detail(ErrNotFound, msgNoOrders)
	}

	details := make([]other.OrderDetail, 0, len(orders))
	for i := range orders {
		d, err := s.buildDetail(ctx, &orders[i], nil)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func (s *OrderService) ownedOrder(ctx context.Context, user *models.User, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, detail(ErrNotFound, msgOrderNotFound)
	}
	return order, nil
}

func (s *OrderService) GetBill(ctx context.Context, user *models.User, orderID uint) (*models.Bill, error) {
	order, err := s.ownedOrder(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	if order.Bill == nil {
		return nil, detail(ErrNotFound, msgBillNotFound)
	}
	return order.Bill, nil
}

func (s *OrderService) GetOrderDetails(ctx context.Context, user *models.User, orderID uint) (*other.OrderDetail, error) {
	order, err := s.ownedOrder(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	if order.Bill == nil {
		return nil, detail(ErrNotFound, msgBillNotFound)
	}
	return s.buildDetail(ctx, order, nil)
}

func (s *OrderService) buildDetail(ctx context.Context, order *models.Order, brandIDs []uint) (*other.OrderDetail, error) {
	items, err := s.orderRepo.ItemDetails(ctx, order.ID, brandIDs)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []other.OrderItemDetail{}
	}

	d := &other.OrderDetail{
		OrderID:    order.ID,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
		OrderItems: items,
	}

	bill := order.Bill
	if bill == nil {
		bill, err = s.billRepo.FindByOrderID(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get bill for order %d: %w", order.ID, err)
		}
	}
	if bill != nil {
		status, amount := bill.Status, bill.Amount
		d.BillStatus = &status
		d.BillAmount = &amount
	}
	return d, nil
}

// DeleteOrder removes an order while its bill is still pending.
func (s *OrderService) DeleteOrder(ctx context.Context, user *models.User, orderID uint) error {
	order, err := s.ownedOrder(ctx, user, orderID)
	if err != nil {
		return err
	}
	return s.deleteOrder(ctx, order)
}

func (s *OrderService) deleteOrder(ctx context.Context, order *models.Order) error {
	if order.Bill == nil {
		return detail(ErrNotFound, msgBillNotFound)
	}
	if !order.Bill.IsPending() {
		return detail(ErrInvalidState, msgOrderDeleteForbidden)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-check under the transaction so a confirmation racing the delete wins.
		var pending int64
		if err := tx.Model(&models.Bill{}).
			Where("order_id = ? AND LOWER(status) = ?", order.ID, strings.ToLower(models.BillStatusPending)).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending == 0 {
			return detail(ErrInvalidState, msgOrderDeleteForbidden)
		}
		return s.orderRepo.Delete(ctx, tx, order.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail(ErrNotFound, msgOrderNotFound)
		}
		return err
	}

	s.log.Info("order deleted", zap.Uint("order_id", order.ID), zap.Uint("user_id", order.UserID))
	return nil
}

func (s *OrderService) artisanBrandIDs(ctx context.Context, user *models.User) ([]uint, error) {
	brandIDs, err := s.brandRepo.IDsByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	if len(brandIDs) == 0 {
		return nil, detail(ErrNotFound, msgNoBrands)
	}
	return brandIDs, nil
}

func (s *OrderService) ListArtisanOrders(ctx context.Context, user *models.User) ([]other.OrderSummary, error) {
	brandIDs, err := s.artisanBrandIDs(ctx, user)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.GetOrdersByBrandIDs(ctx, brandIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list artisan orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, detail(ErrNotFound, msgNoOrders)
	}

	summaries := make([]other.OrderSummary, len(orders))
	for i, order := range orders {
		summaries[i] = s.summary(order)
	}
	return summaries, nil
}

func (s *OrderService) artisanOrder(ctx context.Context, user *models.User, orderID uint) (*models.Order, []uint, error) {
	brandIDs, err := s.artisanBrandIDs(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	order, err := s.orderRepo.GetByIDForBrands(ctx, orderID, brandIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, nil, detail(ErrNotFound, msgArtisanOrderNotFound)
	}
	return order, brandIDs, nil
}

// GetArtisanOrderDetails lists only the lines of the order that belong to the
// artisan's brands.
func (s *OrderService) GetArtisanOrderDetails(ctx context.Context, user *models.User, orderID uint) (*other.OrderDetail, error) {
	order, brandIDs, err := s.artisanOrder(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, order, brandIDs)
}

// UpdateArtisanOrderStatus changes the fulfilment status of a paid order. The
// bill is never touched here.
func (s *OrderService) UpdateArtisanOrderStatus(ctx context.Context, user *models.User, orderID uint, status string) (*models.Order, error) {
	canonical, ok := canonicalStatus(status, ArtisanStatuses)
	if !ok {
		return nil, detail(ErrValidation, fmt.Sprintf("status must be one of: %s", strings.Join(ArtisanStatuses, ", ")))
	}

	order, _, err := s.artisanOrder(ctx, user, orderID)
	if err != nil {
		return nil, err
	}

	bill, err := s.billRepo.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill for order %d: %w", order.ID, err)
	}
	if bill == nil || !bill.IsConfirmed() {
		return nil, detail(ErrInvalidState, "Order status can only change after the bill is confirmed.")
	}

	if err := s.orderRepo.UpdateStatus(ctx, s.db, order.ID, canonical); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = canonical
	return order, nil
}

// Admin operations.

func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAllOrders(ctx)
}

func (s *OrderService) AdminUpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	all := []string{
		models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusFailed,
		models.OrderStatusCancelled, models.OrderStatusShipped, models.OrderStatusDelivered,
	}
	canonical, ok := canonicalStatus(status, all)
	if !ok {
		return nil, detail(ErrValidation, fmt.Sprintf("status must be one of: %s", strings.Join(all, ", ")))
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, detail(ErrNotFound, msgOrderNotFound)
	}
	if err := s.orderRepo.UpdateStatus(ctx, s.db, order.ID, canonical); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = canonical
	return order, nil
}

func (s *OrderService) AdminDeleteOrder(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if order == nil {
		return detail(ErrNotFound, msgOrderNotFound)
	}
	return s.deleteOrder(ctx, order)
}

func canonicalStatus(status string, allowed []string) (string, bool) {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(status), a) {
			return a, true
		}
	}
	return "", false
}
