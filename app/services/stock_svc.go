package services

import (
	"context"
	"fmt"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StockEngine struct {
	productRepo   repositories.ProductRepository
	orderItemRepo repositories.OrderItemRepository
	log           *zap.Logger
}

func NewStockEngine(productRepo repositories.ProductRepository, orderItemRepo repositories.OrderItemRepository, log *zap.Logger) *StockEngine {
	return &StockEngine{
		productRepo:   productRepo,
		orderItemRepo: orderItemRepo,
		log:           log,
	}
}

// CheckAvailability is the read-only check done at order creation.
func (e *StockEngine) CheckAvailability(product *models.Product, quantity int) error {
	if product.TracksStock() && quantity > *product.Stock {
		return detail(ErrInsufficientStock, fmt.Sprintf("Not enough stock for product %s", product.Name))
	}
	return nil
}

// applyStockDecrement runs inside the bill confirmation transaction and only
// there. Each tracked product loses the ordered quantity, clamped at zero.
// Products that did not have enough stock left are returned so the caller can
// report the oversell; they never fail the confirmation.
func (e *StockEngine) applyStockDecrement(ctx context.Context, tx *gorm.DB, orderID uint) ([]uint, error) {
	items, err := e.orderItemRepo.GetByOrderID(ctx, tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items for order %d: %w", orderID, err)
	}

	var oversold []uint
	for _, item := range items {
		product, err := e.productRepo.GetByIDForUpdate(ctx, tx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock product %d: %w", item.ProductID, err)
		}
		if product == nil {
			e.log.Warn("order item references a missing product", zap.Uint("order_id", orderID), zap.Uint("product_id", item.ProductID))
			continue
		}
		if !product.TracksStock() {
			continue
		}

		ok, err := e.productRepo.DecrementStock(ctx, tx, product.ID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock of product %d: %w", product.ID, err)
		}
		if ok {
			continue
		}

		if err := e.productRepo.ClampStockToZero(ctx, tx, product.ID); err != nil {
			return nil, fmt.Errorf("failed to clamp stock of product %d: %w", product.ID, err)
		}
		oversold = append(oversold, product.ID)
		e.log.Warn("product oversold on confirmation, stock clamped to zero",
			zap.Uint("order_id", orderID),
			zap.Uint("product_id", product.ID),
			zap.Int("requested", item.Quantity),
			zap.Int("available", *product.Stock))
	}
	return oversold, nil
}
