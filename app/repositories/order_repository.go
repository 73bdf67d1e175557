package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models/other"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByIDForUser(ctx context.Context, id, userID uint) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint) ([]models.Order, error)
	GetOrdersByBrandIDs(ctx context.Context, brandIDs []uint) ([]models.Order, error)
	GetByIDForBrands(ctx context.Context, id uint, brandIDs []uint) (*models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	ItemDetails(ctx context.Context, orderID uint, brandIDs []uint) ([]other.OrderItemDetail, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, status string) error
	Delete(ctx context.Context, tx *gorm.DB, orderID uint) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Omit("OrderItems", "Bill", "User").Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order

	err := r.db.WithContext(ctx).Preload("OrderItems").Preload("Bill").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUser folds the ownership check into the lookup: an order owned by
// someone else is reported exactly like a missing one.
func (r *gormOrderRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*models.Order, error) {
	var order models.Order

	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("Bill").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) GetOrdersByUserID(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order

	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("Bill").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) brandOrderIDs(brandIDs []uint) *gorm.DB {
	return r.db.Model(&models.OrderItem{}).
		Select("DISTINCT order_items.order_id").
		Joins("JOIN product ON product.id = order_items.product_id").
		Where("product.brand_id IN ?", brandIDs)
}

func (r *gormOrderRepository) GetOrdersByBrandIDs(ctx context.Context, brandIDs []uint) ([]models.Order, error) {
	var orders []models.Order
	if len(brandIDs) == 0 {
		return orders, nil
	}

	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.brandOrderIDs(brandIDs)).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) GetByIDForBrands(ctx context.Context, id uint, brandIDs []uint) (*models.Order, error) {
	if len(brandIDs) == 0 {
		return nil, nil
	}

	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND id IN (?)", id, r.brandOrderIDs(brandIDs)).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order

	err := r.db.WithContext(ctx).Preload("OrderItems").Preload("Bill").Order("id DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ItemDetails joins order items with their product and brand. A nil brandIDs
// returns every line of the order.
func (r *gormOrderRepository) ItemDetails(ctx context.Context, orderID uint, brandIDs []uint) ([]other.OrderItemDetail, error) {
	var details []other.OrderItemDetail

	query := r.db.WithContext(ctx).
		Table("order_items").
		Select(`product.id AS product_id, brand.id AS brand_id, product.product_name AS product_name,
			brand.brand_name AS brand_name, order_items.size AS order_size, order_items.quantity AS order_quantity`).
		Joins("JOIN product ON product.id = order_items.product_id").
		Joins("JOIN brand ON brand.id = product.brand_id").
		Where("order_items.order_id = ?", orderID)
	if brandIDs != nil {
		query = query.Where("brand.id IN ?", brandIDs)
	}

	if err := query.Order("order_items.id ASC").Scan(&details).Error; err != nil {
		return nil, fmt.Errorf("failed to load order item details: %w", err)
	}
	return details, nil
}

func (r *gormOrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, status string) error {
	return tx.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}).Error
}

// Delete removes the order with its items and bill. Rows are deleted explicitly
// so the result does not depend on the driver enforcing ON DELETE CASCADE.
func (r *gormOrderRepository) Delete(ctx context.Context, tx *gorm.DB, orderID uint) error {
	tx = tx.WithContext(ctx)
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id = ?", orderID).Delete(&models.Bill{}).Error; err != nil {
		return err
	}
	result := tx.Delete(&models.Order{}, orderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
