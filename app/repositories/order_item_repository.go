package repositories

import (
	"context"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	BulkCreate(ctx context.Context, db *gorm.DB, items []models.OrderItem) error
	GetByOrderID(ctx context.Context, db *gorm.DB, orderID uint) ([]models.OrderItem, error)
}

type OrderItemRepositoryImpl struct {
	DB *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &OrderItemRepositoryImpl{DB: db}
}

func (r *OrderItemRepositoryImpl) BulkCreate(ctx context.Context, db *gorm.DB, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Omit("Product").Create(&items).Error
}

func (r *OrderItemRepositoryImpl) GetByOrderID(ctx context.Context, db *gorm.DB, orderID uint) ([]models.OrderItem, error) {
	if db == nil {
		db = r.DB
	}
	var items []models.OrderItem
	err := db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error
	return items, err
}
