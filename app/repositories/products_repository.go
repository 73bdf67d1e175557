package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows a catalog search. Zero values mean "no constraint".
type ProductFilter struct {
	Category  string
	BrandName string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error)
	GetApproved(ctx context.Context) ([]models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByUserID(ctx context.Context, userID uint) ([]models.Product, error)
	Search(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	HasPendingOrders(ctx context.Context, productID uint) (bool, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, qty int) (bool, error)
	ClampStockToZero(ctx context.Context, tx *gorm.DB, productID uint) error
}

type gormProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

func (p *gormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *gormProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByIDForUpdate reads the product row under a row lock held until tx ends.
func (p *gormProductRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *gormProductRepository) GetApproved(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Where("approved = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (p *gormProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, err
}

func (p *gormProductRepository) GetByUserID(ctx context.Context, userID uint) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Joins("JOIN brand ON brand.id = product.brand_id").
		Where("brand.user_id = ?", userID).
		Order("product.id ASC").
		Find(&products).Error
	return products, err
}

func (p *gormProductRepository) Search(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var products []models.Product

	query := p.db.WithContext(ctx).Model(&models.Product{}).Where("product.approved = ?", true)

	if filter.Category != "" {
		query = query.Where("LOWER(product.category) LIKE ?", "%"+strings.ToLower(filter.Category)+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("product.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("product.price <= ?", *filter.MaxPrice)
	}
	if filter.BrandName != "" {
		query = query.Joins("JOIN brand ON brand.id = product.brand_id").
			Where("LOWER(brand.brand_name) LIKE ?", "%"+strings.ToLower(filter.BrandName)+"%")
	}
	err := query.Order("product.id ASC").Find(&products).Error
	return products, err
}

func (p *gormProductRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Omit("Brand").Save(product).Error
}

func (p *gormProductRepository) Delete(ctx context.Context, id uint) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

func (p *gormProductRepository) HasPendingOrders(ctx context.Context, productID uint) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ? AND LOWER(orders.status) = ?", productID, strings.ToLower(models.OrderStatusPending)).
		Count(&count).Error
	return count > 0, err
}

// DecrementStock subtracts qty only when enough stock is left. It reports false when the
// conditional update matched no row, which means the product would be oversold.
func (p *gormProductRepository) DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, qty int) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND order_quantity IS NOT NULL AND order_quantity >= ?", productID, qty).
		Update("order_quantity", gorm.Expr("order_quantity - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (p *gormProductRepository) ClampStockToZero(ctx context.Context, tx *gorm.DB, productID uint) error {
	return tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND order_quantity IS NOT NULL", productID).
		Update("order_quantity", 0).Error
}
