package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"gorm.io/gorm"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *models.Brand) error
	FindByID(ctx context.Context, id uint) (*models.Brand, error)
	FindByIDWithProducts(ctx context.Context, id uint) (*models.Brand, error)
	FindByUserID(ctx context.Context, userID uint) (*models.Brand, error)
	IDsByUserID(ctx context.Context, userID uint) ([]uint, error)
	List(ctx context.Context, limit, offset int) ([]models.Brand, error)
	Update(ctx context.Context, brand *models.Brand) error
}

type gormBrandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &gormBrandRepository{db: db}
}

func (r *gormBrandRepository) Create(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *gormBrandRepository) FindByID(ctx context.Context, id uint) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brand, nil
}

func (r *gormBrandRepository) FindByIDWithProducts(ctx context.Context, id uint) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.WithContext(ctx).
		Preload("Products", "approved = ?", true).
		First(&brand, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brand, nil
}

func (r *gormBrandRepository) FindByUserID(ctx context.Context, userID uint) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&brand).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brand, nil
}

func (r *gormBrandRepository) IDsByUserID(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Brand{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *gormBrandRepository) List(ctx context.Context, limit, offset int) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&brands).Error
	return brands, err
}

func (r *gormBrandRepository) Update(ctx context.Context, brand *models.Brand) error {
	brand.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit("Products", "User").Save(brand).Error
}
