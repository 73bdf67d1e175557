package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindArtisanForOrder(ctx context.Context, orderID uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, userID uint, role string) error
	Delete(ctx context.Context, userID uint) error
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUserRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

// FindArtisanForOrder returns the owner of the brand behind the first item of the order.
func (r *gormUserRepository) FindArtisanForOrder(ctx context.Context, orderID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN brand ON brand.user_id = user.id").
		Joins("JOIN product ON product.brand_id = brand.id").
		Joins("JOIN order_items ON order_items.product_id = product.id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.id ASC").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find artisan for order %d: %w", orderID, err)
	}
	return &user, nil
}

func (r *gormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *gormUserRepository) UpdateRole(ctx context.Context, userID uint, role string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"role":       role,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update role for user %d: %w", userID, result.Error)
	}
	return nil
}

// Delete removes the user together with everything the user owns: orders (items and bills),
// the brand and its products.
func (r *gormUserRepository) Delete(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderIDs := tx.Model(&models.Order{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items of user %d: %w", userID, err)
		}
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.Bill{}).Error; err != nil {
			return fmt.Errorf("failed to delete bills of user %d: %w", userID, err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("failed to delete orders of user %d: %w", userID, err)
		}

		brandIDs := tx.Model(&models.Brand{}).Select("id").Where("user_id = ?", userID)
		productIDs := tx.Model(&models.Product{}).Select("id").Where("brand_id IN (?)", brandIDs)
		if err := tx.Where("product_id IN (?)", productIDs).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items referencing products of user %d: %w", userID, err)
		}
		if err := tx.Where("brand_id IN (?)", brandIDs).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete products of user %d: %w", userID, err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Brand{}).Error; err != nil {
			return fmt.Errorf("failed to delete brand of user %d: %w", userID, err)
		}

		result := tx.Delete(&models.User{}, userID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete user %d: %w", userID, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
