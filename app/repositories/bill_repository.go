package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"gorm.io/gorm"
)

type BillRepository interface {
	Create(ctx context.Context, tx *gorm.DB, bill *models.Bill) error
	FindByOrderID(ctx context.Context, orderID uint) (*models.Bill, error)
	TransitionFromPending(ctx context.Context, tx *gorm.DB, orderID uint, status, method, trxID string) (bool, error)
	SetPendingTrxID(ctx context.Context, orderID uint, trxID string) error
}

type gormBillRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) BillRepository {
	return &gormBillRepository{db: db}
}

func (r *gormBillRepository) Create(ctx context.Context, tx *gorm.DB, bill *models.Bill) error {
	return tx.WithContext(ctx).Create(bill).Error
}

func (r *gormBillRepository) FindByOrderID(ctx context.Context, orderID uint) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

// TransitionFromPending moves a bill out of Pending. The WHERE clause is the
// guard: it reports true only for the single call that actually changed the row.
func (r *gormBillRepository) TransitionFromPending(ctx context.Context, tx *gorm.DB, orderID uint, status, method, trxID string) (bool, error) {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if method != "" {
		updates["method"] = method
	}
	if trxID != "" {
		updates["trx_id"] = trxID
	}

	result := tx.WithContext(ctx).
		Model(&models.Bill{}).
		Where("order_id = ? AND LOWER(status) = ?", orderID, strings.ToLower(models.BillStatusPending)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *gormBillRepository) SetPendingTrxID(ctx context.Context, orderID uint, trxID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Bill{}).
		Where("order_id = ? AND LOWER(status) = ?", orderID, strings.ToLower(models.BillStatusPending)).
		Update("trx_id", trxID).Error
}
