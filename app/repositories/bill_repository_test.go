package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/db/dbtest"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func pendingBill(t *testing.T, db *gorm.DB) *models.Bill {
	t.Helper()
	user := dbtest.CreateUser(t, db, "buyer", models.RoleCustomer)
	order := &models.Order{UserID: user.ID, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(order).Error)
	bill := &models.Bill{OrderID: order.ID, Amount: decimal.RequireFromString("25.50"), Method: "Pending", Status: models.BillStatusPending}
	require.NoError(t, NewBillRepository(db).Create(context.Background(), db, bill))
	return bill
}

func TestTransitionFromPending_AppliesOnce(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewBillRepository(db)
	ctx := context.Background()
	bill := pendingBill(t, db)

	require.NoError(t, repo.SetPendingTrxID(ctx, bill.OrderID, "ORDER_1_x"))

	ok, err := repo.TransitionFromPending(ctx, db, bill.OrderID, models.BillStatusConfirmed, "VISA", "")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TransitionFromPending(ctx, db, bill.OrderID, models.BillStatusFailed, "", "")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.FindByOrderID(ctx, bill.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusConfirmed, got.Status)
	assert.Equal(t, "VISA", got.Method)
	assert.Equal(t, "ORDER_1_x", got.TrxID)

	require.NoError(t, repo.SetPendingTrxID(ctx, bill.OrderID, "ORDER_1_y"))
	got, err = repo.FindByOrderID(ctx, bill.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "ORDER_1_x", got.TrxID)

	missing, err := repo.FindByOrderID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1452}))

	db := dbtest.Open(t)
	bill := pendingBill(t, db)
	dup := &models.Bill{OrderID: bill.OrderID, Amount: decimal.NewFromInt(1), Method: "Pending"}
	assert.True(t, IsDuplicateKey(NewBillRepository(db).Create(context.Background(), db, dup)))
}
