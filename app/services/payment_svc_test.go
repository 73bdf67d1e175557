package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/db/dbtest"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, f *fixture, lines ...OrderLine) *models.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), f.buyer, lines)
	require.NoError(t, err)
	return order
}

func trxFor(orderID uint) string {
	return fmt.Sprintf("ORDER_%d_2025010112000099", orderID)
}

func TestInitiatePayment_OpensSessionAndRecordsTrxID(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Cup", "12.50", nil)
	order := placeOrder(t, f, OrderLine{ProductID: p.ID, Quantity: 2})
	f.payments.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

	res, err := f.payments.InitiatePayment(context.Background(), f.buyer, order.ID)
	require.NoError(t, err)
	assert.Regexp(t, fmt.Sprintf(`^ORDER_%d_20250101120000\d{4}$`, order.ID), res.TransactionID)
	assert.Equal(t, "https://pay.example.com/"+res.TransactionID, res.GatewayURL)

	require.Len(t, f.gateway.requests, 1)
	req := f.gateway.requests[0]
	assert.True(t, req.Amount.Equal(decimal.NewFromInt(25)), "got %s", req.Amount)
	assert.Equal(t, "BDT", req.Currency)
	assert.Equal(t, "01700000000", req.CustomerPhone)
	assert.Equal(t, "N/A", req.CustomerAddr)
	assert.Equal(t, "http://localhost:8000/ssl-success", req.SuccessURL)

	bill := f.bill(t, order.ID)
	assert.Equal(t, res.TransactionID, bill.TrxID)
	assert.Equal(t, models.BillStatusPending, bill.Status)
}

func TestInitiatePayment_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Cup", "3.00", nil)
	order := placeOrder(t, f, OrderLine{ProductID: p.ID, Quantity: 1})

	stranger := dbtest.CreateUser(t, f.db, "stranger", models.RoleCustomer)
	_, err := f.payments.InitiatePayment(ctx, stranger, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	f.gateway.err = errors.New("connection refused")
	_, err = f.payments.InitiatePayment(ctx, f.buyer, order.ID)
	assert.ErrorIs(t, err, ErrGatewayError)
	assert.Equal(t, models.BillStatusPending, f.bill(t, order.ID).Status)
	f.gateway.err = nil

	f.payments.ConfirmPayment(ctx, trxFor(order.ID), "VISA")
	_, err = f.payments.InitiatePayment(ctx, f.buyer, order.ID)
	require.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.True(t, IsAlreadyConfirmed(err))
	assert.Equal(t, "Bill payment already cleared.", Detail(err, ""))

	failed := placeOrder(t, f, OrderLine{ProductID: p.ID, Quantity: 1})
	f.payments.FailPayment(ctx, trxFor(failed.ID))
	_, err = f.payments.InitiatePayment(ctx, f.buyer, failed.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestInitiatePayment_TimeoutKeepsBillPending(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Cup", "3.00", nil)
	order := placeOrder(t, f, OrderLine{ProductID: p.ID, Quantity: 1})
	f.payments.cfg.Timeout = 20 * time.Millisecond
	f.gateway.delay = time.Second

	_, err := f.payments.InitiatePayment(context.Background(), f.buyer, order.ID)
	require.ErrorIs(t, err, ErrGatewayError)

	bill := f.bill(t, order.ID)
	assert.Equal(t, models.BillStatusPending, bill.Status)
	assert.Equal(t, models.BillTrxPlaceholder, bill.TrxID)
	assert.Equal(t, int64(1), f.count(t, &models.Order{}))
}

func TestConfirmPayment_WebhookConfirmsAndDecrementsStock(t *testing.T) {
	f := newFixture(t)
	vase := f.product(t, "Vase", "10.00", dbtest.IntPtr(5))
	bowl := f.product(t, "Bowl", "5.50", nil)
	order := placeOrder(t, f,
		OrderLine{ProductID: vase.ID, Quantity: 2},
		OrderLine{ProductID: bowl.ID, Quantity: 1},
	)

	res := f.payments.ConfirmPayment(context.Background(), trxFor(order.ID), "VISA-Dutch Bangla")
	assert.True(t, res.Applied)
	assert.Equal(t, order.ID, res.OrderID)
	assert.Equal(t, "Payment successful and notifications sent", res.Message)

	bill := f.bill(t, order.ID)
	assert.Equal(t, models.BillStatusConfirmed, bill.Status)
	assert.Equal(t, "VISA-Dutch Bangla", bill.Method)
	assert.Equal(t, trxFor(order.ID), bill.TrxID)

	assert.Equal(t, 3, *dbtest.StockOf(t, f.db, vase.ID))
	assert.Nil(t, dbtest.StockOf(t, f.db, bowl.ID))

	var stored models.Order
	require.NoError(t, f.db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)

	sent := f.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, order.ID, sent[0].OrderID)
	assert.Equal(t, "01700000000", sent[0].BuyerPhone)
	assert.Equal(t, "maker@example.com", sent[0].ArtisanEmail)
	assert.Equal(t, "BDT 25.50", sent[0].Amount)
}

func TestConfirmPayment_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	vase := f.product(t, "Vase", "10.00", dbtest.IntPtr(5))
	order := placeOrder(t, f, OrderLine{ProductID: vase.ID, Quantity: 2})
	ctx := context.Background()

	first := f.payments.ConfirmPayment(ctx, trxFor(order.ID), "VISA")
	second := f.payments.ConfirmPayment(ctx, trxFor(order.ID), "VISA")
	cancel := f.payments.CancelPayment(ctx, trxFor(order.ID))

	assert.True(t, first.Applied)
	assert.False(t, second.Applied)
	assert.Equal(t, "Bill already processed", second.Message)
	assert.False(t, cancel.Applied)

	assert.Equal(t, 3, *dbtest.StockOf(t, f.db, vase.ID))
	assert.Equal(t, models.BillStatusConfirmed, f.bill(t, order.ID).Status)
	assert.Len(t, f.notifier.all(), 1)
}

func TestConfirmPayment_ConcurrentCallbacksApplyOnce(t *testing.T) {
	f := newFixture(t)
	vase := f.product(t, "Vase", "10.00", dbtest.IntPtr(10))
	order := placeOrder(t, f, OrderLine{ProductID: vase.ID, Quantity: 4})

	var wg sync.WaitGroup
	results := make([]CallbackResult, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.payments.ConfirmPayment(context.Background(), trxFor(order.ID), "VISA")
		}(i)
	}
	wg.Wait()

	applied := 0
	for _, r := range results {
		if r.Applied {
			applied++
		}
	}
	assert.Equal(t, 1, applied)
	assert.Equal(t, 6, *dbtest.StockOf(t, f.db, vase.ID))
}

func TestConfirmPayment_OversellClampsToZero(t *testing.T) {
	f := newFixture(t)
	vase := f.product(t, "Vase", "10.00", dbtest.IntPtr(3))
	first := placeOrder(t, f, OrderLine{ProductID: vase.ID, Quantity: 2})
	second := placeOrder(t, f, OrderLine{ProductID: vase.ID, Quantity: 2})
	ctx := context.Background()

	assert.True(t, f.payments.ConfirmPayment(ctx, trxFor(first.ID), "VISA").Applied)
	assert.Equal(t, 1, *dbtest.StockOf(t, f.db, vase.ID))

	res := f.payments.ConfirmPayment(ctx, trxFor(second.ID), "VISA")
	assert.True(t, res.Applied)
	assert.Equal(t, 0, *dbtest.StockOf(t, f.db, vase.ID))
	assert.Equal(t, models.BillStatusConfirmed, f.bill(t, second.ID).Status)
}

func TestFailAndCancelPayment(t *testing.T) {
	f := newFixture(t)
	vase := f.product(t, "Vase", "10.00", dbtest.IntPtr(5))
	failed := placeOrder(t, f, OrderLine{ProductID: vase.ID, Quantity: 1})
	cancelled := placeOrder(t, f, OrderLine{ProductID: vase.ID, Quantity: 1})
	ctx := context.Background()

	res := f.payments.FailPayment(ctx, trxFor(failed.ID))
	assert.Equal(t, "Payment failed", res.Message)
	res = f.payments.CancelPayment(ctx, trxFor(cancelled.ID))
	assert.Equal(t, "Payment cancelled", res.Message)

	assert.Equal(t, models.BillStatusFailed, f.bill(t, failed.ID).Status)
	assert.Equal(t, models.BillStatusCancelled, f.bill(t, cancelled.ID).Status)
	assert.Equal(t, 5, *dbtest.StockOf(t, f.db, vase.ID))
	assert.Empty(t, f.notifier.all())

	// a late success after a failure is ignored
	late := f.payments.ConfirmPayment(ctx, trxFor(failed.ID), "VISA")
	assert.False(t, late.Applied)
	assert.Equal(t, models.BillStatusFailed, f.bill(t, failed.ID).Status)
}

func TestCallbacks_NeverFailOnBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, trx := range []string{"", "garbage", "ORDER_x_1", "ORDER_42"} {
		res := f.payments.ConfirmPayment(ctx, trx, "")
		assert.False(t, res.Applied, trx)
		assert.Equal(t, "Invalid transaction id", res.Message, trx)
	}

	res := f.payments.ConfirmPayment(ctx, "ORDER_42_2025010112000099", "")
	assert.False(t, res.Applied)
	assert.Equal(t, uint(42), res.OrderID)
	assert.Equal(t, "Bill not found", res.Message)
}

func TestPayBill(t *testing.T) {
	f := newFixture(t)
	vase := f.product(t, "Vase", "10.00", dbtest.IntPtr(5))
	order := placeOrder(t, f, OrderLine{ProductID: vase.ID, Quantity: 1})
	ctx := context.Background()

	_, err := f.payments.PayBill(ctx, f.buyer, order.ID, "", "")
	require.ErrorIs(t, err, ErrValidation)

	stranger := dbtest.CreateUser(t, f.db, "stranger", models.RoleCustomer)
	_, err = f.payments.PayBill(ctx, stranger, order.ID, "bKash", "TRX1")
	require.ErrorIs(t, err, ErrNotFound)

	msg, err := f.payments.PayBill(ctx, f.buyer, order.ID, "bKash", "TRX1")
	require.NoError(t, err)
	assert.Equal(t, "Bill confirmed and product stocks updated successfully.", msg)

	bill := f.bill(t, order.ID)
	assert.Equal(t, models.BillStatusConfirmed, bill.Status)
	assert.Equal(t, "bKash", bill.Method)
	assert.Equal(t, "TRX1", bill.TrxID)
	assert.Equal(t, 4, *dbtest.StockOf(t, f.db, vase.ID))

	_, err = f.payments.PayBill(ctx, f.buyer, order.ID, "bKash", "TRX2")
	require.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, 4, *dbtest.StockOf(t, f.db, vase.ID))
}
