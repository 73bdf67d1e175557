package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/utils/format"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	msgPaymentBillNotFound = "Bill not found"
	msgAlreadyCleared      = "Bill payment already cleared."
	msgPaymentSuccess      = "Payment successful and notifications sent"
	msgPaymentFailed       = "Payment failed"
	msgPaymentCancelled    = "Payment cancelled"
	msgAlreadyProcessed    = "Bill already processed"
	msgInvalidTransaction  = "Invalid transaction id"
	msgPayBillConfirmed    = "Bill confirmed and product stocks updated successfully."
	defaultGatewayCurrency = "BDT"
	defaultCallbackMethod  = "Online"
)

type PaymentConfig struct {
	BaseURL  string
	Currency string
	Timeout  time.Duration
}

type InitiateResult struct {
	GatewayURL    string `json:"gateway_url"`
	TransactionID string `json:"tran_id"`
}

// CallbackResult is what a gateway webhook answers. Callbacks never fail.
type CallbackResult struct {
	OrderID uint   `json:"order_id,omitempty"`
	Applied bool   `json:"-"`
	Message string `json:"message"`
}

type PaymentService struct {
	db        *gorm.DB
	orderRepo repositories.OrderRepository
	billRepo  repositories.BillRepository
	userRepo  repositories.UserRepository
	stock     *StockEngine
	gateway   PaymentGateway
	notifier  Notifier
	cfg       PaymentConfig
	log       *zap.Logger
	now       func() time.Time
}

func NewPaymentService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	billRepo repositories.BillRepository,
	userRepo repositories.UserRepository,
	stock *StockEngine,
	gateway PaymentGateway,
	notifier Notifier,
	cfg PaymentConfig,
	log *zap.Logger,
) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = defaultGatewayCurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &PaymentService{
		db:        db,
		orderRepo: orderRepo,
		billRepo:  billRepo,
		userRepo:  userRepo,
		stock:     stock,
		gateway:   gateway,
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// InitiatePayment opens a gateway session for the caller's pending bill.
func (s *PaymentService) InitiatePayment(ctx context.Context, user *models.User, orderID uint) (*InitiateResult, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if order == nil || order.Bill == nil {
		return nil, detail(ErrNotFound, msgPaymentBillNotFound)
	}

	bill := order.Bill
	switch {
	case bill.IsConfirmed():
		return nil, detail(ErrAlreadyConfirmed, msgAlreadyCleared)
	case !bill.IsPending():
		return nil, detail(ErrInvalidState, fmt.Sprintf("Bill is %s and can no longer be paid.", bill.Status))
	}

	trxID := helpers.NewTransactionID(order.ID, s.now().UTC())

	phone := "01711111111"
	if user.Phone != nil && *user.Phone != "" {
		phone = *user.Phone
	}
	addr := "N/A"
	if user.Address != nil && *user.Address != "" {
		addr = *user.Address
	}

	sessionCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	session, err := s.gateway.CreateSession(sessionCtx, SessionRequest{
		TransactionID: trxID,
		OrderID:       order.ID,
		Amount:        bill.Amount,
		Currency:      s.cfg.Currency,
		CustomerName:  user.Username,
		CustomerEmail: user.Email,
		CustomerPhone: phone,
		CustomerAddr:  addr,
		SuccessURL:    s.cfg.BaseURL + "/ssl-success",
		FailURL:       s.cfg.BaseURL + "/ssl-fail",
		CancelURL:     s.cfg.BaseURL + "/ssl-cancel",
	})
	if err != nil {
		s.log.Error("payment session failed",
			zap.String("gateway", s.gateway.Name()),
			zap.Uint("order_id", order.ID),
			zap.String("tran_id", trxID),
			zap.Error(err))
		return nil, detail(ErrGatewayError, fmt.Sprintf("Failed to initiate %s session", s.gateway.Name()))
	}

	if err := s.billRepo.SetPendingTrxID(ctx, order.ID, trxID); err != nil {
		s.log.Warn("failed to record transaction id on bill", zap.Uint("order_id", order.ID), zap.String("tran_id", trxID), zap.Error(err))
	}

	s.log.Info("payment session opened",
		zap.String("gateway", s.gateway.Name()),
		zap.Uint("order_id", order.ID),
		zap.String("tran_id", trxID))
	return &InitiateResult{GatewayURL: session.GatewayURL, TransactionID: trxID}, nil
}

func orderStatusFor(billStatus string) string {
	switch billStatus {
	case models.BillStatusConfirmed:
		return models.OrderStatusConfirmed
	case models.BillStatusFailed:
		return models.OrderStatusFailed
	default:
		return models.OrderStatusCancelled
	}
}

// transition is the single place a bill leaves Pending. Only the call whose
// guarded update changed the row applies the order status and, on
// confirmation, the stock decrement.
func (s *PaymentService) transition(ctx context.Context, orderID uint, status, method, trxID string) (bool, error) {
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.billRepo.TransitionFromPending(ctx, tx, orderID, status, method, trxID)
		if err != nil {
			return fmt.Errorf("failed to update bill: %w", err)
		}
		if !ok {
			return nil
		}
		if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, orderStatusFor(status)); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if status == models.BillStatusConfirmed {
			oversold, err := s.stock.applyStockDecrement(ctx, tx, orderID)
			if err != nil {
				return err
			}
			if len(oversold) > 0 {
				s.log.Warn("confirmed order oversold products", zap.Uint("order_id", orderID), zap.Uints("product_ids", oversold))
			}
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (s *PaymentService) callback(ctx context.Context, trxID, status, method, okMsg string) CallbackResult {
	orderID, err := helpers.ParseTransactionID(trxID)
	if err != nil {
		s.log.Warn("payment callback with malformed transaction id", zap.String("tran_id", trxID), zap.String("status", status), zap.Error(err))
		return CallbackResult{Message: msgInvalidTransaction}
	}

	bill, err := s.billRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		s.log.Error("payment callback bill lookup failed", zap.Uint("order_id", orderID), zap.Error(err))
		return CallbackResult{OrderID: orderID, Message: msgPaymentBillNotFound}
	}
	if bill == nil {
		s.log.Warn("payment callback for unknown bill", zap.Uint("order_id", orderID), zap.String("tran_id", trxID))
		return CallbackResult{OrderID: orderID, Message: msgPaymentBillNotFound}
	}

	applied, err := s.transition(ctx, orderID, status, method, trxID)
	if err != nil {
		s.log.Error("payment callback transition failed", zap.Uint("order_id", orderID), zap.String("status", status), zap.Error(err))
		return CallbackResult{OrderID: orderID, Message: "Payment could not be recorded"}
	}
	if !applied {
		s.log.Info("payment callback ignored, bill already processed", zap.Uint("order_id", orderID), zap.String("status", status))
		return CallbackResult{OrderID: orderID, Message: msgAlreadyProcessed}
	}

	s.log.Info("bill transitioned", zap.Uint("order_id", orderID), zap.String("status", status), zap.String("tran_id", trxID))
	if status == models.BillStatusConfirmed {
		s.notifyConfirmed(ctx, orderID)
	}
	return CallbackResult{OrderID: orderID, Applied: true, Message: okMsg}
}

func (s *PaymentService) ConfirmPayment(ctx context.Context, trxID, method string) CallbackResult {
	if strings.TrimSpace(method) == "" {
		method = defaultCallbackMethod
	}
	return s.callback(ctx, trxID, models.BillStatusConfirmed, method, msgPaymentSuccess)
}

func (s *PaymentService) FailPayment(ctx context.Context, trxID string) CallbackResult {
	return s.callback(ctx, trxID, models.BillStatusFailed, "", msgPaymentFailed)
}

func (s *PaymentService) CancelPayment(ctx context.Context, trxID string) CallbackResult {
	return s.callback(ctx, trxID, models.BillStatusCancelled, "", msgPaymentCancelled)
}

// PayBill confirms the caller's bill directly with a method and transaction id.
func (s *PaymentService) PayBill(ctx context.Context, user *models.User, orderID uint, method, trxID string) (string, error) {
	method, trxID = strings.TrimSpace(method), strings.TrimSpace(trxID)
	if method == "" || trxID == "" {
		return "", detail(ErrValidation, "method and trx_id are required")
	}

	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if order == nil {
		return "", detail(ErrNotFound, msgOrderNotFound)
	}
	if order.Bill == nil {
		return "", detail(ErrNotFound, msgPaymentBillNotFound)
	}

	applied, err := s.transition(ctx, order.ID, models.BillStatusConfirmed, method, trxID)
	if err != nil {
		return "", err
	}
	if !applied {
		bill, err := s.billRepo.FindByOrderID(ctx, order.ID)
		if err != nil {
			return "", fmt.Errorf("failed to get bill for order %d: %w", order.ID, err)
		}
		if bill != nil && bill.IsConfirmed() {
			return "", detail(ErrAlreadyConfirmed, msgAlreadyCleared)
		}
		status := models.BillStatusPending
		if bill != nil {
			status = bill.Status
		}
		return "", detail(ErrInvalidState, fmt.Sprintf("Bill is %s and can no longer be paid.", status))
	}

	s.log.Info("bill paid directly", zap.Uint("order_id", order.ID), zap.Uint("user_id", user.ID), zap.String("method", method))
	s.notifyConfirmed(ctx, order.ID)
	return msgPayBillConfirmed, nil
}

// notifyConfirmed assembles the confirmation message after the transaction
// has committed and hands it to the notifier. Lookup failures are logged only.
func (s *PaymentService) notifyConfirmed(ctx context.Context, orderID uint) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil || order == nil {
		s.log.Warn("skipping notification, order lookup failed", zap.Uint("order_id", orderID), zap.Error(err))
		return
	}
	buyer, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil || buyer == nil {
		s.log.Warn("skipping notification, buyer lookup failed", zap.Uint("order_id", orderID), zap.Error(err))
		return
	}
	artisan, err := s.userRepo.FindArtisanForOrder(ctx, orderID)
	if err != nil {
		s.log.Warn("artisan lookup failed, notifying buyer only", zap.Uint("order_id", orderID), zap.Error(err))
	}

	n := PaymentNotification{
		OrderID:   orderID,
		BuyerName: buyer.Username,
	}
	if buyer.Phone != nil {
		n.BuyerPhone = *buyer.Phone
	}
	if order.Bill != nil {
		n.Amount = format.Currency(order.Bill.Amount, s.cfg.Currency)
	}
	if artisan != nil {
		n.ArtisanName = artisan.ContactName()
		n.ArtisanEmail = artisan.Email
	}
	if n.BuyerPhone == "" && n.ArtisanEmail == "" {
		return
	}

	s.notifier.Notify(ctx, n)
}

// IsAlreadyConfirmed reports whether err is the no-op "already paid" outcome.
func IsAlreadyConfirmed(err error) bool {
	return errors.Is(err, ErrAlreadyConfirmed)
}
