package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// SessionRequest is everything a gateway needs to open a hosted payment page.
type SessionRequest struct {
	TransactionID string
	OrderID       uint
	Amount        decimal.Decimal
	Currency      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	CustomerAddr  string
	SuccessURL    string
	FailURL       string
	CancelURL     string
}

type SessionResult struct {
	GatewayURL string
	SessionKey string
}

type PaymentGateway interface {
	Name() string
	CreateSession(ctx context.Context, req SessionRequest) (*SessionResult, error)
}
