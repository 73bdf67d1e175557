package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	BillStatusPending   = "Pending"
	BillStatusConfirmed = "Confirmed"
	BillStatusFailed    = "Failed"
	BillStatusCancelled = "Cancelled"
)

// BillMethodPending and BillTrxPlaceholder fill a fresh bill until the gateway reports back.
const (
	BillMethodPending  = "Pending"
	BillTrxPlaceholder = "N/A"
)

type Bill struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"bill_id"`
	OrderID   uint            `gorm:"not null;uniqueIndex" json:"order_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method    string          `gorm:"size:100;not null" json:"method"`
	TrxID     string          `gorm:"size:255" json:"trx_id"`
	Status    string          `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Bill) TableName() string {
	return "bills"
}

func (b *Bill) IsPending() bool {
	return strings.EqualFold(b.Status, BillStatusPending)
}

func (b *Bill) IsConfirmed() bool {
	return strings.EqualFold(b.Status, BillStatusConfirmed)
}
