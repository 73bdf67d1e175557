package models

import (
	"strings"
	"time"
)

const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusFailed    = "Failed"
	OrderStatusCancelled = "Cancelled"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
)

type Order struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"order_id"`
	UserID     uint        `gorm:"not null;index" json:"user_id"`
	User       *User       `gorm:"foreignKey:UserID" json:"-"`
	Status     string      `gorm:"size:50;not null;default:'Pending'" json:"status"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
	Bill       *Bill       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"bill,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) IsPending() bool {
	return strings.EqualFold(o.Status, OrderStatusPending)
}
