package other

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemDetail is one denormalised line of an order: item joined with product and brand.
type OrderItemDetail struct {
	ProductID     uint    `json:"product_id"`
	BrandID       uint    `json:"brand_id"`
	ProductName   string  `json:"product_name"`
	BrandName     string  `json:"brand_name"`
	OrderSize     *string `json:"order_size"`
	OrderQuantity int     `json:"order_quantity"`
}

type OrderDetail struct {
	OrderID    uint              `json:"order_id"`
	Status     string            `json:"status"`
	BillStatus *string           `json:"bill_status"`
	CreatedAt  time.Time         `json:"created_at"`
	BillAmount *decimal.Decimal  `json:"bill_amount"`
	OrderItems []OrderItemDetail `json:"order_items"`
}

type OrderSummary struct {
	OrderID           uint   `json:"order_id"`
	UserID            uint   `json:"user_id"`
	Status            string `json:"status"`
	OrderDetailsURL   string `json:"order_details_url"`
	ProductDetailsURL string `json:"product_details_url"`
}

type SearchResult struct {
	Keywords   []string        `json:"keywords_used"`
	TotalFound int             `json:"total_found"`
	Products   []SearchProduct `json:"products"`
}

type SearchProduct struct {
	ProductID   uint            `json:"product_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description"`
	Images      []string        `json:"images"`
	Videos      []string        `json:"videos"`
}
