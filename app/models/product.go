package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"product_id"`
	BrandID      uint            `gorm:"not null;index" json:"brand_id"`
	Brand        *Brand          `gorm:"foreignKey:BrandID" json:"-"`
	Name         string          `gorm:"column:product_name;size:255;not null" json:"product_name"`
	Pictures     []string        `gorm:"column:product_pic;serializer:json" json:"product_pic"`
	Videos       []string        `gorm:"column:product_video;serializer:json" json:"product_video"`
	Category     string          `gorm:"size:100;not null;index" json:"category"`
	Description  *string         `gorm:"type:text" json:"description"`
	OrderSize    *string         `gorm:"size:50" json:"order_size"`
	Stock        *int            `gorm:"column:order_quantity" json:"order_quantity"`
	QuantityUnit *string         `gorm:"size:50" json:"quantity_unit"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Rating       *float64        `json:"rating"`
	Approved     bool            `gorm:"default:false;index" json:"approved"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}

// TracksStock reports whether availability is limited for this product.
func (p *Product) TracksStock() bool {
	return p.Stock != nil
}
