package models

import (
	"time"
)

type Brand struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"brand_id"`
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"-"`
	Name        string    `gorm:"column:brand_name;size:255;not null" json:"brand_name"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description *string   `gorm:"column:brand_description;type:text" json:"brand_description"`
	Logo        *string   `gorm:"type:text" json:"logo"`
	Products    []Product `gorm:"foreignKey:BrandID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Brand) TableName() string {
	return "brand"
}
