package models

import (
	"time"
)

type User struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username   string  `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email      string  `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password   string  `gorm:"size:255;not null" json:"-"`
	FullName   *string `gorm:"size:255" json:"full_name"`
	Address    *string `gorm:"type:text" json:"address"`
	Phone      *string `gorm:"size:20" json:"phone"`
	Role       string  `gorm:"size:20;default:'customer';not null" json:"role"`
	IsVerified bool    `gorm:"default:false" json:"is_verified"`

	Brand  *Brand  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders []Order `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleArtisan  = "artisan"
)

// ContactName is the name shown to gateways and in notifications.
func (u *User) ContactName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}
