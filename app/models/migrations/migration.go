package migrations

import (
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Brand{}, &models.Product{}, &models.Order{}, &models.OrderItem{}, &models.Bill{})
}
