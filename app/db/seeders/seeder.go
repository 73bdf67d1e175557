package seeders

import (
	"fmt"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/db/fakers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	Artisans           int
	ProductsPerArtisan int
	Customers          int
}

func DefaultOptions() Options {
	return Options{Artisans: 3, ProductsPerArtisan: 5, Customers: 5}
}

// DBSeed creates one admin, artisans with a brand and products each, and
// plain customers, all in a single transaction.
func DBSeed(db *gorm.DB, opts Options, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		admin, err := fakers.UserFaker(models.RoleAdmin)
		if err != nil {
			return err
		}
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		log.Info("seeded admin", zap.String("email", admin.Email))

		for i := 0; i < opts.Artisans; i++ {
			artisan, err := fakers.UserFaker(models.RoleArtisan)
			if err != nil {
				return err
			}
			if err := tx.Create(artisan).Error; err != nil {
				return fmt.Errorf("failed to seed artisan: %w", err)
			}

			brand := fakers.BrandFaker(artisan.ID)
			if err := tx.Create(brand).Error; err != nil {
				return fmt.Errorf("failed to seed brand: %w", err)
			}

			for j := 0; j < opts.ProductsPerArtisan; j++ {
				if err := tx.Create(fakers.ProductFaker(brand.ID)).Error; err != nil {
					return fmt.Errorf("failed to seed product: %w", err)
				}
			}
		}

		for i := 0; i < opts.Customers; i++ {
			customer, err := fakers.UserFaker(models.RoleCustomer)
			if err != nil {
				return err
			}
			if err := tx.Create(customer).Error; err != nil {
				return fmt.Errorf("failed to seed customer: %w", err)
			}
		}

		log.Info("database seeded",
			zap.Int("artisans", opts.Artisans),
			zap.Int("products", opts.Artisans*opts.ProductsPerArtisan),
			zap.Int("customers", opts.Customers),
		)
		return nil
	})
}
