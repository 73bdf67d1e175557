package fakers

import (
	"math/rand"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/shopspring/decimal"
)

var (
	categories = []string{"pottery", "textile", "jewelry", "woodwork", "painting", "leather"}
	sizes      = []string{"small", "medium", "large"}
)

// ProductFaker builds an unsaved, approved product for the given brand.
func ProductFaker(brandID uint) *models.Product {
	desc := faker.Paragraph()
	size := sizes[rand.Intn(len(sizes))]
	unit := "piece"
	stock := rand.Intn(50) + 1
	rating := float64(rand.Intn(41)+10) / 10

	return &models.Product{
		BrandID:      brandID,
		Name:         faker.Word() + " " + faker.Word(),
		Pictures:     []string{},
		Videos:       []string{},
		Category:     categories[rand.Intn(len(categories))],
		Description:  &desc,
		OrderSize:    &size,
		Stock:        &stock,
		QuantityUnit: &unit,
		Price:        fakePrice(),
		Rating:       &rating,
		Approved:     true,
	}
}

// fakePrice is between 50.00 and 5000.00 with two decimals.
func fakePrice() decimal.Decimal {
	cents := int64(rand.Intn(495001) + 5000)
	return decimal.New(cents, -2)
}
