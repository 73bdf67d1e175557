// Package dbtest opens throwaway in-memory SQLite databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models/migrations"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated database private to t. A single connection keeps
// the shared-cache memory database alive and serialises writers.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()[:8]
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	phone := "01700000000"
	u := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   "x",
		Phone:      &phone,
		Role:       role,
		IsVerified: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateBrand(t testing.TB, db *gorm.DB, owner *models.User, name string) *models.Brand {
	t.Helper()
	b := &models.Brand{UserID: owner.ID, Name: name, Slug: fmt.Sprintf("%s-%d", strings.ToLower(name), owner.ID)}
	require.NoError(t, db.Create(b).Error)
	return b
}

// CreateProduct stores an approved product; a nil stock means untracked.
func CreateProduct(t testing.TB, db *gorm.DB, brand *models.Brand, name, price string, stock *int) *models.Product {
	t.Helper()
	p := &models.Product{
		BrandID:  brand.ID,
		Name:     name,
		Category: "pottery",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Approved: true,
		Pictures: []string{},
		Videos:   []string{},
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func IntPtr(v int) *int { return &v }

func StockOf(t testing.TB, db *gorm.DB, productID uint) *int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.Stock
}
