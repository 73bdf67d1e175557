package services

import (
	"context"
	"testing"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/db/dbtest"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKeywordParser(t *testing.T) {
	tests := []struct {
		name     string
		q        string
		keywords []string
		category string
		brand    string
		min, max string
	}{
		{name: "plain words", q: "Red clay vase", keywords: []string{"red", "clay", "vase"}},
		{name: "stop words removed", q: "show me a vase for the table", keywords: []string{"vase", "table"}},
		{name: "under", q: "vase under 500", keywords: []string{"vase"}, max: "500"},
		{name: "over", q: "shawl over 1200.50", keywords: []string{"shawl"}, min: "1200.5"},
		{name: "between swaps bounds", q: "mug between 300 and 100", keywords: []string{"mug"}, min: "100", max: "300"},
		{name: "filters", q: `category:pottery brand:"Clay House" bowl`, keywords: []string{"bowl"}, category: "pottery", brand: "Clay House"},
		{name: "duplicates", q: "vase VASE vase", keywords: []string{"vase"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeywordParser{}.Parse(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.keywords, got.Keywords)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.brand, got.Brand)
			if tt.min == "" {
				assert.Nil(t, got.MinPrice)
			} else {
				require.NotNil(t, got.MinPrice)
				assert.Equal(t, tt.min, got.MinPrice.String())
			}
			if tt.max == "" {
				assert.Nil(t, got.MaxPrice)
			} else {
				require.NotNil(t, got.MaxPrice)
				assert.Equal(t, tt.max, got.MaxPrice.String())
			}
		})
	}
}

func TestKeywordRanker(t *testing.T) {
	desc := "hand painted"
	products := []models.Product{
		{ID: 1, Name: "Clay Vase", Category: "pottery"},
		{ID: 2, Name: "Blue Bowl", Category: "pottery", Description: &desc},
		{ID: 3, Name: "Wool Shawl", Category: "textile"},
	}

	exact := KeywordRanker{}.Rank(products, []string{"clay", "vase"})
	require.Len(t, exact, 1)
	assert.Equal(t, uint(1), exact[0].ID)

	fallback := KeywordRanker{}.Rank(products, []string{"painted", "pottery", "bowl"})
	require.Len(t, fallback, 2)
	assert.Equal(t, uint(2), fallback[0].ID)
	assert.Equal(t, uint(1), fallback[1].ID)

	assert.Empty(t, KeywordRanker{}.Rank(products, []string{"glass"}))
	assert.Len(t, KeywordRanker{}.Rank(products, nil), 3)
}

func TestSearchService(t *testing.T) {
	db := dbtest.Open(t)
	artisan := dbtest.CreateUser(t, db, "maker", models.RoleArtisan)
	brand := dbtest.CreateBrand(t, db, artisan, "Clay")
	dbtest.CreateProduct(t, db, brand, "Clay Vase", "450.00", nil)
	dbtest.CreateProduct(t, db, brand, "Big Clay Vase", "900.00", nil)
	hidden := dbtest.CreateProduct(t, db, brand, "Clay Vase Draft", "100.00", nil)
	require.NoError(t, db.Model(hidden).Update("approved", false).Error)

	svc := NewSearchService(repositories.NewProductRepository(db), nil, nil, zap.NewNop())

	res, err := svc.Search(context.Background(), "clay vase under 500")
	require.NoError(t, err)
	assert.Equal(t, []string{"clay", "vase"}, res.Keywords)
	require.Equal(t, 1, res.TotalFound)
	assert.Equal(t, "Clay Vase", res.Products[0].Name)

	_, err = svc.Search(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrValidation)
}
