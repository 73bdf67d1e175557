package services

import (
	"context"
	"fmt"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/utils/calc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	msgBrandNotFound   = "Brand not found"
	msgProductNotFound = "Product not found."
)

type BrandInput struct {
	Name        string  `json:"brand_name" validate:"required,max=255"`
	Description *string `json:"brand_description"`
	Logo        *string `json:"logo"`
}

type BrandPatch struct {
	Name        *string `json:"brand_name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"brand_description"`
	Logo        *string `json:"logo"`
}

type ProductInput struct {
	Name         string          `json:"product_name" validate:"required,max=255"`
	Pictures     []string        `json:"product_pic"`
	Videos       []string        `json:"product_video"`
	Category     string          `json:"category" validate:"required,max=100"`
	Description  *string         `json:"description"`
	OrderSize    *string         `json:"order_size" validate:"omitempty,max=50"`
	Stock        *int            `json:"order_quantity" validate:"omitempty,gte=0"`
	QuantityUnit *string         `json:"quantity_unit" validate:"omitempty,max=50"`
	Price        decimal.Decimal `json:"price"`
}

type ProductPatch struct {
	Name         *string          `json:"product_name" validate:"omitempty,min=1,max=255"`
	Pictures     *[]string        `json:"product_pic"`
	Videos       *[]string        `json:"product_video"`
	Category     *string          `json:"category" validate:"omitempty,min=1,max=100"`
	Description  *string          `json:"description"`
	OrderSize    *string          `json:"order_size" validate:"omitempty,max=50"`
	Stock        *int             `json:"order_quantity" validate:"omitempty,gte=0"`
	QuantityUnit *string          `json:"quantity_unit" validate:"omitempty,max=50"`
	Price        *decimal.Decimal `json:"price"`
}

// AdminProductPatch adds the fields only an admin may set.
type AdminProductPatch struct {
	ProductPatch
	Approved *bool    `json:"approved"`
	Rating   *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

type CatalogService struct {
	brandRepo   repositories.BrandRepository
	productRepo repositories.ProductRepository
	log         *zap.Logger
}

func NewCatalogService(brandRepo repositories.BrandRepository, productRepo repositories.ProductRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{brandRepo: brandRepo, productRepo: productRepo, log: log}
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return detail(ErrValidation, "price must be greater than 0")
	}
	if !price.Equal(price.Round(calc.MoneyScale)) {
		return detail(ErrValidation, "price must have at most 2 decimal places")
	}
	return nil
}

func (s *CatalogService) CreateBrand(ctx context.Context, user *models.User, in BrandInput) (*models.Brand, error) {
	if user.Role == models.RoleCustomer {
		return nil, detail(ErrInvalidState, "Need to register as Artisan.")
	}

	existing, err := s.brandRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check brand: %w", err)
	}
	if existing != nil {
		return nil, detail(ErrConflict, "You can create only one brand.")
	}

	brand := &models.Brand{
		UserID:      user.ID,
		Name:        in.Name,
		Slug:        fmt.Sprintf("%s-%d", helpers.GenerateSlug(in.Name), user.ID),
		Description: in.Description,
		Logo:        in.Logo,
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, detail(ErrConflict, "You can create only one brand.")
		}
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	s.log.Info("brand created", zap.Uint("brand_id", brand.ID), zap.Uint("user_id", user.ID))
	return brand, nil
}

func (s *CatalogService) GetMyBrand(ctx context.Context, user *models.User) (*models.Brand, error) {
	brand, err := s.brandRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	if brand == nil {
		return nil, detail(ErrNotFound, "You have not created a brand")
	}
	return brand, nil
}

func (s *CatalogService) UpdateMyBrand(ctx context.Context, user *models.User, in BrandPatch) (*models.Brand, error) {
	brand, err := s.brandRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	if brand == nil {
		return nil, detail(ErrNotFound, msgBrandNotFound)
	}

	if in.Name != nil {
		brand.Name = *in.Name
		brand.Slug = fmt.Sprintf("%s-%d", helpers.GenerateSlug(*in.Name), user.ID)
	}
	if in.Description != nil {
		brand.Description = in.Description
	}
	if in.Logo != nil {
		brand.Logo = in.Logo
	}
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}
	return brand, nil
}

func (s *CatalogService) ListBrands(ctx context.Context, skip, limit int) ([]models.Brand, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.brandRepo.List(ctx, limit, skip)
}

func (s *CatalogService) GetBrand(ctx context.Context, brandID uint) (*models.Brand, error) {
	brand, err := s.brandRepo.FindByIDWithProducts(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand %d: %w", brandID, err)
	}
	if brand == nil {
		return nil, detail(ErrNotFound, msgBrandNotFound)
	}
	return brand, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, user *models.User, in ProductInput) (*models.Product, error) {
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, detail(ErrValidation, "order_quantity must not be negative")
	}

	brand, err := s.brandRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	if brand == nil {
		return nil, detail(ErrInvalidState, "Brand does not exist.")
	}

	product := &models.Product{
		BrandID:      brand.ID,
		Name:         in.Name,
		Pictures:     nonNil(in.Pictures),
		Videos:       nonNil(in.Videos),
		Category:     in.Category,
		Description:  in.Description,
		OrderSize:    in.OrderSize,
		Stock:        in.Stock,
		QuantityUnit: in.QuantityUnit,
		Price:        in.Price,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.log.Info("product created", zap.Uint("product_id", product.ID), zap.Uint("brand_id", brand.ID))
	return product, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetApproved(ctx)
}

func (s *CatalogService) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetAll(ctx)
}

func (s *CatalogService) MyProducts(ctx context.Context, user *models.User) ([]models.Product, error) {
	products, err := s.productRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if len(products) == 0 {
		return nil, detail(ErrNotFound, "No products found for this user.")
	}
	return products, nil
}

func (s *CatalogService) getProduct(ctx context.Context, productID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}
	if product == nil {
		return nil, detail(ErrNotFound, msgProductNotFound)
	}
	return product, nil
}

// GetProduct hides unapproved products from everyone but their owner and admins.
func (s *CatalogService) GetProduct(ctx context.Context, viewer *models.User, productID uint) (*models.Product, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Approved {
		return product, nil
	}
	if viewer != nil {
		if viewer.Role == models.RoleAdmin {
			return product, nil
		}
		if owned, err := s.owns(ctx, viewer, product); err != nil {
			return nil, err
		} else if owned {
			return product, nil
		}
	}
	return nil, detail(ErrNotFound, msgProductNotFound)
}

func (s *CatalogService) owns(ctx context.Context, user *models.User, product *models.Product) (bool, error) {
	brand, err := s.brandRepo.FindByID(ctx, product.BrandID)
	if err != nil {
		return false, fmt.Errorf("failed to get brand %d: %w", product.BrandID, err)
	}
	return brand != nil && brand.UserID == user.ID, nil
}

func applyProductPatch(product *models.Product, in ProductPatch) error {
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return err
		}
		product.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return detail(ErrValidation, "order_quantity must not be negative")
		}
		product.Stock = in.Stock
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Pictures != nil {
		product.Pictures = nonNil(*in.Pictures)
	}
	if in.Videos != nil {
		product.Videos = nonNil(*in.Videos)
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Description != nil {
		product.Description = in.Description
	}
	if in.OrderSize != nil {
		product.OrderSize = in.OrderSize
	}
	if in.QuantityUnit != nil {
		product.QuantityUnit = in.QuantityUnit
	}
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, user *models.User, productID uint, in ProductPatch) (*models.Product, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	owned, err := s.owns(ctx, user, product)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, detail(ErrForbidden, "You do not have permission to update this product")
	}

	if err := applyProductPatch(product, in); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, user *models.User, productID uint) error {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return err
	}
	owned, err := s.owns(ctx, user, product)
	if err != nil {
		return err
	}
	if !owned {
		return detail(ErrForbidden, "You do not have permission to delete this product")
	}
	return s.deleteProduct(ctx, product)
}

func (s *CatalogService) deleteProduct(ctx context.Context, product *models.Product) error {
	pending, err := s.productRepo.HasPendingOrders(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("failed to check pending orders: %w", err)
	}
	if pending {
		return detail(ErrInvalidState, "Complete the order before deleting this product.")
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.log.Info("product deleted", zap.Uint("product_id", product.ID))
	return nil
}

func (s *CatalogService) AdminUpdateProduct(ctx context.Context, productID uint, in AdminProductPatch) (*models.Product, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := applyProductPatch(product, in.ProductPatch); err != nil {
		return nil, err
	}
	if in.Approved != nil {
		product.Approved = *in.Approved
	}
	if in.Rating != nil {
		product.Rating = in.Rating
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) AdminDeleteProduct(ctx context.Context, productID uint) error {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return err
	}
	return s.deleteProduct(ctx, product)
}
