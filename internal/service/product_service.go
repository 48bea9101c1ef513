package service

import (
	"context"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/pkg/sanitize"
	"go-jewelry-store/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	ProductType     model.ProductType `json:"product_type" validate:"required,oneof=chain bracelet-anklet"`
	Name            string            `json:"name" validate:"required,min=2,max=255"`
	Description     string            `json:"description" validate:"max=2000"`
	Price           decimal.Decimal   `json:"price" validate:"gt=0"`
	DiscountedPrice *decimal.Decimal  `json:"discounted_price" validate:"omitempty,gt=0"`
	Images          []string          `json:"images" validate:"max=10,dive,url"`
	IsActive        *bool             `json:"is_active"`
}

// UpdateProductRequest replaces the editable fields. Type and code never change.
type UpdateProductRequest struct {
	Name            string           `json:"name" validate:"required,min=2,max=255"`
	Description     string           `json:"description" validate:"max=2000"`
	Price           decimal.Decimal  `json:"price" validate:"gt=0"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price" validate:"omitempty,gt=0"`
	Images          []string         `json:"images" validate:"max=10,dive,url"`
	IsActive        *bool            `json:"is_active"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest, actorID string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actorID string) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actorID string) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	ListPublicProducts(ctx context.Context, productType model.ProductType) ([]model.PublicProduct, error)
	GetPublicProduct(ctx context.Context, id uuid.UUID) (*model.PublicProduct, error)
}

type productService struct {
	productRepo repository.ProductRepository
	allocator   CodeAllocator
	tx          repository.Transactor
}

func NewProductService(pRepo repository.ProductRepository, allocator CodeAllocator, tx repository.Transactor) ProductService {
	return &productService{
		productRepo: pRepo,
		allocator:   allocator,
		tx:          tx,
	}
}

func checkDiscount(price decimal.Decimal, discounted *decimal.Decimal) error {
	if discounted != nil && discounted.GreaterThan(price) {
		return apperror.Validation("Validation failed", apperror.Detail{
			Field:   "discounted_price",
			Message: "must not exceed price",
		})
	}
	return nil
}

func sanitizeImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if clean := sanitize.Text(img); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func (s *productService) CreateProduct(ctx context.Context, req *CreateProductRequest, actorID string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if err := checkDiscount(req.Price, req.DiscountedPrice); err != nil {
		return nil, err
	}

	product := &model.Product{
		ProductType:     req.ProductType,
		Name:            sanitize.Text(req.Name),
		Description:     sanitize.Text(req.Description),
		Price:           req.Price,
		DiscountedPrice: req.DiscountedPrice,
		Images:          sanitizeImages(req.Images),
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
	product.CreatedBy = actorID
	product.UpdatedBy = actorID

	// The code is allocated in the insert's transaction, so a failed insert
	// does not burn a number.
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		code, err := s.allocator.Allocate(ctx, tx, product.ProductType.Family())
		if err != nil {
			return err
		}
		product.ProductCode = code
		return s.productRepo.WithTx(tx).Create(ctx, product)
	})
	if err != nil {
		return nil, storageError(err, "Product")
	}

	log.WithFields(log.Fields{"product_code": product.ProductCode, "admin_id": actorID}).Info("product created")
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actorID string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if err := checkDiscount(req.Price, req.DiscountedPrice); err != nil {
		return nil, err
	}

	var updated *model.Product
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		existing, err := products.FindByID(ctx, id)
		if err != nil {
			return err
		}

		existing.Name = sanitize.Text(req.Name)
		existing.Description = sanitize.Text(req.Description)
		existing.Price = req.Price
		existing.DiscountedPrice = req.DiscountedPrice
		existing.Images = sanitizeImages(req.Images)
		if req.IsActive != nil {
			existing.IsActive = *req.IsActive
		}
		existing.UpdatedBy = actorID

		if err := products.Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, storageError(err, "Product")
	}
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID, actorID string) error {
	if err := s.productRepo.Delete(ctx, id, actorID); err != nil {
		return storageError(err, "Product")
	}
	log.WithFields(log.Fields{"product_id": id, "admin_id": actorID}).Info("product deleted")
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "Product")
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperror.Validation("Invalid product type")
	}
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return products, nil
}

// ListPublicProducts returns active products only.
func (s *productService) ListPublicProducts(ctx context.Context, productType model.ProductType) ([]model.PublicProduct, error) {
	active := true
	products, err := s.ListProducts(ctx, repository.ProductFilter{Type: productType, Active: &active})
	if err != nil {
		return nil, err
	}
	public := make([]model.PublicProduct, len(products))
	for i := range products {
		public[i] = products[i].ToPublic()
	}
	return public, nil
}

func (s *productService) GetPublicProduct(ctx context.Context, id uuid.UUID) (*model.PublicProduct, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "Product")
	}
	if !product.IsActive {
		return nil, apperror.NotFound("Product")
	}
	public := product.ToPublic()
	return &public, nil
}
