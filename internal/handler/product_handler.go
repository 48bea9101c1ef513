package handler

import (
	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{productService: s}
}

func productTypeQuery(c *fiber.Ctx) (model.ProductType, error) {
	t := model.ProductType(c.Query("type"))
	if t != "" && !t.Valid() {
		return "", apperror.Validation("Invalid product type", apperror.Detail{Field: "type", Message: "must be one of: chain, bracelet-anklet"})
	}
	return t, nil
}

// ListPublic returns active products for the storefront
// GET /api/products?type=chain
func (h *ProductHandler) ListPublic(c *fiber.Ctx) error {
	productType, err := productTypeQuery(c)
	if err != nil {
		return err
	}

	products, err := h.productService.ListPublicProducts(c.UserContext(), productType)
	if err != nil {
		return err
	}
	return ok(c, products)
}

// GetPublic
// GET /api/products/:id
func (h *ProductHandler) GetPublic(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.productService.GetPublicProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, product)
}

// List returns every product, active or not
// GET /api/admin/products?type=&active=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	productType, err := productTypeQuery(c)
	if err != nil {
		return err
	}
	active, err := queryBool(c, "active")
	if err != nil {
		return err
	}

	products, err := h.productService.ListProducts(c.UserContext(), repository.ProductFilter{Type: productType, Active: active})
	if err != nil {
		return err
	}
	return ok(c, products)
}

// Get
// GET /api/admin/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.productService.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, product)
}

// Create allocates the next code for the product's type and stores it
// POST /api/admin/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}

	var req service.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.productService.CreateProduct(c.UserContext(), &req, admin.ID.String())
	if err != nil {
		return err
	}
	return created(c, "Product created successfully", product)
}

// Update
// PUT /api/admin/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req service.UpdateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.productService.UpdateProduct(c.UserContext(), id, &req, admin.ID.String())
	if err != nil {
		return err
	}
	return okMessage(c, "Product updated successfully", product)
}

// Delete soft-deletes the product; its code is never reissued
// DELETE /api/admin/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.productService.DeleteProduct(c.UserContext(), id, admin.ID.String()); err != nil {
		return err
	}
	return okMessage(c, "Product deleted successfully", nil)
}
