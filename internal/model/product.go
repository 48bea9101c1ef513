package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ProductType string

const (
	ProductTypeChain          ProductType = "chain"
	ProductTypeBraceletAnklet ProductType = "bracelet-anklet"
)

func (t ProductType) Valid() bool {
	return t == ProductTypeChain || t == ProductTypeBraceletAnklet
}

// Family maps a product type to the code family its codes are drawn from.
func (t ProductType) Family() CodeFamily {
	return CodeFamily(t)
}

type Product struct {
	BaseModel
	ProductCode     string                      `gorm:"type:varchar(20);uniqueIndex;not null" json:"product_code"`
	ProductType     ProductType                 `gorm:"type:varchar(30);not null;index" json:"product_type"`
	Name            string                      `gorm:"type:varchar(255);not null" json:"name"`
	Description     string                      `gorm:"type:text" json:"description"`
	Price           decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountedPrice *decimal.Decimal            `gorm:"type:decimal(12,2)" json:"discounted_price,omitempty"`
	Images          datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`
	IsActive        bool                        `gorm:"not null;index" json:"is_active"`
}

// EffectivePrice is the discounted price when set, otherwise the base price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// ProductSnapshot is the immutable copy of a product stored on each order item.
type ProductSnapshot struct {
	ID              uuid.UUID        `json:"id"`
	ProductCode     string           `json:"product_code"`
	ProductType     ProductType      `json:"product_type"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	Images          []string         `json:"images"`
}

func (p *Product) Snapshot() ProductSnapshot {
	images := make([]string, len(p.Images))
	copy(images, p.Images)

	var discounted *decimal.Decimal
	if p.DiscountedPrice != nil {
		d := *p.DiscountedPrice
		discounted = &d
	}

	return ProductSnapshot{
		ID:              p.ID,
		ProductCode:     p.ProductCode,
		ProductType:     p.ProductType,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DiscountedPrice: discounted,
		Images:          images,
	}
}

// PublicProduct hides audit fields from storefront responses.
type PublicProduct struct {
	ID              uuid.UUID        `json:"id"`
	ProductCode     string           `json:"product_code"`
	ProductType     ProductType      `json:"product_type"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	Images          []string         `json:"images"`
}

func (p *Product) ToPublic() PublicProduct {
	s := p.Snapshot()
	return PublicProduct(s)
}
