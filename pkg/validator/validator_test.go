package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"min=1,max=10"`
}

type checkout struct {
	Name    string           `json:"name" validate:"required,min=2,max=100,alphaspace"`
	Phone   string           `json:"phone" validate:"required,len=10,digits"`
	Price   decimal.Decimal  `json:"price" validate:"gt=0"`
	Offer   *decimal.Decimal `json:"offer" validate:"omitempty,gt=0"`
	Items   []line           `json:"items" validate:"required,min=1,max=20,dive"`
	Ignored string           `json:"-"`
}

func validCheckout() checkout {
	return checkout{
		Name:  "Asha Rao",
		Phone: "9876543210",
		Price: decimal.NewFromInt(100),
		Items: []line{{ProductID: uuid.New(), Quantity: 1}},
	}
}

func fields(errs []*ErrorResponse) map[string]*ErrorResponse {
	out := make(map[string]*ErrorResponse, len(errs))
	for _, e := range errs {
		out[e.FailedField] = e
	}
	return out
}

func TestValidateStructAccepts(t *testing.T) {
	assert.Empty(t, ValidateStruct(validCheckout()))
}

func TestValidateStructReportsJSONPaths(t *testing.T) {
	c := validCheckout()
	c.Name = "R2D2"
	c.Phone = "98765-4321"
	c.Items = []line{{ProductID: uuid.Nil, Quantity: 11}}

	got := fields(ValidateStruct(c))

	require.Contains(t, got, "name")
	assert.Equal(t, "must contain only letters and spaces", got["name"].Message)
	require.Contains(t, got, "phone")
	assert.Equal(t, "digits", got["phone"].Tag)
	require.Contains(t, got, "items[0].product_id")
	assert.Equal(t, "is required", got["items[0].product_id"].Message)
	require.Contains(t, got, "items[0].quantity")
	assert.Equal(t, "must be at most 10", got["items[0].quantity"].Message)
}

func TestValidateStructCollectionBounds(t *testing.T) {
	c := validCheckout()
	c.Items = []line{}
	got := fields(ValidateStruct(c))
	require.Contains(t, got, "items")
	assert.Equal(t, "must contain at least 1 item(s)", got["items"].Message)

	c.Items = make([]line, 21)
	for i := range c.Items {
		c.Items[i] = line{ProductID: uuid.New(), Quantity: 1}
	}
	got = fields(ValidateStruct(c))
	require.Contains(t, got, "items")
	assert.Equal(t, "max", got["items"].Tag)
}

func TestValidateStructDecimals(t *testing.T) {
	c := validCheckout()
	c.Price = decimal.Zero
	negative := decimal.NewFromInt(-5)
	c.Offer = &negative

	got := fields(ValidateStruct(c))
	require.Contains(t, got, "price")
	assert.Equal(t, "must be greater than 0", got["price"].Message)
	assert.Contains(t, got, "offer")
}
