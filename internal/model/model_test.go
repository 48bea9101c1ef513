package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCodeFamilyFormat(t *testing.T) {
	assert.Equal(t, "CH001", FamilyChain.Format(1))
	assert.Equal(t, "BR042", FamilyBraceletAnklet.Format(42))
	assert.Equal(t, "ORD999", FamilyOrder.Format(999))
	assert.Equal(t, "ORD1000", FamilyOrder.Format(1000))
	assert.False(t, CodeFamily("ring").Valid())
	assert.Equal(t, FamilyChain, ProductTypeChain.Family())
	assert.Equal(t, FamilyBraceletAnklet, ProductTypeBraceletAnklet.Family())
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{StatusPaymentPending, StatusConfirmed, true},
		{StatusPaymentPending, StatusShipped, true},
		{StatusConfirmed, StatusProcessing, true},
		{StatusShipped, StatusDelivered, true},
		{StatusProcessing, StatusConfirmed, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusShipped, StatusCancelled, true},
		{StatusPaymentPending, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusConfirmed, OrderStatus("lost"), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestEffectivePriceAndSnapshot(t *testing.T) {
	discount := decimal.NewFromInt(80)
	p := &Product{
		ProductCode:     "CH001",
		ProductType:     ProductTypeChain,
		Name:            "Rope Chain",
		Price:           decimal.NewFromInt(100),
		DiscountedPrice: &discount,
		Images:          []string{"https://cdn.example.com/a.jpg"},
	}

	assert.True(t, p.EffectivePrice().Equal(decimal.NewFromInt(80)))

	snap := p.Snapshot()
	p.Images[0] = "changed"
	*p.DiscountedPrice = decimal.NewFromInt(10)

	assert.Equal(t, "https://cdn.example.com/a.jpg", snap.Images[0])
	assert.True(t, snap.DiscountedPrice.Equal(decimal.NewFromInt(80)))

	p.DiscountedPrice = nil
	assert.True(t, p.EffectivePrice().Equal(decimal.NewFromInt(100)))
}

func TestRecalculateTotal(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{TotalPrice: decimal.RequireFromString("199.50")},
		{TotalPrice: decimal.RequireFromString("0.50")},
	}}
	o.RecalculateTotal()
	assert.Equal(t, "200", o.TotalAmount.String())
}
