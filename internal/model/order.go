package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	StatusPaymentPending OrderStatus = "payment_pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusProcessing     OrderStatus = "processing"
	StatusShipped        OrderStatus = "shipped"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// statusRank orders the forward path; cancelled sits outside it.
var statusRank = map[OrderStatus]int{
	StatusPaymentPending: 0,
	StatusConfirmed:      1,
	StatusProcessing:     2,
	StatusShipped:        3,
	StatusDelivered:      4,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == StatusCancelled
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo allows forward moves along the path and cancellation from any
// non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() || !next.Valid() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

type Order struct {
	BaseModel
	OrderNumber         string          `gorm:"type:varchar(40);index;not null" json:"order_number"`
	OrderCode           string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_code"`
	CodeDegraded        bool            `gorm:"not null;default:false" json:"code_degraded"` // timestamp fallback, not from the counter
	CustomerName        string          `gorm:"type:varchar(100);not null" json:"customer_name"`
	CustomerPhone       string          `gorm:"type:varchar(10);not null;index" json:"customer_phone"`
	CustomerAddress     string          `gorm:"type:text;not null" json:"customer_address"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status              OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	WhatsappMessageSent bool            `gorm:"not null;default:false" json:"whatsapp_message_sent"`
	PaymentReceived     bool            `gorm:"not null;default:false" json:"payment_received"`
	Notes               string          `gorm:"type:text" json:"notes"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem belongs to exactly one order. UnitPrice and ProductSnapshot are
// captured at order time and never recomputed.
type OrderItem struct {
	ID              uuid.UUID                           `gorm:"type:uuid;primary_key;" json:"id"`
	OrderID         uuid.UUID                           `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID       uuid.UUID                           `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity        int                                 `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice       decimal.Decimal                     `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice      decimal.Decimal                     `gorm:"type:decimal(12,2);not null" json:"total_price"`
	ProductSnapshot datatypes.JSONType[ProductSnapshot] `gorm:"type:jsonb;not null" json:"product_snapshot"`
	CreatedAt       time.Time                           `json:"created_at"`
}

func (item *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return
}

// RecalculateTotal sums the line totals.
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	o.TotalAmount = total
}

// OrderItemView is a tracking-safe projection of an item.
type OrderItemView struct {
	ProductCode string          `json:"product_code"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderTracking is what the public sees when looking up their own order.
type OrderTracking struct {
	OrderCode   string          `json:"order_code"`
	OrderNumber string          `json:"order_number"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItemView `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (o *Order) ToTracking() OrderTracking {
	items := make([]OrderItemView, len(o.Items))
	for i, item := range o.Items {
		snap := item.ProductSnapshot.Data()
		items[i] = OrderItemView{
			ProductCode: snap.ProductCode,
			Name:        snap.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		}
	}
	return OrderTracking{
		OrderCode:   o.OrderCode,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       items,
		CreatedAt:   o.CreatedAt,
	}
}
