package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-jewelry-store/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is the envelope pushed to admin dashboards.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Order   OrderDigest `json:"order"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

type OrderDigest struct {
	ID           uuid.UUID         `json:"id"`
	OrderCode    string            `json:"order_code"`
	CustomerName string            `json:"customer_name"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	Status       model.OrderStatus `json:"status"`
	ItemCount    int               `json:"item_count"`
	CodeDegraded bool              `json:"code_degraded,omitempty"`
}

// OrderNotifier broadcasts order events to connected admins.
type OrderNotifier struct {
	hub *Hub
	now func() time.Time
}

func NewOrderNotifier(hub *Hub) *OrderNotifier {
	return &OrderNotifier{hub: hub, now: time.Now}
}

func digest(order *model.Order) OrderDigest {
	return OrderDigest{
		ID:           order.ID,
		OrderCode:    order.OrderCode,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		Status:       order.Status,
		ItemCount:    len(order.Items),
		CodeDegraded: order.CodeDegraded,
	}
}

func (n *OrderNotifier) publish(event Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	n.hub.Publish(msg)
	return nil
}

func (n *OrderNotifier) OrderCreated(ctx context.Context, order *model.Order) error {
	return n.publish(Event{
		Type:    "order_update",
		Action:  "order_created",
		Order:   digest(order),
		Message: fmt.Sprintf("New order %s from %s (%s)", order.OrderCode, order.CustomerName, order.TotalAmount.StringFixed(2)),
		At:      n.now(),
	})
}

func (n *OrderNotifier) OrderStatusChanged(ctx context.Context, order *model.Order, from model.OrderStatus) error {
	return n.publish(Event{
		Type:    "order_update",
		Action:  "order_status_changed",
		Order:   digest(order),
		Message: fmt.Sprintf("Order %s moved from %s to %s", order.OrderCode, from, order.Status),
		At:      n.now(),
	})
}
