package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/captcha"
	"go-jewelry-store/internal/config"
	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/pkg/sanitize"
	"go-jewelry-store/pkg/validator"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	degradedCodePrefix  = "ORD-"
	productUnavailable  = "One or more products are unavailable"
	orderNumberTimeForm = "20060102150405"
)

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"min=1,max=10"`
}

type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name" validate:"required,min=2,max=100,alphaspace"`
	CustomerPhone   string             `json:"customer_phone" validate:"required,len=10,digits"`
	CustomerAddress string             `json:"customer_address" validate:"required,min=10,max=500"`
	Pincode         string             `json:"pincode" validate:"required,len=6,digits"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,max=20,dive"`
	CaptchaToken    string             `json:"captcha_token"`
}

// OrderReceipt is everything the public caller gets back.
type OrderReceipt struct {
	OrderNumber       string            `json:"order_number"`
	OrderCode         string            `json:"order_code"`
	TotalAmount       decimal.Decimal   `json:"total_amount"`
	Status            model.OrderStatus `json:"status"`
	ItemCount         int               `json:"item_count"`
	EstimatedDelivery string            `json:"estimated_delivery"`
	WhatsAppURL       string            `json:"whatsapp_url,omitempty"`
}

type UpdateOrderRequest struct {
	Notes               *string `json:"notes" validate:"omitempty,max=2000"`
	PaymentReceived     *bool   `json:"payment_received"`
	WhatsappMessageSent *bool   `json:"whatsapp_message_sent"`
}

type UpdateStatusRequest struct {
	Status model.OrderStatus `json:"status" validate:"required,oneof=payment_pending confirmed processing shipped delivered cancelled"`
}

type OrderPage struct {
	Orders []model.Order `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// OrderNotifier is told about committed order changes. Errors are logged only.
type OrderNotifier interface {
	OrderCreated(ctx context.Context, order *model.Order) error
	OrderStatusChanged(ctx context.Context, order *model.Order, from model.OrderStatus) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest, remoteIP string) (*OrderReceipt, error)
	TrackOrder(ctx context.Context, code, phone string) (*model.OrderTracking, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) (*OrderPage, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateStatusRequest, actorID string) (*model.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, req *UpdateOrderRequest, actorID string) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID, actorID string) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	allocator   CodeAllocator
	tx          repository.Transactor
	captcha     captcha.Verifier
	notifier    OrderNotifier
	cfg         config.Orders
	now         func() time.Time
}

func NewOrderService(
	oRepo repository.OrderRepository,
	pRepo repository.ProductRepository,
	allocator CodeAllocator,
	tx repository.Transactor,
	verifier captcha.Verifier,
	notifier OrderNotifier,
	cfg config.Orders,
) OrderService {
	return &orderService{
		orderRepo:   oRepo,
		productRepo: pRepo,
		allocator:   allocator,
		tx:          tx,
		captcha:     verifier,
		notifier:    notifier,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req *CreateOrderRequest, remoteIP string) (*OrderReceipt, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if err := s.captcha.Verify(ctx, req.CaptchaToken, remoteIP); err != nil {
		return nil, err
	}

	name := sanitize.Text(req.CustomerName)
	address := sanitize.Text(req.CustomerAddress)
	if len(address) < 10 {
		return nil, apperror.Validation("Validation failed", apperror.Detail{
			Field:   "customer_address",
			Message: "must be at least 10 characters long",
		})
	}

	items, total, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 || !total.IsPositive() {
		return nil, apperror.Validation("Order total must be greater than zero")
	}

	now := s.now()
	order := &model.Order{
		OrderNumber:     fmt.Sprintf("%s%03d", now.UTC().Format(orderNumberTimeForm), now.Nanosecond()/int(time.Millisecond)),
		CustomerName:    name,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: fmt.Sprintf("%s, Pincode: %s", address, req.Pincode),
		TotalAmount:     total,
		Status:          model.StatusPaymentPending,
	}

	// Header and items commit together or not at all.
	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		code, degraded, err := s.orderCode(ctx, tx)
		if err != nil {
			return err
		}
		order.OrderCode = code
		order.CodeDegraded = degraded

		orders := s.orderRepo.WithTx(tx)
		if err := orders.Create(ctx, order); err != nil {
			return errors.Wrap(err, "insert order header")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := orders.CreateItems(ctx, items); err != nil {
			return errors.Wrap(err, "insert order items")
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("order creation rolled back")
		if repository.IsUniqueViolation(err) {
			return nil, apperror.Conflict("Order could not be placed, please retry").Wrap(err)
		}
		return nil, apperror.Internal(err)
	}
	order.Items = items

	log.WithFields(log.Fields{
		"order_code": order.OrderCode,
		"total":      order.TotalAmount.StringFixed(2),
		"items":      len(items),
	}).Info("order created")

	if s.notifier != nil {
		if err := s.notifier.OrderCreated(ctx, order); err != nil {
			log.WithError(err).WithField("order_code", order.OrderCode).Warn("order notification failed")
		}
	}

	return s.receipt(order), nil
}

// priceItems resolves each product and snapshots it. Unknown or inactive
// products abort the order; the offending id is logged, never returned.
func (s *orderService) priceItems(ctx context.Context, lines []OrderItemRequest) ([]model.OrderItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, apperror.Internal(errors.Wrap(err, "resolve order products"))
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]model.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok || !product.IsActive {
			log.WithFields(log.Fields{
				"product_id": line.ProductID,
				"found":      ok,
			}).Warn("order references unavailable product")
			return nil, decimal.Zero, apperror.Validation(productUnavailable)
		}

		unit := product.EffectivePrice()
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)

		items = append(items, model.OrderItem{
			ProductID:       product.ID,
			Quantity:        line.Quantity,
			UnitPrice:       unit,
			TotalPrice:      lineTotal,
			ProductSnapshot: datatypes.NewJSONType(product.Snapshot()),
		})
	}
	return items, total, nil
}

// orderCode allocates from the counter. When storage fails and the fallback is
// enabled it issues a timestamp code and flags the order as degraded.
func (s *orderService) orderCode(ctx context.Context, tx *gorm.DB) (string, bool, error) {
	code, err := s.allocator.Allocate(ctx, tx, model.FamilyOrder)
	if err == nil {
		return code, false, nil
	}
	if errors.Is(err, ErrSequenceExhausted) || !s.cfg.CodeFallback {
		return "", false, err
	}

	code = fmt.Sprintf("%s%d", degradedCodePrefix, s.now().UnixMilli())
	log.WithError(err).WithField("order_code", code).
		Warn("order code allocator unavailable, issuing degraded timestamp code")
	return code, true, nil
}

func (s *orderService) receipt(order *model.Order) *OrderReceipt {
	r := &OrderReceipt{
		OrderNumber:       order.OrderNumber,
		OrderCode:         order.OrderCode,
		TotalAmount:       order.TotalAmount,
		Status:            order.Status,
		ItemCount:         len(order.Items),
		EstimatedDelivery: fmt.Sprintf("%d-%d business days", s.cfg.DeliveryMinDays, s.cfg.DeliveryMaxDays),
	}
	if number := strings.TrimPrefix(s.cfg.WhatsAppNumber, "+"); number != "" {
		text := fmt.Sprintf("Hello! I have placed order %s for a total of Rs. %s. Please share the payment details.",
			order.OrderCode, order.TotalAmount.StringFixed(2))
		r.WhatsAppURL = fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(text))
	}
	return r
}

// TrackOrder answers NotFound for both an unknown code and a wrong phone.
func (s *orderService) TrackOrder(ctx context.Context, code, phone string) (*model.OrderTracking, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	phone = strings.TrimSpace(phone)
	if code == "" || phone == "" {
		return nil, apperror.Validation("Order code and phone are required")
	}

	order, err := s.orderRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, storageError(err, "Order")
	}
	if order.CustomerPhone != phone {
		return nil, apperror.NotFound("Order")
	}
	tracking := order.ToTracking()
	return &tracking, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) (*OrderPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.Validation("Invalid order status")
	}
	filter = filter.Normalize()
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &OrderPage{Orders: orders, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "Order")
	}
	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateStatusRequest, actorID string) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "Order")
	}
	from := order.Status
	if !from.CanTransitionTo(req.Status) {
		return nil, apperror.Conflict(fmt.Sprintf("Cannot change order status from %s to %s", from, req.Status))
	}

	moved, err := s.orderRepo.UpdateStatus(ctx, id, from, req.Status, actorID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !moved {
		return nil, apperror.Conflict("Order status was changed by another request")
	}

	order.Status = req.Status
	order.UpdatedBy = actorID
	log.WithFields(log.Fields{"order_code": order.OrderCode, "from": from, "to": req.Status}).Info("order status changed")

	if s.notifier != nil {
		if err := s.notifier.OrderStatusChanged(ctx, order, from); err != nil {
			log.WithError(err).WithField("order_code", order.OrderCode).Warn("order notification failed")
		}
	}
	return order, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id uuid.UUID, req *UpdateOrderRequest, actorID string) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	fields := map[string]interface{}{"updated_by": actorID}
	if req.Notes != nil {
		fields["notes"] = sanitize.Text(*req.Notes)
	}
	if req.PaymentReceived != nil {
		fields["payment_received"] = *req.PaymentReceived
	}
	if req.WhatsappMessageSent != nil {
		fields["whatsapp_message_sent"] = *req.WhatsappMessageSent
	}

	if err := s.orderRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, storageError(err, "Order")
	}
	return s.GetOrder(ctx, id)
}

func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID, actorID string) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return storageError(err, "Order")
	}
	log.WithFields(log.Fields{"order_id": id, "admin_id": actorID}).Warn("order deleted")
	return nil
}
