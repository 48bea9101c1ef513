package service

import (
	"context"
	"sync"

	"go-jewelry-store/internal/config"
	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/testutil"

	"github.com/shopspring/decimal"
)

type stubCaptcha struct {
	err   error
	calls int
}

func (c *stubCaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	c.calls++
	return c.err
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []string
	moved   []model.OrderStatus
	err     error
}

func (n *recordingNotifier) OrderCreated(ctx context.Context, order *model.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, order.OrderCode)
	return n.err
}

func (n *recordingNotifier) OrderStatusChanged(ctx context.Context, order *model.Order, from model.OrderStatus) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.moved = append(n.moved, order.Status)
	return n.err
}

var testOrdersConfig = config.Orders{
	CodeFallback:       true,
	AllocationAttempts: 5,
	DeliveryMinDays:    5,
	DeliveryMaxDays:    7,
}

type orderFixture struct {
	store    *testutil.Store
	svc      *orderService
	captcha  *stubCaptcha
	notifier *recordingNotifier
}

func newOrderFixture(cfg config.Orders) *orderFixture {
	store := testutil.NewStore()
	captcha := &stubCaptcha{}
	notifier := &recordingNotifier{}
	allocator := NewCodeAllocator(store.Sequences(), cfg.AllocationAttempts)
	svc := NewOrderService(store.Orders(), store.Products(), allocator, store.Transactor(), captcha, notifier, cfg)
	return &orderFixture{
		store:    store,
		svc:      svc.(*orderService),
		captcha:  captcha,
		notifier: notifier,
	}
}

func (f *orderFixture) product(code string, price int64, discount *int64) model.Product {
	p := model.Product{
		ProductCode: code,
		ProductType: model.ProductTypeChain,
		Name:        "Rope Chain " + code,
		Price:       decimal.NewFromInt(price),
		Images:      []string{"https://cdn.example.com/" + code + ".jpg"},
		IsActive:    true,
	}
	if discount != nil {
		d := decimal.NewFromInt(*discount)
		p.DiscountedPrice = &d
	}
	return f.store.PutProduct(p)
}

func orderRequest(items ...OrderItemRequest) *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerName:    "Asha Rao",
		CustomerPhone:   "9876543210",
		CustomerAddress: "12 MG Road, Bengaluru",
		Pincode:         "560001",
		Items:           items,
		CaptchaToken:    "tok",
	}
}

func int64p(v int64) *int64 { return &v }
