// Package testutil provides an in-memory stand-in for the repository layer.
// Every repository interface is implemented over one Store, and the Store's
// transactor snapshots state so a failed unit of work leaves nothing behind.
package testutil

import (
	"context"
	"sync"
	"time"

	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	admins    map[uuid.UUID]model.Admin
	products  map[uuid.UUID]model.Product
	orders    map[uuid.UUID]model.Order
	items     map[uuid.UUID]model.OrderItem
	expenses  map[uuid.UUID]model.Expense
	sequences map[model.CodeFamily]int64

	failures map[string]error
	Now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		admins:    map[uuid.UUID]model.Admin{},
		products:  map[uuid.UUID]model.Product{},
		orders:    map[uuid.UUID]model.Order{},
		items:     map[uuid.UUID]model.OrderItem{},
		expenses:  map[uuid.UUID]model.Expense{},
		sequences: map[model.CodeFamily]int64{},
		failures:  map[string]error{},
		Now:       time.Now,
	}
}

// FailOn makes the named operation (e.g. "orders.CreateItems") return err
// until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// failLocked must be called with mu held.
func (s *Store) failLocked(op string) error {
	return s.failures[op]
}

func (s *Store) Admins() repository.AdminRepository { return &adminRepo{s} }
func (s *Store) Products() repository.ProductRepository { return &productRepo{s} }
func (s *Store) Orders() repository.OrderRepository { return &orderRepo{s} }
func (s *Store) Sequences() repository.SequenceRepository { return &sequenceRepo{s} }
func (s *Store) Expenses() repository.ExpenseRepository { return &expenseRepo{s} }
func (s *Store) Dashboard() repository.DashboardRepository { return &dashboardRepo{s} }
func (s *Store) Transactor() repository.Transactor { return &transactor{s} }

// SetSequence forces a family's counter, simulating drift.
func (s *Store) SetSequence(family model.CodeFamily, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[family] = value
}

func (s *Store) Sequence(family model.CodeFamily) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sequences[family]
}

func (s *Store) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// PutProduct inserts a product directly, bypassing code allocation.
func (s *Store) PutProduct(p model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.Now()
		p.UpdatedAt = p.CreatedAt
	}
	s.products[p.ID] = cloneProduct(p)
	return p
}

func (s *Store) PutAdmin(a model.Admin) model.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.Now()
		a.UpdatedAt = a.CreatedAt
	}
	s.admins[a.ID] = a
	return a
}

func (s *Store) PutOrder(o model.Order) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.Now()
		o.UpdatedAt = o.CreatedAt
	}
	for _, item := range o.Items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = o.ID
		s.items[item.ID] = item
	}
	header := o
	header.Items = nil
	s.orders[o.ID] = header
	return o
}

type snapshot struct {
	admins    map[uuid.UUID]model.Admin
	products  map[uuid.UUID]model.Product
	orders    map[uuid.UUID]model.Order
	items     map[uuid.UUID]model.OrderItem
	expenses  map[uuid.UUID]model.Expense
	sequences map[model.CodeFamily]int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		admins:    copyMap(s.admins),
		products:  copyMap(s.products),
		orders:    copyMap(s.orders),
		items:     copyMap(s.items),
		expenses:  copyMap(s.expenses),
		sequences: copyMap(s.sequences),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins = snap.admins
	s.products = snap.products
	s.orders = snap.orders
	s.items = snap.items
	s.expenses = snap.expenses
	s.sequences = snap.sequences
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type transactor struct {
	s *Store
}

// WithinTransaction serializes units of work and restores the pre-call state
// when fn fails. Repositories ignore the nil tx handed to fn.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(nil); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func cloneProduct(p model.Product) model.Product {
	if p.Images != nil {
		images := make([]string, len(p.Images))
		copy(images, p.Images)
		p.Images = images
	}
	if p.DiscountedPrice != nil {
		d := *p.DiscountedPrice
		p.DiscountedPrice = &d
	}
	return p
}

func (s *Store) stamp(base *model.BaseModel) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	now := s.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}
