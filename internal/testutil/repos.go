package testutil

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type adminRepo struct{ s *Store }

func (r *adminRepo) WithTx(*gorm.DB) repository.AdminRepository { return r }

func (r *adminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failLocked("admins.FindByEmail"); err != nil {
		return nil, err
	}
	for _, a := range r.s.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *adminRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failLocked("admins.FindByID"); err != nil {
		return nil, err
	}
	a, ok := r.s.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *adminRepo) FindAll(ctx context.Context) ([]model.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	admins := make([]model.Admin, 0, len(r.s.admins))
	for _, a := range r.s.admins {
		admins = append(admins, a)
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].CreatedAt.Before(admins[j].CreatedAt) })
	return admins, nil
}

func (r *adminRepo) Create(ctx context.Context, admin *model.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("admins.Create"); err != nil {
		return err
	}
	for _, a := range r.s.admins {
		if a.Email == admin.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.stamp(&admin.BaseModel)
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *adminRepo) Update(ctx context.Context, admin *model.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("admins.Update"); err != nil {
		return err
	}
	for id, a := range r.s.admins {
		if a.Email == admin.Email && id != admin.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.stamp(&admin.BaseModel)
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *adminRepo) UpdatePassword(ctx context.Context, adminID uuid.UUID, hashedPassword string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("admins.UpdatePassword"); err != nil {
		return err
	}
	a, ok := r.s.admins[adminID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.PasswordHash = hashedPassword
	r.s.admins[adminID] = a
	return nil
}

func (r *adminRepo) UpdateLastLogin(ctx context.Context, adminID uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admins[adminID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.LastLogin = &at
	r.s.admins[adminID] = a
	return nil
}

type productRepo struct{ s *Store }

func (r *productRepo) WithTx(*gorm.DB) repository.ProductRepository { return r }

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("products.Create"); err != nil {
		return err
	}
	for _, p := range r.s.products {
		if p.ProductCode == product.ProductCode {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.stamp(&product.BaseModel)
	r.s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *productRepo) FindAll(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failLocked("products.FindAll"); err != nil {
		return nil, err
	}
	products := []model.Product{}
	for _, p := range r.s.products {
		if p.DeletedAt.Valid {
			continue
		}
		if filter.Type != "" && p.ProductType != filter.Type {
			continue
		}
		if filter.Active != nil && p.IsActive != *filter.Active {
			continue
		}
		products = append(products, cloneProduct(p))
	}
	sort.Slice(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	return products, nil
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failLocked("products.FindByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failLocked("products.FindByIDs"); err != nil {
		return nil, err
	}
	products := []model.Product{}
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && !p.DeletedAt.Valid {
			products = append(products, cloneProduct(p))
		}
	}
	return products, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("products.Update"); err != nil {
		return err
	}
	r.s.stamp(&product.BaseModel)
	r.s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	p.DeletedBy = deletedBy
	p.DeletedAt = gorm.DeletedAt{Time: r.s.Now(), Valid: true}
	r.s.products[id] = p
	return nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) WithTx(*gorm.DB) repository.OrderRepository { return r }

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("orders.Create"); err != nil {
		return err
	}
	for _, o := range r.s.orders {
		if o.OrderCode == order.OrderCode {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.stamp(&order.BaseModel)
	header := *order
	header.Items = nil
	r.s.orders[order.ID] = header
	return nil
}

func (r *orderRepo) CreateItems(ctx context.Context, items []model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("orders.CreateItems"); err != nil {
		return err
	}
	for i := range items {
		if _, ok := r.s.orders[items[i].OrderID]; !ok {
			return fmt.Errorf("order %s does not exist", items[i].OrderID)
		}
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].CreatedAt = r.s.Now()
		r.s.items[items[i].ID] = items[i]
	}
	return nil
}

func (r *orderRepo) withItemsLocked(o model.Order) *model.Order {
	o.Items = []model.OrderItem{}
	for _, item := range r.s.items {
		if item.OrderID == o.ID {
			o.Items = append(o.Items, item)
		}
	}
	sort.Slice(o.Items, func(i, j int) bool { return o.Items[i].CreatedAt.Before(o.Items[j].CreatedAt) })
	return &o
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failLocked("orders.FindByID"); err != nil {
		return nil, err
	}
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withItemsLocked(o), nil
}

func (r *orderRepo) FindByCode(ctx context.Context, code string) (*model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.orders {
		if o.OrderCode == code {
			return r.withItemsLocked(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *orderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	filter = filter.Normalize()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failLocked("orders.List"); err != nil {
		return nil, 0, err
	}
	matched := []model.Order{}
	for _, o := range r.s.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		matched = append(matched, *r.withItemsLocked(o))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := filter.Offset()
	if start >= len(matched) {
		return []model.Order{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, updatedBy string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("orders.UpdateStatus"); err != nil {
		return false, err
	}
	o, ok := r.s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedBy = updatedBy
	o.UpdatedAt = r.s.Now()
	r.s.orders[id] = o
	return true, nil
}

func (r *orderRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("orders.UpdateFields"); err != nil {
		return err
	}
	o, ok := r.s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "notes":
			o.Notes = v.(string)
		case "payment_received":
			o.PaymentReceived = v.(bool)
		case "whatsapp_message_sent":
			o.WhatsappMessageSent = v.(bool)
		case "updated_by":
			o.UpdatedBy = v.(string)
		default:
			return fmt.Errorf("unsupported order field %q", k)
		}
	}
	o.UpdatedAt = r.s.Now()
	r.s.orders[id] = o
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for itemID, item := range r.s.items {
		if item.OrderID == id {
			delete(r.s.items, itemID)
		}
	}
	delete(r.s.orders, id)
	return nil
}

type sequenceRepo struct{ s *Store }

func (r *sequenceRepo) WithTx(*gorm.DB) repository.SequenceRepository { return r }

func (r *sequenceRepo) Next(ctx context.Context, family model.CodeFamily) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("sequences.Next"); err != nil {
		return 0, err
	}
	r.s.sequences[family]++
	return r.s.sequences[family], nil
}

func (r *sequenceRepo) CodeInUse(ctx context.Context, family model.CodeFamily, code string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failLocked("sequences.CodeInUse"); err != nil {
		return false, err
	}
	if family.IsProduct() {
		for _, p := range r.s.products {
			if p.ProductCode == code {
				return true, nil
			}
		}
		return false, nil
	}
	for _, o := range r.s.orders {
		if o.OrderCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *sequenceRepo) Reconcile(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, family := range model.AllFamilies {
		pattern := regexp.MustCompile("^" + family.Prefix() + "([0-9]+)$")
		highest := int64(0)
		consider := func(code string) {
			if m := pattern.FindStringSubmatch(code); m != nil {
				if n, err := strconv.ParseInt(m[1], 10, 64); err == nil && n > highest {
					highest = n
				}
			}
		}
		if family.IsProduct() {
			for _, p := range r.s.products {
				consider(p.ProductCode)
			}
		} else {
			for _, o := range r.s.orders {
				consider(o.OrderCode)
			}
		}
		if highest > r.s.sequences[family] {
			r.s.sequences[family] = highest
		} else if _, ok := r.s.sequences[family]; !ok {
			r.s.sequences[family] = 0
		}
	}
	return nil
}

func (r *sequenceRepo) FindAll(ctx context.Context) ([]model.CodeSequence, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seqs := []model.CodeSequence{}
	for family, value := range r.s.sequences {
		seqs = append(seqs, model.CodeSequence{Family: family, CurrentSequence: value})
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i].Family < seqs[j].Family })
	return seqs, nil
}

type expenseRepo struct{ s *Store }

func (r *expenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failLocked("expenses.Create"); err != nil {
		return err
	}
	r.s.stamp(&expense.BaseModel)
	r.s.expenses[expense.ID] = *expense
	return nil
}

func (r *expenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.expenses[id]
	if !ok || e.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *expenseRepo) FindAll(ctx context.Context, filter repository.ExpenseFilter) ([]model.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	expenses := []model.Expense{}
	for _, e := range r.s.expenses {
		if e.DeletedAt.Valid || !inRange(e.SpentOn, filter.From, filter.To) {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		expenses = append(expenses, e)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].SpentOn.After(expenses[j].SpentOn) })
	return expenses, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *model.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&expense.BaseModel)
	r.s.expenses[expense.ID] = *expense
	return nil
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok || e.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	e.DeletedBy = deletedBy
	e.DeletedAt = gorm.DeletedAt{Time: r.s.Now(), Valid: true}
	r.s.expenses[id] = e
	return nil
}

func (r *expenseRepo) Summary(ctx context.Context, from, to time.Time) (*model.ExpenseSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	summary := &model.ExpenseSummary{From: from, To: to, Total: decimal.Zero, Categories: []model.CategoryTotal{}}
	totals := map[string]decimal.Decimal{}
	for _, e := range r.s.expenses {
		if e.DeletedAt.Valid || !inRange(e.SpentOn, &from, &to) {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
		summary.Total = summary.Total.Add(e.Amount)
		summary.Count++
	}
	for category, total := range totals {
		summary.Categories = append(summary.Categories, model.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Total.GreaterThan(summary.Categories[j].Total)
	})
	return summary, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

type dashboardRepo struct{ s *Store }

func (r *dashboardRepo) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stats := &repository.DashboardStats{Revenue: decimal.Zero, TotalExpenses: decimal.Zero}
	for _, p := range r.s.products {
		if p.DeletedAt.Valid {
			continue
		}
		stats.TotalProducts++
		if p.IsActive {
			stats.ActiveProducts++
		}
	}
	for _, o := range r.s.orders {
		stats.TotalOrders++
		if o.Status == model.StatusPaymentPending {
			stats.PendingOrders++
		}
		if o.PaymentReceived && o.Status != model.StatusCancelled {
			stats.Revenue = stats.Revenue.Add(o.TotalAmount)
		}
	}
	for _, e := range r.s.expenses {
		if !e.DeletedAt.Valid {
			stats.TotalExpenses = stats.TotalExpenses.Add(e.Amount)
		}
	}
	stats.NetIncome = stats.Revenue.Sub(stats.TotalExpenses)
	return stats, nil
}

func (r *dashboardRepo) GetSalesMovement(ctx context.Context, startDate, endDate time.Time) ([]repository.SalesMovementData, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byDay := map[string]*repository.SalesMovementData{}
	for _, o := range r.s.orders {
		if o.Status == model.StatusCancelled || o.CreatedAt.Before(startDate) || o.CreatedAt.After(endDate) {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		data, ok := byDay[day]
		if !ok {
			data = &repository.SalesMovementData{Date: day, Revenue: decimal.Zero}
			byDay[day] = data
		}
		data.Orders++
		data.Revenue = data.Revenue.Add(o.TotalAmount)
	}
	results := []repository.SalesMovementData{}
	for _, data := range byDay {
		results = append(results, *data)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}
