package handler

import (
	"time"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(s service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: s}
}

func dateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(service.DateLayout, raw)
	if err != nil {
		return nil, apperror.Validation("Invalid query parameter", apperror.Detail{Field: key, Message: "must match the layout " + service.DateLayout})
	}
	return &t, nil
}

// List
// GET /api/admin/expenses?from=2026-01-01&to=2026-01-31&category=
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	from, err := dateQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := dateQuery(c, "to")
	if err != nil {
		return err
	}

	expenses, err := h.expenseService.ListExpenses(c.UserContext(), repository.ExpenseFilter{
		From:     from,
		To:       to,
		Category: c.Query("category"),
	})
	if err != nil {
		return err
	}
	return ok(c, expenses)
}

// Summary totals expenses per category. The range defaults to the current month.
// GET /api/admin/expenses/summary?from=&to=
func (h *ExpenseHandler) Summary(c *fiber.Ctx) error {
	from, err := dateQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := dateQuery(c, "to")
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if from == nil {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		from = &start
	}
	if to == nil {
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		to = &end
	}

	summary, err := h.expenseService.Summary(c.UserContext(), *from, *to)
	if err != nil {
		return err
	}
	return ok(c, summary)
}

// Create
// POST /api/admin/expenses
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}

	var req service.ExpenseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	expense, err := h.expenseService.CreateExpense(c.UserContext(), &req, admin.ID.String())
	if err != nil {
		return err
	}
	return created(c, "Expense recorded", expense)
}

// Update
// PUT /api/admin/expenses/:id
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req service.ExpenseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	expense, err := h.expenseService.UpdateExpense(c.UserContext(), id, &req, admin.ID.String())
	if err != nil {
		return err
	}
	return okMessage(c, "Expense updated", expense)
}

// Delete
// DELETE /api/admin/expenses/:id
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.expenseService.DeleteExpense(c.UserContext(), id, admin.ID.String()); err != nil {
		return err
	}
	return okMessage(c, "Expense deleted", nil)
}
