package service

import (
	"context"
	"time"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/pkg/sanitize"
	"go-jewelry-store/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type ExpenseRequest struct {
	Title    string          `json:"title" validate:"required,min=2,max=150"`
	Category string          `json:"category" validate:"required,min=2,max=50"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	SpentOn  string          `json:"spent_on" validate:"required,datetime=2006-01-02"`
	Notes    string          `json:"notes" validate:"max=2000"`
}

type ExpenseService interface {
	CreateExpense(ctx context.Context, req *ExpenseRequest, actorID string) (*model.Expense, error)
	UpdateExpense(ctx context.Context, id uuid.UUID, req *ExpenseRequest, actorID string) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID, actorID string) error
	ListExpenses(ctx context.Context, filter repository.ExpenseFilter) ([]model.Expense, error)
	Summary(ctx context.Context, from, to time.Time) (*model.ExpenseSummary, error)
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
}

func NewExpenseService(eRepo repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenseRepo: eRepo}
}

func (s *expenseService) apply(e *model.Expense, req *ExpenseRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationFailed(errs)
	}
	spentOn, err := time.Parse(DateLayout, req.SpentOn)
	if err != nil {
		return apperror.Validation("Validation failed", apperror.Detail{Field: "spent_on", Message: "must be a date in YYYY-MM-DD format"})
	}
	e.Title = sanitize.Text(req.Title)
	e.Category = sanitize.Text(req.Category)
	e.Amount = req.Amount
	e.SpentOn = spentOn
	e.Notes = sanitize.Text(req.Notes)
	return nil
}

func (s *expenseService) CreateExpense(ctx context.Context, req *ExpenseRequest, actorID string) (*model.Expense, error) {
	expense := &model.Expense{}
	if err := s.apply(expense, req); err != nil {
		return nil, err
	}
	expense.CreatedBy = actorID
	expense.UpdatedBy = actorID
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, apperror.Internal(err)
	}
	return expense, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, id uuid.UUID, req *ExpenseRequest, actorID string) (*model.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "Expense")
	}
	if err := s.apply(expense, req); err != nil {
		return nil, err
	}
	expense.UpdatedBy = actorID
	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, apperror.Internal(err)
	}
	return expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id uuid.UUID, actorID string) error {
	if err := s.expenseRepo.Delete(ctx, id, actorID); err != nil {
		return storageError(err, "Expense")
	}
	return nil
}

func (s *expenseService) ListExpenses(ctx context.Context, filter repository.ExpenseFilter) ([]model.Expense, error) {
	expenses, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return expenses, nil
}

func (s *expenseService) Summary(ctx context.Context, from, to time.Time) (*model.ExpenseSummary, error) {
	if to.Before(from) {
		return nil, apperror.Validation("'from' must not be after 'to'")
	}
	summary, err := s.expenseRepo.Summary(ctx, from, to)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return summary, nil
}
