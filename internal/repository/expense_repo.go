package repository

import (
	"context"
	"time"

	"go-jewelry-store/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Category string
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	FindAll(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) error
	Summary(ctx context.Context, from, to time.Time) (*model.ExpenseSummary, error)
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepo) FindAll(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error) {
	var expenses []model.Expense
	q := r.db.WithContext(ctx).Model(&model.Expense{})
	if filter.From != nil {
		q = q.Where("spent_on >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("spent_on <= ?", *filter.To)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	err := q.Order("spent_on DESC, created_at DESC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) Update(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Expense{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&model.Expense{}, "id = ?", id).Error
	})
}

func (r *expenseRepo) Summary(ctx context.Context, from, to time.Time) (*model.ExpenseSummary, error) {
	summary := &model.ExpenseSummary{From: from, To: to, Total: decimal.Zero, Categories: []model.CategoryTotal{}}

	rows, err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) as total, COUNT(*) as cnt").
		Where("spent_on BETWEEN ? AND ?", from, to).
		Group("category").
		Order("total DESC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row   model.CategoryTotal
			count int64
		)
		if err := rows.Scan(&row.Category, &row.Total, &count); err != nil {
			return nil, err
		}
		summary.Total = summary.Total.Add(row.Total)
		summary.Count += count
		summary.Categories = append(summary.Categories, row)
	}
	return summary, rows.Err()
}
