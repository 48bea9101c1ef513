package service

import (
	"context"
	"testing"
	"time"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseLifecycleAndSummary(t *testing.T) {
	store := testutil.NewStore()
	svc := NewExpenseService(store.Expenses())
	ctx := context.Background()

	packaging, err := svc.CreateExpense(ctx, &ExpenseRequest{Title: "Gift boxes", Category: "packaging", Amount: decimal.NewFromInt(300), SpentOn: "2026-03-02"}, "admin-1")
	require.NoError(t, err)
	_, err = svc.CreateExpense(ctx, &ExpenseRequest{Title: "Courier", Category: "shipping", Amount: decimal.NewFromInt(120), SpentOn: "2026-03-05"}, "admin-1")
	require.NoError(t, err)
	_, err = svc.CreateExpense(ctx, &ExpenseRequest{Title: "Bubble wrap", Category: "packaging", Amount: decimal.NewFromInt(80), SpentOn: "2026-04-01"}, "admin-1")
	require.NoError(t, err)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	summary, err := svc.Summary(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, "420", summary.Total.String())
	assert.EqualValues(t, 2, summary.Count)
	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "packaging", summary.Categories[0].Category)

	listed, err := svc.ListExpenses(ctx, repository.ExpenseFilter{Category: "packaging"})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	updated, err := svc.UpdateExpense(ctx, packaging.ID, &ExpenseRequest{Title: "Gift boxes", Category: "packaging", Amount: decimal.NewFromInt(350), SpentOn: "2026-03-02"}, "admin-2")
	require.NoError(t, err)
	assert.Equal(t, "350", updated.Amount.String())

	require.NoError(t, svc.DeleteExpense(ctx, packaging.ID, "admin-2"))
	err = svc.DeleteExpense(ctx, packaging.ID, "admin-2")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = svc.Summary(ctx, to, from)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestExpenseValidation(t *testing.T) {
	svc := NewExpenseService(testutil.NewStore().Expenses())

	_, err := svc.CreateExpense(context.Background(), &ExpenseRequest{Title: "X", Category: "misc", Amount: decimal.NewFromInt(-5), SpentOn: "03/02/2026"}, "admin-1")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Len(t, appErr.Details, 3)

	_, err = svc.UpdateExpense(context.Background(), uuid.New(), &ExpenseRequest{Title: "Rent", Category: "rent", Amount: decimal.NewFromInt(5), SpentOn: "2026-03-02"}, "admin-1")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDashboardStats(t *testing.T) {
	store := testutil.NewStore()
	ctx := context.Background()

	store.PutProduct(model.Product{ProductCode: "CH001", IsActive: true})
	store.PutProduct(model.Product{ProductCode: "CH002", IsActive: false})
	store.PutOrder(model.Order{OrderCode: "ORD001", Status: model.StatusDelivered, PaymentReceived: true, TotalAmount: decimal.NewFromInt(1000)})
	store.PutOrder(model.Order{OrderCode: "ORD002", Status: model.StatusCancelled, PaymentReceived: true, TotalAmount: decimal.NewFromInt(500)})
	store.PutOrder(model.Order{OrderCode: "ORD003", Status: model.StatusPaymentPending, TotalAmount: decimal.NewFromInt(200)})
	require.NoError(t, store.Expenses().Create(ctx, &model.Expense{Title: "Rent", Category: "rent", Amount: decimal.NewFromInt(300), SpentOn: time.Now()}))

	svc := NewDashboardService(store.Dashboard())
	stats, err := svc.GetDashboardStats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.ActiveProducts)
	assert.EqualValues(t, 3, stats.TotalOrders)
	assert.EqualValues(t, 1, stats.PendingOrders)
	assert.Equal(t, "1000", stats.Revenue.String())
	assert.Equal(t, "700", stats.NetIncome.String())

	sales, err := svc.GetSalesMovement(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.EqualValues(t, 2, sales[0].Orders)
	assert.Equal(t, "1200", sales[0].Revenue.String())
}
