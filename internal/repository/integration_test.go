//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/internal/service"
	"go-jewelry-store/pkg/database"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// setupTestDB starts a throwaway Postgres, migrates it and returns the handle.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("jewelry_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.ConnectDB(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func TestIntegration(t *testing.T) {
	db := setupTestDB(t)

	t.Run("concurrent product codes are unique and contiguous", func(t *testing.T) {
		ctx := context.Background()
		allocator := service.NewCodeAllocator(repository.NewSequenceRepo(db), service.DefaultAllocationAttempts)
		products := service.NewProductService(repository.NewProductRepo(db), allocator, repository.NewTransactor(db))

		const n = 25
		codes := make([]string, n)
		var g errgroup.Group
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error {
				p, err := products.CreateProduct(ctx, &service.CreateProductRequest{
					ProductType: model.ProductTypeChain,
					Name:        fmt.Sprintf("Concurrent Chain %d", i),
					Price:       decimal.NewFromInt(100),
				}, "integration")
				if err != nil {
					return err
				}
				codes[i] = p.ProductCode
				return nil
			})
		}
		require.NoError(t, g.Wait())

		sort.Strings(codes)
		for i, code := range codes {
			assert.Equal(t, model.FamilyChain.Format(int64(i+1)), code)
		}
	})

	t.Run("reconcile raises a drifted counter and never lowers it", func(t *testing.T) {
		ctx := context.Background()
		seqs := repository.NewSequenceRepo(db)

		imported := &model.Product{
			ProductCode: "BR050",
			ProductType: model.ProductTypeBraceletAnklet,
			Name:        "Imported Anklet",
			Price:       decimal.NewFromInt(500),
			IsActive:    true,
		}
		require.NoError(t, repository.NewProductRepo(db).Create(ctx, imported))

		require.NoError(t, seqs.Reconcile(ctx))
		next, err := seqs.Next(ctx, model.FamilyBraceletAnklet)
		require.NoError(t, err)
		assert.Equal(t, int64(51), next)

		require.NoError(t, seqs.Reconcile(ctx))
		next, err = seqs.Next(ctx, model.FamilyBraceletAnklet)
		require.NoError(t, err)
		assert.Equal(t, int64(52), next)
	})

	t.Run("failed transaction leaves no order header behind", func(t *testing.T) {
		ctx := context.Background()
		orders := repository.NewOrderRepo(db)
		tx := repository.NewTransactor(db)
		boom := errors.New("item insert failed")

		order := &model.Order{
			OrderNumber:     "ORDN-ROLLBACK",
			OrderCode:       "ORD-ROLLBACK",
			CustomerName:    "Asha Rao",
			CustomerPhone:   "9876543210",
			CustomerAddress: "12 MG Road, Bengaluru, Pincode: 560001",
			TotalAmount:     decimal.NewFromInt(100),
			Status:          model.StatusPaymentPending,
		}
		err := tx.WithinTransaction(ctx, func(txDB *gorm.DB) error {
			if err := orders.WithTx(txDB).Create(ctx, order); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = orders.FindByCode(ctx, "ORD-ROLLBACK")
		assert.True(t, repository.IsNotFound(err))
	})

	t.Run("duplicate admin email is a unique violation", func(t *testing.T) {
		ctx := context.Background()
		admins := repository.NewAdminRepo(db)

		first := &model.Admin{Email: "dup@example.com", PasswordHash: "x", Name: "One", Role: model.RoleAdmin, IsActive: true}
		require.NoError(t, admins.Create(ctx, first))

		second := &model.Admin{Email: "dup@example.com", PasswordHash: "x", Name: "Two", Role: model.RoleAdmin, IsActive: true}
		err := admins.Create(ctx, second)
		require.Error(t, err)
		assert.True(t, repository.IsUniqueViolation(err))
	})

	t.Run("status update is compare-and-set", func(t *testing.T) {
		ctx := context.Background()
		orders := repository.NewOrderRepo(db)

		order := &model.Order{
			OrderNumber:     "ORDN-CAS",
			OrderCode:       "ORD-CAS",
			CustomerName:    "Asha Rao",
			CustomerPhone:   "9876543210",
			CustomerAddress: "12 MG Road, Bengaluru, Pincode: 560001",
			TotalAmount:     decimal.NewFromInt(100),
			Status:          model.StatusPaymentPending,
		}
		require.NoError(t, orders.Create(ctx, order))

		moved, err := orders.UpdateStatus(ctx, order.ID, model.StatusPaymentPending, model.StatusConfirmed, "a")
		require.NoError(t, err)
		assert.True(t, moved)

		moved, err = orders.UpdateStatus(ctx, order.ID, model.StatusPaymentPending, model.StatusCancelled, "b")
		require.NoError(t, err)
		assert.False(t, moved)
	})
}
