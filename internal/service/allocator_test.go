package service

import (
	"context"
	"fmt"
	"testing"

	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/testutil"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestAllocateFormatsPerFamily(t *testing.T) {
	store := testutil.NewStore()
	alloc := NewCodeAllocator(store.Sequences(), 5)
	ctx := context.Background()

	first, err := alloc.Allocate(ctx, nil, model.FamilyChain)
	require.NoError(t, err)
	second, err := alloc.Allocate(ctx, nil, model.FamilyChain)
	require.NoError(t, err)
	bracelet, err := alloc.Allocate(ctx, nil, model.FamilyBraceletAnklet)
	require.NoError(t, err)
	order, err := alloc.Allocate(ctx, nil, model.FamilyOrder)
	require.NoError(t, err)

	assert.Equal(t, "CH001", first)
	assert.Equal(t, "CH002", second)
	assert.Equal(t, "BR001", bracelet)
	assert.Equal(t, "ORD001", order)
}

func TestAllocateGrowsPastThreeDigits(t *testing.T) {
	store := testutil.NewStore()
	store.SetSequence(model.FamilyOrder, 999)

	code, err := NewCodeAllocator(store.Sequences(), 5).Allocate(context.Background(), nil, model.FamilyOrder)
	require.NoError(t, err)
	assert.Equal(t, "ORD1000", code)
}

func TestAllocateSkipsCodesAlreadyInUse(t *testing.T) {
	store := testutil.NewStore()
	store.PutProduct(model.Product{ProductCode: "CH001", ProductType: model.ProductTypeChain})
	store.PutProduct(model.Product{ProductCode: "CH002", ProductType: model.ProductTypeChain})

	code, err := NewCodeAllocator(store.Sequences(), 5).Allocate(context.Background(), nil, model.FamilyChain)
	require.NoError(t, err)
	assert.Equal(t, "CH003", code)
	assert.EqualValues(t, 3, store.Sequence(model.FamilyChain))
}

func TestAllocateGivesUpAfterBoundedAttempts(t *testing.T) {
	store := testutil.NewStore()
	for i := 1; i <= 3; i++ {
		store.PutProduct(model.Product{ProductCode: fmt.Sprintf("BR%03d", i), ProductType: model.ProductTypeBraceletAnklet})
	}

	_, err := NewCodeAllocator(store.Sequences(), 3).Allocate(context.Background(), nil, model.FamilyBraceletAnklet)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSequenceExhausted))
}

func TestAllocateSurfacesStorageErrors(t *testing.T) {
	store := testutil.NewStore()
	store.FailOn("sequences.Next", errors.New("connection refused"))

	_, err := NewCodeAllocator(store.Sequences(), 5).Allocate(context.Background(), nil, model.FamilyChain)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSequenceExhausted))
}

func TestAllocateRejectsUnknownFamily(t *testing.T) {
	_, err := NewCodeAllocator(testutil.NewStore().Sequences(), 5).Allocate(context.Background(), nil, model.CodeFamily("ring"))
	assert.Error(t, err)
}

func TestAllocateConcurrentCallsNeverCollide(t *testing.T) {
	const n = 50
	store := testutil.NewStore()
	alloc := NewCodeAllocator(store.Sequences(), 5)

	codes := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			code, err := alloc.Allocate(context.Background(), nil, model.FamilyChain)
			codes[i] = code
			return err
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]bool, n)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[model.FamilyChain.Format(int64(i))])
	}
}
