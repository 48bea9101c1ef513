package repository

import (
	"context"
	"fmt"

	"go-jewelry-store/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SequenceRepository is the only writer of code_sequences rows.
type SequenceRepository interface {
	WithTx(tx *gorm.DB) SequenceRepository
	Next(ctx context.Context, family model.CodeFamily) (int64, error)
	CodeInUse(ctx context.Context, family model.CodeFamily, code string) (bool, error)
	Reconcile(ctx context.Context) error
	FindAll(ctx context.Context) ([]model.CodeSequence, error)
}

type sequenceRepo struct {
	db *gorm.DB
}

func NewSequenceRepo(db *gorm.DB) SequenceRepository {
	return &sequenceRepo{db}
}

func (r *sequenceRepo) WithTx(tx *gorm.DB) SequenceRepository {
	if tx == nil {
		return r
	}
	return &sequenceRepo{tx}
}

// The upsert takes a row lock on the family's counter, so concurrent callers
// serialize on it until the surrounding transaction ends.
const nextSequenceSQL = `
INSERT INTO code_sequences (family, current_sequence, updated_at)
VALUES (?, 1, NOW())
ON CONFLICT (family) DO UPDATE
SET current_sequence = code_sequences.current_sequence + 1, updated_at = NOW()
RETURNING current_sequence`

// Next atomically advances the family's counter and returns the new value.
// It runs in a nested transaction so a failure rolls back to a savepoint
// instead of poisoning the caller's transaction.
func (r *sequenceRepo) Next(ctx context.Context, family model.CodeFamily) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Raw(nextSequenceSQL, family).Scan(&seq).Error
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// CodeInUse checks the owning table, including soft-deleted rows.
func (r *sequenceRepo) CodeInUse(ctx context.Context, family model.CodeFamily, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if family.IsProduct() {
			return tx.Unscoped().Model(&model.Product{}).Where("product_code = ?", code).Count(&count).Error
		}
		return tx.Unscoped().Model(&model.Order{}).Where("order_code = ?", code).Count(&count).Error
	})
	return count > 0, err
}

// Reconcile creates missing counter rows and raises each one to the highest
// code already stored. Counters are never lowered.
func (r *sequenceRepo) Reconcile(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, family := range model.AllFamilies {
			table, column := "orders", "order_code"
			if family.IsProduct() {
				table, column = "products", "product_code"
			}
			pattern := fmt.Sprintf("^%s([0-9]+)$", family.Prefix())
			stmt := fmt.Sprintf(`
INSERT INTO code_sequences (family, current_sequence, updated_at)
SELECT ?, COALESCE(MAX(CAST(SUBSTRING(%[2]s FROM ?) AS BIGINT)), 0), NOW()
FROM %[1]s WHERE %[2]s ~ ?
ON CONFLICT (family) DO UPDATE
SET current_sequence = GREATEST(code_sequences.current_sequence, EXCLUDED.current_sequence), updated_at = NOW()`,
				table, column)
			if err := tx.Exec(stmt, family, pattern, pattern).Error; err != nil {
				return errors.Wrapf(err, "reconcile %s", family)
			}
		}
		return nil
	})
}

func (r *sequenceRepo) FindAll(ctx context.Context) ([]model.CodeSequence, error) {
	var seqs []model.CodeSequence
	err := r.db.WithContext(ctx).Order("family ASC").Find(&seqs).Error
	return seqs, err
}
