package database

import (
	"context"

	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date and repairs counter drift so the next
// allocated code is always above every code already stored.
func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&model.Admin{},
		&model.CodeSequence{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Expense{},
	)
	if err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	if err := repository.NewSequenceRepo(db).Reconcile(ctx); err != nil {
		return errors.Wrap(err, "reconcile code sequences")
	}

	log.Info("Database migrated")
	return nil
}
