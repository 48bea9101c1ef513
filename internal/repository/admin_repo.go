package repository

import (
	"context"
	"time"

	"go-jewelry-store/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminRepository interface {
	WithTx(tx *gorm.DB) AdminRepository
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error)
	FindAll(ctx context.Context) ([]model.Admin, error)
	Create(ctx context.Context, admin *model.Admin) error
	Update(ctx context.Context, admin *model.Admin) error
	UpdatePassword(ctx context.Context, adminID uuid.UUID, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, adminID uuid.UUID, at time.Time) error
}

type adminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db}
}

func (r *adminRepo) WithTx(tx *gorm.DB) AdminRepository {
	if tx == nil {
		return r
	}
	return &adminRepo{tx}
}

func (r *adminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) FindAll(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *adminRepo) Create(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepo) Update(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

func (r *adminRepo) UpdatePassword(ctx context.Context, adminID uuid.UUID, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", adminID).Update("password_hash", hashedPassword).Error
}

func (r *adminRepo) UpdateLastLogin(ctx context.Context, adminID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", adminID).Update("last_login", at).Error
}
