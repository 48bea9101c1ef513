package service

import (
	"context"
	"strings"
	"time"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/pkg/jwt"
	"go-jewelry-store/pkg/password"
	"go-jewelry-store/pkg/sanitize"
	"go-jewelry-store/pkg/validator"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	Admin     model.AdminResponse `json:"admin"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type CreateAdminRequest struct {
	Email    string          `json:"email" validate:"required,email,max=255"`
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Password string          `json:"password" validate:"required"`
	Role     model.AdminRole `json:"role" validate:"omitempty,oneof=admin super_admin"`
}

type UpdateAdminRequest struct {
	Email    *string          `json:"email" validate:"omitempty,email,max=255"`
	Name     *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Role     *model.AdminRole `json:"role" validate:"omitempty,oneof=admin super_admin"`
	IsActive *bool            `json:"is_active"`
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	VerifyToken(ctx context.Context, tokenString string) (*model.Admin, error)
	Profile(ctx context.Context, adminID uuid.UUID) (*model.AdminResponse, error)
	ChangePassword(ctx context.Context, adminID uuid.UUID, req *ChangePasswordRequest) error
	CreateAdmin(ctx context.Context, actor *model.Admin, req *CreateAdminRequest) (*model.AdminResponse, error)
	UpdateAdmin(ctx context.Context, actor *model.Admin, id uuid.UUID, req *UpdateAdminRequest) (*model.AdminResponse, error)
	ListAdmins(ctx context.Context, actor *model.Admin) ([]model.AdminResponse, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	SeedSuperAdmin(ctx context.Context, email, name, plain string) (*model.Admin, bool, error)
}

type authService struct {
	adminRepo repository.AdminRepository
	hasher    password.Hasher
	tokens    *jwt.Manager
	dummyHash string
	now       func() time.Time
}

func NewAuthService(adminRepo repository.AdminRepository, hasher password.Hasher, tokens *jwt.Manager) (AuthService, error) {
	// Unknown emails are verified against this hash so both failure paths cost the same.
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, errors.Wrap(err, "prepare dummy hash")
	}
	return &authService{
		adminRepo: adminRepo,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func weakPassword(field string, violations []string) *apperror.Error {
	details := make([]apperror.Detail, len(violations))
	for i, v := range violations {
		details[i] = apperror.Detail{Field: field, Message: v}
	}
	return apperror.Validation("Password does not meet the strength policy", details...)
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	admin, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, apperror.Internal(err)
		}
		_, _ = s.hasher.Verify(s.dummyHash, req.Password)
		return nil, apperror.InvalidCredentials()
	}

	ok, err := s.hasher.Verify(admin.PasswordHash, req.Password)
	if err != nil {
		log.WithError(err).WithField("admin_id", admin.ID).Error("stored password hash is unreadable")
		return nil, apperror.InvalidCredentials()
	}
	if !ok {
		return nil, apperror.InvalidCredentials()
	}

	// Checked after the password so the response does not reveal account state
	// to someone who does not know it.
	if !admin.IsActive {
		return nil, apperror.Forbidden("Account is disabled")
	}

	if s.hasher.NeedsRehash(admin.PasswordHash) {
		if upgraded, err := s.hasher.Hash(req.Password); err != nil {
			log.WithError(err).WithField("admin_id", admin.ID).Warn("password rehash failed")
		} else if err := s.adminRepo.UpdatePassword(ctx, admin.ID, upgraded); err != nil {
			log.WithError(err).WithField("admin_id", admin.ID).Warn("storing rehashed password failed")
		} else {
			log.WithField("admin_id", admin.ID).Info("password hash upgraded")
		}
	}

	now := s.now()
	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, apperror.Internal(err)
	}
	admin.LastLogin = &now

	token, expiresAt, err := s.tokens.GenerateToken(admin.ID, admin.Email, string(admin.Role))
	if err != nil {
		return nil, apperror.Internal(errors.Wrap(err, "sign token"))
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Admin:     admin.ToResponse(),
	}, nil
}

func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*model.Admin, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		log.WithError(err).Debug("token rejected")
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, apperror.ExpiredToken()
		}
		return nil, apperror.InvalidToken()
	}

	adminID, err := claims.AdminID()
	if err != nil {
		log.WithField("subject", claims.Subject).Debug("token subject is not an admin id")
		return nil, apperror.InvalidToken()
	}

	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		if repository.IsNotFound(err) {
			log.WithField("admin_id", adminID).Info("token for deleted admin")
			return nil, apperror.Unauthorized("Authentication required")
		}
		return nil, apperror.Internal(err)
	}
	if !admin.IsActive {
		log.WithField("admin_id", adminID).Info("token for disabled admin")
		return nil, apperror.Unauthorized("Authentication required")
	}
	return admin, nil
}

func (s *authService) Profile(ctx context.Context, adminID uuid.UUID) (*model.AdminResponse, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, storageError(err, "Admin")
	}
	resp := admin.ToResponse()
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, adminID uuid.UUID, req *ChangePasswordRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationFailed(errs)
	}

	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return storageError(err, "Admin")
	}

	ok, err := s.hasher.Verify(admin.PasswordHash, req.CurrentPassword)
	if err != nil || !ok {
		return apperror.Validation("Current password is incorrect", apperror.Detail{
			Field:   "current_password",
			Message: "is incorrect",
		})
	}

	if violations := password.CheckStrength(req.NewPassword); len(violations) > 0 {
		return weakPassword("new_password", violations)
	}
	if req.NewPassword == req.CurrentPassword {
		return apperror.Validation("Validation failed", apperror.Detail{
			Field:   "new_password",
			Message: "must differ from the current password",
		})
	}

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := s.adminRepo.UpdatePassword(ctx, admin.ID, hashed); err != nil {
		return apperror.Internal(err)
	}

	log.WithField("admin_id", admin.ID).Info("password changed")
	return nil
}

func requireSuperAdmin(actor *model.Admin) error {
	if actor == nil || !actor.IsSuperAdmin() {
		return apperror.Forbidden("Super admin access required")
	}
	return nil
}

func (s *authService) CreateAdmin(ctx context.Context, actor *model.Admin, req *CreateAdminRequest) (*model.AdminResponse, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	req.Email = normalizeEmail(req.Email)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if violations := password.CheckStrength(req.Password); len(violations) > 0 {
		return nil, weakPassword("password", violations)
	}

	email := req.Email
	if _, err := s.adminRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Duplicate("Email is already registered")
	} else if !repository.IsNotFound(err) {
		return nil, apperror.Internal(err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleAdmin
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	admin := &model.Admin{
		Email:        email,
		PasswordHash: hashed,
		Name:         sanitize.Text(req.Name),
		Role:         role,
		IsActive:     true,
	}
	admin.CreatedBy = actor.ID.String()
	admin.UpdatedBy = actor.ID.String()

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperror.Duplicate("Email is already registered").Wrap(err)
		}
		return nil, apperror.Internal(err)
	}

	log.WithFields(log.Fields{"admin_id": admin.ID, "role": role, "created_by": actor.ID}).Info("admin created")
	resp := admin.ToResponse()
	return &resp, nil
}

func (s *authService) UpdateAdmin(ctx context.Context, actor *model.Admin, id uuid.UUID, req *UpdateAdminRequest) (*model.AdminResponse, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	if actor.ID == id {
		demoting := req.Role != nil && *req.Role != model.RoleSuperAdmin
		deactivating := req.IsActive != nil && !*req.IsActive
		if demoting || deactivating {
			return nil, apperror.Forbidden("You cannot demote or deactivate your own account")
		}
	}

	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "Admin")
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != admin.Email {
			if other, err := s.adminRepo.FindByEmail(ctx, email); err == nil && other.ID != admin.ID {
				return nil, apperror.Duplicate("Email is already registered")
			} else if err != nil && !repository.IsNotFound(err) {
				return nil, apperror.Internal(err)
			}
			admin.Email = email
		}
	}
	if req.Name != nil {
		admin.Name = sanitize.Text(*req.Name)
	}
	if req.Role != nil {
		admin.Role = *req.Role
	}
	if req.IsActive != nil {
		admin.IsActive = *req.IsActive
	}
	admin.UpdatedBy = actor.ID.String()

	if err := s.adminRepo.Update(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperror.Duplicate("Email is already registered").Wrap(err)
		}
		return nil, apperror.Internal(err)
	}

	log.WithFields(log.Fields{"admin_id": admin.ID, "updated_by": actor.ID}).Info("admin updated")
	resp := admin.ToResponse()
	return &resp, nil
}

func (s *authService) ListAdmins(ctx context.Context, actor *model.Admin) ([]model.AdminResponse, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	admins, err := s.adminRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	out := make([]model.AdminResponse, len(admins))
	for i := range admins {
		out[i] = admins[i].ToResponse()
	}
	return out, nil
}

// ResetPassword sets a password without the current one. Operator use only.
func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if violations := password.CheckStrength(newPassword); len(violations) > 0 {
		return weakPassword("password", violations)
	}
	admin, err := s.adminRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return storageError(err, "Admin")
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := s.adminRepo.UpdatePassword(ctx, admin.ID, hashed); err != nil {
		return apperror.Internal(err)
	}
	log.WithField("admin_id", admin.ID).Warn("password reset by operator")
	return nil
}

// SeedSuperAdmin creates a super_admin unless the email is taken. The bool
// reports whether a new account was written.
func (s *authService) SeedSuperAdmin(ctx context.Context, email, name, plain string) (*model.Admin, bool, error) {
	email = normalizeEmail(email)
	if existing, err := s.adminRepo.FindByEmail(ctx, email); err == nil {
		return existing, false, nil
	} else if !repository.IsNotFound(err) {
		return nil, false, apperror.Internal(err)
	}
	if violations := password.CheckStrength(plain); len(violations) > 0 {
		return nil, false, weakPassword("password", violations)
	}

	hashed, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, false, apperror.Internal(err)
	}
	admin := &model.Admin{
		Email:        email,
		PasswordHash: hashed,
		Name:         sanitize.Text(name),
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, false, storageError(err, "Admin")
	}
	return admin, true, nil
}
