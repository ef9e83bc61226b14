package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/payportal/internal/models"
	"github.com/hongminglow/payportal/internal/storage"
)

// AdminInput is the form used to create an administrator.
type AdminInput struct {
	Name          string
	IDNumber      string
	Username      string
	AccountNumber string
	Password      string
}

// AdminDetails are the only admin fields that can be edited.
type AdminDetails struct {
	Name          string
	Username      string
	AccountNumber string
}

// AdminService manages administrator accounts. Callers must already have
// passed the admin gate.
type AdminService struct {
	users storage.UserStore
	opts  options
}

// NewAdminService constructs the service.
func NewAdminService(users storage.UserStore, opts ...Option) *AdminService {
	return &AdminService{users: users, opts: buildOptions(opts)}
}

// ListAdmins returns every administrator, oldest first.
func (s *AdminService) ListAdmins(ctx context.Context) ([]models.User, error) {
	admins, err := s.users.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// CreateAdmin registers a new account with the admin role.
func (s *AdminService) CreateAdmin(ctx context.Context, in AdminInput) (models.User, error) {
	if blank(in.Name, in.IDNumber, in.Username, in.AccountNumber, in.Password) {
		return models.User{}, newError(ErrValidation, "All fields are required.")
	}
	if err := validatePassword(in.Password); err != nil {
		return models.User{}, err
	}
	return createUser(ctx, s.users, s.opts, models.User{
		Name:          strings.TrimSpace(in.Name),
		IDNumber:      strings.TrimSpace(in.IDNumber),
		Username:      strings.TrimSpace(in.Username),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		Role:          models.RoleAdmin,
	}, in.Password)
}

// EditAdmin updates name, username and account number of an administrator.
func (s *AdminService) EditAdmin(ctx context.Context, id uuid.UUID, in AdminDetails) (models.User, error) {
	if blank(in.Name, in.Username, in.AccountNumber) {
		return models.User{}, newError(ErrValidation, "Name, username and account number are required.")
	}
	if _, err := s.findAdmin(ctx, id); err != nil {
		return models.User{}, err
	}
	updated, err := s.users.UpdateUserDetails(ctx, models.User{
		ID:            id,
		Name:          strings.TrimSpace(in.Name),
		Username:      strings.TrimSpace(in.Username),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			return models.User{}, conflictError(err)
		case errors.Is(err, storage.ErrNotFound):
			return models.User{}, newError(ErrNotFound, "Admin not found")
		}
		return models.User{}, fmt.Errorf("update admin %s: %w", id, err)
	}
	return updated, nil
}

// DeleteAdmin removes an administrator. Admins cannot delete themselves, so
// the caller always remains as at least one reachable admin.
func (s *AdminService) DeleteAdmin(ctx context.Context, callerID, id uuid.UUID) error {
	if callerID == id {
		return newError(ErrForbidden, "You cannot delete your own admin account.")
	}
	if _, err := s.findAdmin(ctx, id); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newError(ErrNotFound, "Admin not found")
		}
		return fmt.Errorf("delete admin %s: %w", id, err)
	}
	return nil
}

func (s *AdminService) findAdmin(ctx context.Context, id uuid.UUID) (models.User, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, newError(ErrNotFound, "Admin not found")
		}
		return models.User{}, fmt.Errorf("find admin %s: %w", id, err)
	}
	if !user.IsAdmin() {
		return models.User{}, newError(ErrNotFound, "Admin not found")
	}
	return user, nil
}
