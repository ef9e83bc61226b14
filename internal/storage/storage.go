package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hongminglow/payportal/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UniqueViolation reports which unique column a write collided on.
// It matches ErrAlreadyExists under errors.Is.
type UniqueViolation struct {
	Field string
}

func (e *UniqueViolation) Error() string {
	return "record already exists: " + e.Field
}

func (e *UniqueViolation) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ErrNotPending indicates a payment has already left the pending state.
var ErrNotPending = errors.New("payment is not pending")

// UserStore captures persistence operations on user records.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int, error)
	UpdateUserDetails(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// PaymentStore captures persistence operations on payment records.
//
// TransitionPayment and DeletePendingPayment are conditional on the payment
// still being pending and report ErrNotPending otherwise.
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment models.Payment) (models.Payment, error)
	FindPaymentByID(ctx context.Context, id uuid.UUID) (models.Payment, error)
	ListPaymentsByAccount(ctx context.Context, accountNumber string) ([]models.Payment, error)
	ListPaymentsByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error)
	TransitionPayment(ctx context.Context, id uuid.UUID, to models.PaymentStatus) (models.Payment, error)
	DeletePendingPayment(ctx context.Context, id uuid.UUID) error
}

// Store is the full persistence surface used by the services.
type Store interface {
	UserStore
	PaymentStore
	Ping(ctx context.Context) error
	Close()
}
