package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/hongminglow/payportal/internal/models"
	"github.com/hongminglow/payportal/internal/storage"
)

// maxAmount matches the NUMERIC(18,2) column.
var maxAmount = decimal.New(1, 16)

// PaymentInput is a payment submission as received from the caller.
type PaymentInput struct {
	Amount                 string
	Currency               string
	BeneficiaryName        string
	PaymentReference       string
	RecipientAccountNumber string
	// UserAccountNumber is optional; it defaults to the caller's account.
	UserAccountNumber string
}

// PaymentService drives the payment lifecycle: submission, listing,
// admin resolution and owner deletion.
type PaymentService struct {
	users    storage.UserStore
	payments storage.PaymentStore
	opts     options
}

// NewPaymentService constructs the service.
func NewPaymentService(users storage.UserStore, payments storage.PaymentStore, opts ...Option) *PaymentService {
	return &PaymentService{users: users, payments: payments, opts: buildOptions(opts)}
}

// CreatePayment records a pending payment submitted by callerID.
//
// The recipient lookup and the insert are separate statements, so a
// recipient deleted in between still receives the payment record. A payer
// deleted in between fails the insert and is reported as not found.
func (s *PaymentService) CreatePayment(ctx context.Context, callerID uuid.UUID, in PaymentInput) (models.Payment, error) {
	if blank(in.Amount, in.Currency, in.BeneficiaryName, in.PaymentReference, in.RecipientAccountNumber) {
		return models.Payment{}, newError(ErrValidation, "All fields are required")
	}
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return models.Payment{}, err
	}
	code, err := parseCurrency(in.Currency)
	if err != nil {
		return models.Payment{}, err
	}

	payer, err := s.caller(ctx, callerID)
	if err != nil {
		return models.Payment{}, err
	}
	payerAccount := strings.TrimSpace(in.UserAccountNumber)
	if payerAccount == "" {
		payerAccount = payer.AccountNumber
	}
	if payerAccount != payer.AccountNumber {
		return models.Payment{}, newError(ErrValidation, "Payer account number does not match your account.")
	}

	recipientAccount := strings.TrimSpace(in.RecipientAccountNumber)
	if _, err := s.users.FindByAccountNumber(ctx, recipientAccount); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Payment{}, newError(ErrRecipientNotFound, "Recipient account number does not exist.")
		}
		return models.Payment{}, fmt.Errorf("find recipient: %w", err)
	}

	created, err := s.payments.CreatePayment(ctx, models.Payment{
		ID:                     s.opts.newID(),
		UserID:                 callerID,
		Amount:                 amount,
		Currency:               code,
		BeneficiaryName:        strings.TrimSpace(in.BeneficiaryName),
		PaymentReference:       strings.TrimSpace(in.PaymentReference),
		RecipientAccountNumber: recipientAccount,
		UserAccountNumber:      payerAccount,
		Status:                 models.StatusPending,
		Date:                   s.opts.now(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Payment{}, newError(ErrNotFound, "User not found")
		}
		return models.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	return created, nil
}

// ListPaymentsForUser returns every payment the caller sent or received,
// newest first.
func (s *PaymentService) ListPaymentsForUser(ctx context.Context, callerID uuid.UUID) ([]models.Payment, error) {
	user, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListPaymentsByAccount(ctx, user.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("list payments for %s: %w", callerID, err)
	}
	return payments, nil
}

// ListPendingPayments returns all payments awaiting review, newest first.
func (s *PaymentService) ListPendingPayments(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.payments.ListPaymentsByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	return payments, nil
}

// ApprovePayment moves a pending payment to approved.
func (s *PaymentService) ApprovePayment(ctx context.Context, id uuid.UUID) (models.Payment, error) {
	return s.resolve(ctx, id, models.StatusApproved)
}

// DenyPayment moves a pending payment to denied.
func (s *PaymentService) DenyPayment(ctx context.Context, id uuid.UUID) (models.Payment, error) {
	return s.resolve(ctx, id, models.StatusDenied)
}

// DeletePayment removes a pending payment owned by the caller.
func (s *PaymentService) DeletePayment(ctx context.Context, callerID, id uuid.UUID) error {
	p, err := s.payments.FindPaymentByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newError(ErrNotFound, "Payment not found")
		}
		return fmt.Errorf("find payment %s: %w", id, err)
	}
	if p.UserID != callerID {
		return newError(ErrForbidden, "You can only delete your own payments.")
	}
	if err := s.payments.DeletePendingPayment(ctx, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return newError(ErrNotFound, "Payment not found")
		case errors.Is(err, storage.ErrNotPending):
			return newError(ErrInvalidState, "Only pending payments can be deleted.")
		}
		return fmt.Errorf("delete payment %s: %w", id, err)
	}
	return nil
}

func (s *PaymentService) resolve(ctx context.Context, id uuid.UUID, to models.PaymentStatus) (models.Payment, error) {
	if !models.StatusPending.CanTransitionTo(to) {
		return models.Payment{}, fmt.Errorf("unsupported transition to %q", to)
	}
	p, err := s.payments.TransitionPayment(ctx, id, to)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return models.Payment{}, newError(ErrNotFound, "Payment not found")
		case errors.Is(err, storage.ErrNotPending):
			return models.Payment{}, newError(ErrInvalidState, "Payment has already been processed.")
		}
		return models.Payment{}, fmt.Errorf("transition payment %s to %s: %w", id, to, err)
	}
	return p, nil
}

func (s *PaymentService) caller(ctx context.Context, id uuid.UUID) (models.User, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, newError(ErrNotFound, "User not found")
		}
		return models.User{}, fmt.Errorf("find user %s: %w", id, err)
	}
	return user, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, newError(ErrValidation, "Amount must be a number.")
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, newError(ErrValidation, "Amount must be greater than zero.")
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Decimal{}, newError(ErrValidation, "Amount cannot have more than two decimal places.")
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Decimal{}, newError(ErrValidation, "Amount is too large.")
	}
	return amount, nil
}

func parseCurrency(raw string) (string, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(raw)))
	if err != nil {
		return "", newError(ErrValidation, "Currency must be a valid ISO 4217 code.")
	}
	return unit.String(), nil
}
