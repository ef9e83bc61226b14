package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/payportal/internal/auth"
	"github.com/hongminglow/payportal/internal/models"
	"github.com/hongminglow/payportal/internal/storage/memory"
)

// tickClock returns a clock that advances one second per call.
func tickClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	store    *memory.Store
	tokens   *auth.TokenManager
	auth     *AuthService
	admins   *AdminService
	payments *PaymentService
}

func newFixture() *fixture {
	store := memory.New()
	tokens := auth.NewTokenManager("test-secret", "payportal-test", time.Hour)
	clock := WithClock(tickClock())
	return &fixture{
		store:    store,
		tokens:   tokens,
		auth:     NewAuthService(store, tokens, clock),
		admins:   NewAdminService(store, clock),
		payments: NewPaymentService(store, store, clock),
	}
}

func (f *fixture) register(t *testing.T, username, idNumber, account string) models.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		Name:            "Name " + username,
		IDNumber:        idNumber,
		Username:        username,
		AccountNumber:   account,
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) pay(t *testing.T, from models.User, toAccount, amount string) models.Payment {
	t.Helper()
	p, err := f.payments.CreatePayment(context.Background(), from.ID, PaymentInput{
		Amount:                 amount,
		Currency:               "ZAR",
		BeneficiaryName:        "Beneficiary",
		PaymentReference:       "invoice",
		RecipientAccountNumber: toAccount,
	})
	require.NoError(t, err)
	return p
}
