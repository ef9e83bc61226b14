package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/payportal/internal/models"
)

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{
		Name: "Alice", IDNumber: "900101", Username: "alice", AccountNumber: "1001",
		Password: "secret123", ConfirmPassword: "secret124",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Passwords do not match. Please try again.", err.Error())

	_, err = f.store.FindByUsername(ctx, "alice")
	assert.Error(t, err, "no record should be persisted")
}

func TestRegisterRequiresAllFields(t *testing.T) {
	f := newFixture()
	full := RegisterInput{
		Name: "Alice", IDNumber: "900101", Username: "alice", AccountNumber: "1001",
		Password: "secret123", ConfirmPassword: "secret123",
	}
	blanks := []func(*RegisterInput){
		func(in *RegisterInput) { in.Name = "" },
		func(in *RegisterInput) { in.IDNumber = " " },
		func(in *RegisterInput) { in.Username = "" },
		func(in *RegisterInput) { in.AccountNumber = "" },
		func(in *RegisterInput) { in.Password = "" },
		func(in *RegisterInput) { in.ConfirmPassword = "" },
	}
	for _, blankOut := range blanks {
		in := full
		blankOut(&in)
		_, err := f.auth.Register(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
	}

	short := full
	short.Password, short.ConfirmPassword = "abc", "abc"
	_, err := f.auth.Register(context.Background(), short)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture()
	f.register(t, "alice", "900101", "1001")

	cases := map[string]RegisterInput{
		"username":       {Username: "alice", IDNumber: "900102", AccountNumber: "1002"},
		"id number":      {Username: "bob", IDNumber: "900101", AccountNumber: "1002"},
		"account number": {Username: "bob", IDNumber: "900102", AccountNumber: "1001"},
	}
	for name, in := range cases {
		in.Name = "Bob"
		in.Password, in.ConfirmPassword = "secret123", "secret123"
		_, err := f.auth.Register(context.Background(), in)
		assert.ErrorIs(t, err, ErrConflict, name)
	}
}

func TestRegisterStoresHashAndUserRole(t *testing.T) {
	f := newFixture()
	u := f.register(t, "alice", "900101", "1001")
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	u := f.register(t, "alice", "900101", "1001")
	ctx := context.Background()

	token, user, err := f.auth.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)

	claims, err := f.auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	_, _, err = f.auth.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.auth.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginTokenCarriesAdminRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.admins.CreateAdmin(ctx, AdminInput{Name: "Root", IDNumber: "1", Username: "root", AccountNumber: "0001", Password: "rootpass"})
	require.NoError(t, err)

	token, _, err := f.auth.Login(ctx, "root", "rootpass")
	require.NoError(t, err)
	claims, err := f.auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestVerifyTokenErrors(t *testing.T) {
	f := newFixture()
	_, err := f.auth.VerifyToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = f.auth.VerifyToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProfile(t *testing.T) {
	f := newFixture()
	u := f.register(t, "alice", "900101", "1001")

	got, err := f.auth.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "1001", got.AccountNumber)

	_, err = f.auth.Profile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedDefaultAdminIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seed := AdminSeed{Name: "Default Admin", IDNumber: "0000000000000", Username: "admin", AccountNumber: "0000000000", Password: "admin123"}

	created, err := f.auth.SeedDefaultAdmin(ctx, seed)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.auth.SeedDefaultAdmin(ctx, seed)
	require.NoError(t, err)
	assert.False(t, created)

	admins, err := f.admins.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 1)

	_, _, err = f.auth.Login(ctx, "admin", "admin123")
	assert.NoError(t, err)
}

func TestSeedDefaultAdminSkipsWhenAdminExists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.admins.CreateAdmin(ctx, AdminInput{Name: "Root", IDNumber: "1", Username: "root", AccountNumber: "0001", Password: "rootpass"})
	require.NoError(t, err)

	created, err := f.auth.SeedDefaultAdmin(ctx, AdminSeed{Name: "x", IDNumber: "2", Username: "admin", AccountNumber: "0002", Password: "admin123"})
	require.NoError(t, err)
	assert.False(t, created)
}
