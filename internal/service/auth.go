package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/payportal/internal/auth"
	"github.com/hongminglow/payportal/internal/models"
	"github.com/hongminglow/payportal/internal/storage"
)

// RegisterInput is the self-service registration form.
type RegisterInput struct {
	Name            string
	IDNumber        string
	Username        string
	AccountNumber   string
	Password        string
	ConfirmPassword string
}

// AdminSeed describes the account created when no admin exists yet.
type AdminSeed struct {
	Name          string
	IDNumber      string
	Username      string
	AccountNumber string
	Password      string
}

// AuthService owns registration, login, token verification and profile lookup.
type AuthService struct {
	users  storage.UserStore
	tokens *auth.TokenManager
	opts   options
}

// NewAuthService constructs the service.
func NewAuthService(users storage.UserStore, tokens *auth.TokenManager, opts ...Option) *AuthService {
	return &AuthService{users: users, tokens: tokens, opts: buildOptions(opts)}
}

// Register creates a new account with role user. No token is issued.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if blank(in.Name, in.IDNumber, in.Username, in.AccountNumber, in.Password, in.ConfirmPassword) {
		return models.User{}, newError(ErrValidation, "Please fill out all the fields before registering.")
	}
	if in.Password != in.ConfirmPassword {
		return models.User{}, newError(ErrValidation, "Passwords do not match. Please try again.")
	}
	if err := validatePassword(in.Password); err != nil {
		return models.User{}, err
	}
	return createUser(ctx, s.users, s.opts, models.User{
		Name:          strings.TrimSpace(in.Name),
		IDNumber:      strings.TrimSpace(in.IDNumber),
		Username:      strings.TrimSpace(in.Username),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		Role:          models.RoleUser,
	}, in.Password)
}

// Login checks credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, models.User, error) {
	if blank(username, password) {
		return "", models.User{}, newError(ErrValidation, "Username and password are required.")
	}
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", models.User{}, newError(ErrNotFound, "User not found")
		}
		return "", models.User{}, fmt.Errorf("find user %q: %w", username, err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", models.User{}, newError(ErrInvalidCredentials, "Invalid credentials")
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// VerifyToken validates a raw bearer token and returns the caller's claims.
func (s *AuthService) VerifyToken(token string) (auth.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return auth.Claims{}, newError(ErrMissingToken, "No token provided. Authorization denied.")
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return auth.Claims{}, newError(ErrInvalidToken, "Token is not valid or has expired.")
	}
	return claims, nil
}

// Profile returns the caller's own record.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (models.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, newError(ErrNotFound, "User not found")
		}
		return models.User{}, fmt.Errorf("find user %s: %w", userID, err)
	}
	return user, nil
}

// SeedDefaultAdmin creates the seed admin when no admin account exists.
// It reports whether an account was created and is safe to call repeatedly.
func (s *AuthService) SeedDefaultAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	n, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if blank(seed.Name, seed.IDNumber, seed.Username, seed.AccountNumber, seed.Password) {
		return false, errors.New("seed admin is missing required fields")
	}
	_, err = createUser(ctx, s.users, s.opts, models.User{
		Name:          seed.Name,
		IDNumber:      seed.IDNumber,
		Username:      seed.Username,
		AccountNumber: seed.AccountNumber,
		Role:          models.RoleAdmin,
	}, seed.Password)
	if err != nil {
		return false, fmt.Errorf("create seed admin: %w", err)
	}
	log.Printf("seeded default admin %q", seed.Username)
	return true, nil
}

// createUser hashes password and persists user with a fresh ID and timestamp.
func createUser(ctx context.Context, users storage.UserStore, o options, user models.User, password string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user.ID = o.newID()
	user.PasswordHash = hash
	user.CreatedAt = o.now()

	created, err := users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, conflictError(err)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}
