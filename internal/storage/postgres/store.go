package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hongminglow/payportal/internal/models"
	"github.com/hongminglow/payportal/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Store provides Postgres-backed persistence for users and payments.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			id_number TEXT UNIQUE NOT NULL,
			username TEXT UNIQUE NOT NULL,
			account_number TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			seq BIGSERIAL NOT NULL
		);`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS seq BIGSERIAL NOT NULL;`,
		`CREATE INDEX IF NOT EXISTS users_role_idx ON users (role);`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
			currency TEXT NOT NULL,
			beneficiary_name TEXT NOT NULL,
			payment_reference TEXT NOT NULL DEFAULT '',
			recipient_account_number TEXT NOT NULL,
			user_account_number TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'denied')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			seq BIGSERIAL NOT NULL
		);`,
		`ALTER TABLE payments ADD COLUMN IF NOT EXISTS seq BIGSERIAL NOT NULL;`,
		`CREATE INDEX IF NOT EXISTS payments_status_created_idx ON payments (status, created_at DESC, seq DESC);`,
		`CREATE INDEX IF NOT EXISTS payments_user_account_idx ON payments (user_account_number);`,
		`CREATE INDEX IF NOT EXISTS payments_recipient_account_idx ON payments (recipient_account_number);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

const userColumns = `id, name, id_number, username, account_number, password_hash, role, created_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, name, id_number, username, account_number, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.ID, user.Name, user.IDNumber, user.Username, user.AccountNumber, user.PasswordHash, string(user.Role), user.CreatedAt)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, constraintErr(err)
	}
	return created, nil
}

// FindUserByID fetches a user by primary key.
func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// FindByAccountNumber fetches a user by account number.
func (s *Store) FindByAccountNumber(ctx context.Context, accountNumber string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE account_number = $1`, accountNumber)
	return scanUser(row)
}

// ListByRole returns all users with the given role, oldest first.
func (s *Store) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at ASC, seq ASC`, string(role))
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// CountByRole counts users with the given role.
func (s *Store) CountByRole(ctx context.Context, role models.Role) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// UpdateUserDetails rewrites name, username and account number. Password and
// role columns are never touched here.
func (s *Store) UpdateUserDetails(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		UPDATE users SET name = $2, username = $3, account_number = $4
		WHERE id = $1
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.ID, user.Name, user.Username, user.AccountNumber)
	updated, err := scanUser(row)
	if err != nil {
		return models.User{}, constraintErr(err)
	}
	return updated, nil
}

// DeleteUser removes a user; their payments go with them via ON DELETE CASCADE.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const paymentColumns = `id, user_id, amount::text, currency, beneficiary_name, payment_reference,
	recipient_account_number, user_account_number, status, created_at`

// CreatePayment inserts a new payment row.
func (s *Store) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	const query = `
		INSERT INTO payments (id, user_id, amount, currency, beneficiary_name, payment_reference,
			recipient_account_number, user_account_number, status, created_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + paymentColumns
	row := s.pool.QueryRow(ctx, query, p.ID, p.UserID, p.Amount.String(), p.Currency, p.BeneficiaryName,
		p.PaymentReference, p.RecipientAccountNumber, p.UserAccountNumber, string(p.Status), p.Date)
	created, err := scanPayment(row)
	if err != nil {
		return models.Payment{}, constraintErr(err)
	}
	return created, nil
}

// FindPaymentByID fetches a payment by primary key.
func (s *Store) FindPaymentByID(ctx context.Context, id uuid.UUID) (models.Payment, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	return scanPayment(row)
}

// ListPaymentsByAccount returns payments where accountNumber is payer or recipient, newest first.
func (s *Store) ListPaymentsByAccount(ctx context.Context, accountNumber string) ([]models.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments
		WHERE user_account_number = $1 OR recipient_account_number = $1
		ORDER BY created_at DESC, seq DESC`
	return s.queryPayments(ctx, query, accountNumber)
}

// ListPaymentsByStatus returns payments in the given status, newest first.
func (s *Store) ListPaymentsByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE status = $1 ORDER BY created_at DESC, seq DESC`
	return s.queryPayments(ctx, query, string(status))
}

// TransitionPayment resolves a pending payment in a single conditional update.
func (s *Store) TransitionPayment(ctx context.Context, id uuid.UUID, to models.PaymentStatus) (models.Payment, error) {
	const query = `UPDATE payments SET status = $2 WHERE id = $1 AND status = 'pending' RETURNING ` + paymentColumns
	updated, err := scanPayment(s.pool.QueryRow(ctx, query, id, string(to)))
	if errors.Is(err, storage.ErrNotFound) {
		return models.Payment{}, s.missingOrResolved(ctx, id)
	}
	return updated, err
}

// DeletePendingPayment removes a payment only while it is still pending.
func (s *Store) DeletePendingPayment(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrResolved(ctx, id)
	}
	return nil
}

// missingOrResolved tells apart "no such payment" from "no longer pending"
// after a conditional statement matched nothing.
func (s *Store) missingOrResolved(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check payment: %w", err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	return storage.ErrNotPending
}

func (s *Store) queryPayments(ctx context.Context, query string, args ...any) ([]models.Payment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	return payments, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var role string
	if err := row.Scan(&user.ID, &user.Name, &user.IDNumber, &user.Username, &user.AccountNumber, &user.PasswordHash, &role, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Role = models.Role(role)
	return user, nil
}

func scanPayment(row pgx.Row) (models.Payment, error) {
	var p models.Payment
	var amount, status string
	if err := row.Scan(&p.ID, &p.UserID, &amount, &p.Currency, &p.BeneficiaryName, &p.PaymentReference,
		&p.RecipientAccountNumber, &p.UserAccountNumber, &status, &p.Date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Payment{}, storage.ErrNotFound
		}
		return models.Payment{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Payment{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	p.Amount = d
	p.Status = models.PaymentStatus(status)
	return p, nil
}

// constraintErr maps a unique violation to storage.ErrAlreadyExists, naming
// the offending column when Postgres reports it. A foreign key violation means
// the referenced user is gone and maps to storage.ErrNotFound.
func constraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		field := strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, "users_"), "_key")
		return &storage.UniqueViolation{Field: field}
	case foreignKeyViolation:
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, storage.ErrNotFound)
	}
	return err
}
