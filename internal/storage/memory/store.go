// Package memory implements storage.Store in process memory. It backs the
// unit and handler tests and mirrors the Postgres store's constraints.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hongminglow/payportal/internal/models"
	"github.com/hongminglow/payportal/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps users and payments in maps guarded by a single lock.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]models.User
	payments map[uuid.UUID]models.Payment
	seq      map[uuid.UUID]int64
	next     int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[uuid.UUID]models.User),
		payments: make(map[uuid.UUID]models.Payment),
		seq:      make(map[uuid.UUID]int64),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// CreateUser inserts a user, enforcing the same unique columns as Postgres.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return models.User{}, &storage.UniqueViolation{Field: "id"}
	}
	if field := s.conflictLocked(user); field != "" {
		return models.User{}, &storage.UniqueViolation{Field: field}
	}
	s.users[user.ID] = user
	s.bumpLocked(user.ID)
	return user, nil
}

func (s *Store) FindUserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Username == username })
}

func (s *Store) FindByAccountNumber(_ context.Context, accountNumber string) (models.User, error) {
	return s.findUser(func(u models.User) bool { return u.AccountNumber == accountNumber })
}

// ListByRole returns users holding role, oldest first.
func (s *Store) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.User{}
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out, nil
}

func (s *Store) CountByRole(ctx context.Context, role models.Role) (int, error) {
	users, err := s.ListByRole(ctx, role)
	return len(users), err
}

// UpdateUserDetails rewrites name, username and account number only.
func (s *Store) UpdateUserDetails(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	existing.Name = user.Name
	existing.Username = user.Username
	existing.AccountNumber = user.AccountNumber
	if field := s.conflictLocked(existing); field != "" {
		return models.User{}, &storage.UniqueViolation{Field: field}
	}
	s.users[user.ID] = existing
	return existing, nil
}

// DeleteUser removes the user and cascades to the payments they submitted.
func (s *Store) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	delete(s.seq, id)
	for pid, p := range s.payments {
		if p.UserID == id {
			delete(s.payments, pid)
			delete(s.seq, pid)
		}
	}
	return nil
}

func (s *Store) CreatePayment(_ context.Context, payment models.Payment) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[payment.ID]; ok {
		return models.Payment{}, &storage.UniqueViolation{Field: "id"}
	}
	if _, ok := s.users[payment.UserID]; !ok {
		return models.Payment{}, fmt.Errorf("payment owner: %w", storage.ErrNotFound)
	}
	s.payments[payment.ID] = payment
	s.bumpLocked(payment.ID)
	return payment, nil
}

func (s *Store) FindPaymentByID(_ context.Context, id uuid.UUID) (models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return models.Payment{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListPaymentsByAccount(_ context.Context, accountNumber string) ([]models.Payment, error) {
	return s.listPayments(func(p models.Payment) bool { return p.Involves(accountNumber) }), nil
}

func (s *Store) ListPaymentsByStatus(_ context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	return s.listPayments(func(p models.Payment) bool { return p.Status == status }), nil
}

func (s *Store) TransitionPayment(_ context.Context, id uuid.UUID, to models.PaymentStatus) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return models.Payment{}, storage.ErrNotFound
	}
	if p.Status != models.StatusPending {
		return models.Payment{}, storage.ErrNotPending
	}
	p.Status = to
	s.payments[id] = p
	return p, nil
}

func (s *Store) DeletePendingPayment(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return storage.ErrNotFound
	}
	if p.Status != models.StatusPending {
		return storage.ErrNotPending
	}
	delete(s.payments, id)
	delete(s.seq, id)
	return nil
}

func (s *Store) findUser(match func(models.User) bool) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// listPayments returns matches newest first; ties fall back to insertion order.
func (s *Store) listPayments(match func(models.Payment) bool) []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Payment{}
	for _, p := range s.payments {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out
}

func (s *Store) conflictLocked(user models.User) string {
	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		switch {
		case u.Username == user.Username:
			return "username"
		case u.IDNumber == user.IDNumber:
			return "id_number"
		case u.AccountNumber == user.AccountNumber:
			return "account_number"
		}
	}
	return ""
}

func (s *Store) bumpLocked(id uuid.UUID) {
	s.next++
	s.seq[id] = s.next
}
