package service

import (
	"time"

	"github.com/google/uuid"
)

type options struct {
	now   func() time.Time
	newID func() uuid.UUID
}

// Option customizes a service. Tests use it to pin time and identifiers.
type Option func(*options)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides how new record IDs are minted.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
