package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// options are shared by VaultStore and SessionStore.
type options struct {
	newID func() string
	clock func() time.Time
	log   logging.Logger
}

// Option customises a store.
type Option func(*options)

// WithIDGenerator replaces the default UUIDv4 generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(o *options) { o.clock = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{
		newID: uuid.NewString,
		clock: time.Now,
		log:   logging.Nop(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// now returns the current time in UTC at millisecond precision, which is
// what survives a JSON round-trip unchanged.
func (o options) now() time.Time {
	return o.clock().UTC().Truncate(time.Millisecond)
}
