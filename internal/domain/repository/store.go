package repository

import "context"

// Store is a unit of work: a bounded, exclusive session against the
// relational store used for one logical operation. A Store must never be
// shared across concurrent operations; the caller that acquired it owns
// it for the duration of the operation and releases it on every exit
// path, typically with defer.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Options() OptionRepository
	Release()
}

// Factory produces a fresh Store per operation.
type Factory interface {
	Acquire(ctx context.Context) (Store, error)
}
