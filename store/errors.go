package store

import "errors"

var (
	// ErrServiceIO is returned when a DynamoDB call fails, including cancellation.
	ErrServiceIO = errors.New("bookshelf: service i/o failed")

	// ErrInvalidEntity is returned when a record cannot be encoded to or decoded from an item.
	ErrInvalidEntity = errors.New("bookshelf: invalid entity")

	// ErrInvalidKey is returned when the isbn is empty.
	ErrInvalidKey = errors.New("bookshelf: invalid key")
)
