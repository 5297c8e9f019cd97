package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jacentio/bookshelf/book"
)

// Memory is an in-process implementation of the store contract.
type Memory struct {
	mu    sync.RWMutex
	books map[string]book.Book
}

// NewMemory constructs a Memory store seeded with the provided books.
func NewMemory(seed ...book.Book) *Memory {
	m := &Memory{books: make(map[string]book.Book, len(seed))}
	for _, b := range seed {
		m.books[b.ISBN] = clone(b)
	}
	return m
}

// Put stores b, replacing any record with the same isbn.
func (m *Memory) Put(ctx context.Context, b book.Book) (bool, error) {
	if err := alive(ctx); err != nil {
		return false, err
	}
	if _, err := Key(b.ISBN); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.books[b.ISBN]
	m.books[b.ISBN] = clone(b)
	return !exists, nil
}

// Get retrieves a book by isbn.
func (m *Memory) Get(ctx context.Context, isbn string) (book.Book, bool, error) {
	if err := alive(ctx); err != nil {
		return book.Book{}, false, err
	}
	if _, err := Key(isbn); err != nil {
		return book.Book{}, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.books[isbn]
	if !ok {
		return book.Book{}, false, nil
	}
	return clone(b), true, nil
}

// List returns all books in map order.
func (m *Memory) List(ctx context.Context) ([]book.Book, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	books := make([]book.Book, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, clone(b))
	}
	return books, nil
}

// Delete removes the record for isbn if present.
func (m *Memory) Delete(ctx context.Context, isbn string) error {
	if err := alive(ctx); err != nil {
		return err
	}
	if _, err := Key(isbn); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.books, isbn)
	return nil
}

// Len returns the number of stored books.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.books)
}

func alive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrServiceIO, err)
	}
	return nil
}

// clone copies the slices so callers cannot mutate stored records.
func clone(b book.Book) book.Book {
	b = b.Normalize()
	b.Authors = append([]string{}, b.Authors...)
	if b.Countries != nil {
		b.Countries = append([]string{}, b.Countries...)
	}
	if b.NumberOfPages != nil {
		b.NumberOfPages = book.Pages(*b.NumberOfPages)
	}
	return b
}
