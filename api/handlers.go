package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jacentio/bookshelf/book"
)

// ParamISBN is the path parameter addressing a single book.
const ParamISBN = "isbn"

// Store is the persistence contract the handlers depend on.
// *store.Store and *store.Memory implement it.
type Store interface {
	// Put upserts b; created reports that no record existed before.
	Put(ctx context.Context, b book.Book) (created bool, err error)

	// Get reports absence with ok=false and a nil error.
	Get(ctx context.Context, isbn string) (b book.Book, ok bool, err error)

	List(ctx context.Context) ([]book.Book, error)

	// Delete succeeds whether or not the record existed.
	Delete(ctx context.Context, isbn string) error
}

func pathISBN(req *Request) (string, *Response) {
	isbn := req.Param(ParamISBN)
	if strings.TrimSpace(isbn) == "" {
		return "", badRequest("isbn is required")
	}
	return isbn, nil
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Create upserts the book addressed by the path. The body must already be
// validated by the router; a request without a validated book is decoded here.
// Responds 201 for a new record and 200 when an existing one was replaced.
func Create(s Store, logger *slog.Logger) HandlerFunc {
	logger = loggerOrDefault(logger)

	return func(ctx context.Context, req *Request) *Response {
		isbn, rsp := pathISBN(req)
		if rsp != nil {
			return rsp
		}

		b := req.Book
		if b == nil {
			decoded, err := book.Decode(req.Body)
			if err != nil {
				return validationFailed(err)
			}
			b = &decoded
		}

		if b.ISBN != isbn {
			return validationFailed(book.Mismatch(isbn, b.ISBN))
		}

		created, err := s.Put(ctx, *b)
		if err != nil {
			logger.Error("failed to store book",
				"requestID", req.ID,
				"isbn", isbn,
				"error", err,
			)
			return internalError()
		}

		logger.Debug("book stored",
			"requestID", req.ID,
			"isbn", isbn,
			"created", created,
		)

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return JSON(status, b.Normalize())
	}
}

// Get returns the book addressed by the path or 404.
func Get(s Store, logger *slog.Logger) HandlerFunc {
	logger = loggerOrDefault(logger)

	return func(ctx context.Context, req *Request) *Response {
		isbn, rsp := pathISBN(req)
		if rsp != nil {
			return rsp
		}

		b, ok, err := s.Get(ctx, isbn)
		if err != nil {
			logger.Error("failed to get book",
				"requestID", req.ID,
				"isbn", isbn,
				"error", err,
			)
			return internalError()
		}
		if !ok {
			return notFound("book " + isbn + " not found")
		}

		logger.Debug("book fetched", "requestID", req.ID, "isbn", isbn)
		return JSON(http.StatusOK, b)
	}
}

// List returns every stored book. An empty collection is an empty array.
func List(s Store, logger *slog.Logger) HandlerFunc {
	logger = loggerOrDefault(logger)

	return func(ctx context.Context, req *Request) *Response {
		books, err := s.List(ctx)
		if err != nil {
			logger.Error("failed to list books",
				"requestID", req.ID,
				"error", err,
			)
			return internalError()
		}
		if books == nil {
			books = []book.Book{}
		}

		logger.Debug("books listed", "requestID", req.ID, "count", len(books))
		return JSON(http.StatusOK, books)
	}
}

// Delete removes the book addressed by the path. It responds 204 whether or
// not the book existed.
func Delete(s Store, logger *slog.Logger) HandlerFunc {
	logger = loggerOrDefault(logger)

	return func(ctx context.Context, req *Request) *Response {
		isbn, rsp := pathISBN(req)
		if rsp != nil {
			return rsp
		}

		if err := s.Delete(ctx, isbn); err != nil {
			logger.Error("failed to delete book",
				"requestID", req.ID,
				"isbn", isbn,
				"error", err,
			)
			return internalError()
		}

		logger.Debug("book deleted", "requestID", req.ID, "isbn", isbn)
		return NoContent(http.StatusNoContent)
	}
}
