package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/bookshelf/book"
)

// Store provides book persistence on a DynamoDB table.
type Store struct {
	client DynamoDB
	config Config
}

// New creates a new Store instance.
func New(client DynamoDB, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// TableName returns the table the store addresses.
func (s *Store) TableName() string {
	return s.config.TableName
}

// Put writes b under its isbn, replacing any existing record in full.
// created is true when no record existed before.
func (s *Store) Put(ctx context.Context, b book.Book) (created bool, err error) {
	if _, err := Key(b.ISBN); err != nil {
		return false, err
	}

	item, err := encodeItem(b)
	if err != nil {
		return false, err
	}

	result, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:    aws.String(s.config.TableName),
		Item:         item,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("%w: put %s: %w", ErrServiceIO, b.ISBN, err)
	}

	return len(result.Attributes) == 0, nil
}

// Get retrieves a book by isbn. A missing record yields ok=false and no error.
func (s *Store) Get(ctx context.Context, isbn string) (b book.Book, ok bool, err error) {
	key, err := Key(isbn)
	if err != nil {
		return book.Book{}, false, err
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.TableName),
		Key:            key,
		ConsistentRead: aws.Bool(s.config.ConsistentRead),
	})
	if err != nil {
		return book.Book{}, false, fmt.Errorf("%w: get %s: %w", ErrServiceIO, isbn, err)
	}
	if result.Item == nil {
		return book.Book{}, false, nil
	}

	b, err = decodeItem(result.Item)
	if err != nil {
		return book.Book{}, false, err
	}
	return b, true, nil
}

// List scans the whole table. The result is never nil and has no defined order.
func (s *Store) List(ctx context.Context) ([]book.Book, error) {
	books := []book.Book{}

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:      aws.String(s.config.TableName),
		ConsistentRead: aws.Bool(s.config.ConsistentRead),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrServiceIO, err)
		}
		for _, raw := range page.Items {
			b, err := decodeItem(raw)
			if err != nil {
				return nil, err
			}
			books = append(books, b)
		}
	}

	return books, nil
}

// Delete removes the record for isbn. Deleting a missing record succeeds.
func (s *Store) Delete(ctx context.Context, isbn string) error {
	key, err := Key(isbn)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrServiceIO, isbn, err)
	}
	return nil
}
