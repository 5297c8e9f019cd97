package store

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/bookshelf/book"
)

// KeyAttr is the partition key attribute of the books table.
const KeyAttr = "isbn"

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// Key returns the primary key addressing isbn.
func Key(isbn string) (PK, error) {
	if strings.TrimSpace(isbn) == "" {
		return nil, ErrInvalidKey
	}
	return PK{KeyAttr: &types.AttributeValueMemberS{Value: isbn}}, nil
}

// encodeItem converts a book into a DynamoDB item.
func encodeItem(b book.Book) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(b.Normalize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return item, nil
}

// decodeItem converts a DynamoDB item into a book.
func decodeItem(item map[string]types.AttributeValue) (book.Book, error) {
	var b book.Book
	if err := attributevalue.UnmarshalMap(item, &b); err != nil {
		return book.Book{}, fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	if b.ISBN == "" {
		return book.Book{}, fmt.Errorf("%w: item without %s attribute", ErrInvalidEntity, KeyAttr)
	}
	return b.Normalize(), nil
}
