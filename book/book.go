// Package book defines the catalog record and the schema enforced on writes.
package book

// Book is a catalog record. ISBN is the sole identity.
type Book struct {
	ISBN          string   `json:"isbn" dynamodbav:"isbn" validate:"required,notblank"`
	Title         string   `json:"title" dynamodbav:"title" validate:"required,notblank"`
	Authors       []string `json:"authors" dynamodbav:"authors" validate:"required"`
	NumberOfPages *int     `json:"number_of_pages,omitempty" dynamodbav:"number_of_pages,omitempty"`
	Countries     []string `json:"countries,omitempty" dynamodbav:"countries,omitempty"`
	ReleaseDate   string   `json:"release_date,omitempty" dynamodbav:"release_date,omitempty"`
}

// Normalize replaces a nil author list with an empty one so the record
// always serializes "authors" as an array.
func (b Book) Normalize() Book {
	if b.Authors == nil {
		b.Authors = []string{}
	}
	return b
}

// Pages returns a pointer suitable for NumberOfPages.
func Pages(n int) *int {
	return &n
}
