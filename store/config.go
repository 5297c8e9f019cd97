package store

// Config holds configuration for the Store.
type Config struct {
	// TableName is the DynamoDB table holding the books.
	// Default: "BooksTable"
	TableName string

	// ConsistentRead requests strongly consistent reads for Get and List.
	// Default: false
	ConsistentRead bool
}

// DefaultConfig returns the defaults matching the provisioned table.
func DefaultConfig() Config {
	return Config{
		TableName: "BooksTable",
	}
}

// validate fills in missing values.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "BooksTable"
	}
}
