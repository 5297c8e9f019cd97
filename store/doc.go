// Package store provides the persistence adapter for catalog records.
//
// Records live in a single DynamoDB table whose partition key is the string
// attribute "isbn". Every operation addresses exactly one key, except [Store.List]
// which scans the whole table.
//
// # Contract
//
//   - [Store.Put] is an unconditional upsert; it reports whether the key was new.
//   - [Store.Get] reports absence as ok=false, never as an error.
//   - [Store.List] returns every record in table order (no ordering guarantee).
//     The result is unbounded.
//   - [Store.Delete] succeeds whether or not the key existed.
//
// [Memory] implements the same contract in process memory for tests and local
// development.
//
// # Configuration
//
// Use [DefaultConfig] and set the table name supplied by the environment:
//
//	cfg := store.DefaultConfig()
//	cfg.TableName = os.Getenv("TABLE_NAME")
//	s := store.New(dynamodb.NewFromConfig(awsCfg), cfg)
//
// # Errors
//
// All failures wrap one of:
//
//   - [ErrServiceIO] - the DynamoDB call failed (network, throttling, cancellation)
//   - [ErrInvalidEntity] - an item could not be encoded or decoded
//   - [ErrInvalidKey] - the isbn is empty
package store
