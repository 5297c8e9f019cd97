// Package env reads process configuration from the hosting environment.
package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/jacentio/bookshelf/store"
)

// Environment variables.
const (
	VarTableName        = "TABLE_NAME"
	VarLogLevel         = "LOG_LEVEL"
	VarDynamoDBEndpoint = "DYNAMODB_ENDPOINT"
	VarConsistentRead   = "CONSISTENT_READ"
	VarAddr             = "ADDR"
)

// ErrMissingTableName is returned when TABLE_NAME is unset or blank.
var ErrMissingTableName = errors.New("bookshelf: " + VarTableName + " must be set")

// Env is the resolved process configuration.
type Env struct {
	// TableName names the DynamoDB table. Required.
	TableName string

	// LogLevel is the minimum slog level. Default: info.
	LogLevel slog.Level

	// DynamoDBEndpoint overrides the service endpoint, e.g. for DynamoDB Local.
	DynamoDBEndpoint string

	// ConsistentRead enables strongly consistent reads.
	ConsistentRead bool

	// Addr is the dev server listen address. Default: ":8080".
	Addr string
}

// Lookup resolves a variable; os.LookupEnv in production.
type Lookup func(key string) (string, bool)

// Load reads the configuration from the process environment.
func Load() (*Env, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads the configuration through lookup.
func LoadFrom(lookup Lookup) (*Env, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	e := &Env{
		TableName:        get(VarTableName),
		DynamoDBEndpoint: get(VarDynamoDBEndpoint),
		Addr:             get(VarAddr),
	}
	if e.TableName == "" {
		return nil, ErrMissingTableName
	}
	if e.Addr == "" {
		e.Addr = ":8080"
	}

	if raw := get(VarLogLevel); raw != "" {
		if err := e.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("bookshelf: invalid %s %q: %w", VarLogLevel, raw, err)
		}
	}

	if raw := get(VarConsistentRead); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("bookshelf: invalid %s %q: %w", VarConsistentRead, raw, err)
		}
		e.ConsistentRead = v
	}

	return e, nil
}

// StoreConfig returns the store configuration derived from the environment.
func (e *Env) StoreConfig() store.Config {
	cfg := store.DefaultConfig()
	cfg.TableName = e.TableName
	cfg.ConsistentRead = e.ConsistentRead
	return cfg
}

// Logger builds a JSON slog logger writing to w at the configured level.
func (e *Env) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: e.LogLevel}))
}

// DynamoDB builds a DynamoDB client from the default AWS credential chain.
func (e *Env) DynamoDB(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if e.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(e.DynamoDBEndpoint)
		}
	}), nil
}

// Store builds the DynamoDB-backed store.
func (e *Env) Store(ctx context.Context) (*store.Store, error) {
	client, err := e.DynamoDB(ctx)
	if err != nil {
		return nil, err
	}
	return store.New(client, e.StoreConfig()), nil
}
