// Command bookshelf-dev serves the catalog over plain HTTP for local
// development. With -memory it keeps books in process memory; otherwise it
// talks to the DynamoDB table named by TABLE_NAME (DYNAMODB_ENDPOINT points it
// at DynamoDB Local).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/jacentio/bookshelf/api"
	"github.com/jacentio/bookshelf/internal/env"
	"github.com/jacentio/bookshelf/store"
)

func main() {
	memory := flag.Bool("memory", false, "keep books in memory instead of DynamoDB")
	flag.Parse()

	if *memory && os.Getenv(env.VarTableName) == "" {
		os.Setenv(env.VarTableName, "memory")
	}

	cfg, err := env.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	var books api.Store
	if *memory {
		books = store.NewMemory()
		logger.Info("using in-memory store")
	} else {
		s, err := cfg.Store(context.Background())
		if err != nil {
			logger.Error("failed to initialize store", "error", err)
			os.Exit(1)
		}
		books = s
		logger.Info("using dynamodb store", "table", s.TableName(), "endpoint", cfg.DynamoDBEndpoint)
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(books, logger)

	logger.Info("listening", "addr", cfg.Addr)
	if err := router.Engine().Run(cfg.Addr); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
