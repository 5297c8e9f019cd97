// Command bookshelf is the AWS Lambda entrypoint behind the API Gateway
// REST proxy integration for the /books resource.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"

	"github.com/jacentio/bookshelf/api"
	"github.com/jacentio/bookshelf/internal/env"
)

func main() {
	cfg, err := env.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	books, err := cfg.Store(context.Background())
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}

	logger.Info("bookshelf starting", "table", books.TableName())
	gin.SetMode(gin.ReleaseMode)
	lambda.Start(api.NewLambdaHandler(api.NewRouter(books, logger)))
}
