package api

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

// LambdaHandler serves API Gateway REST proxy events.
type LambdaHandler func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewLambdaHandler serves router behind the API Gateway proxy integration.
// Failures are always expressed as HTTP responses, so the returned error is
// nil and Lambda never retries an invocation.
func NewLambdaHandler(router *Router) LambdaHandler {
	adapter := ginadapter.New(router.Engine())

	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if event.IsBase64Encoded {
			if _, err := base64.StdEncoding.DecodeString(event.Body); err != nil {
				return responseToEvent(badRequest("request body is not valid base64")), nil
			}
		}

		event.Path = resourcePath(event)

		rsp, err := adapter.ProxyWithContext(ctx, event)
		if err != nil {
			router.logger.Error("failed to proxy request",
				"requestID", event.RequestContext.RequestID,
				"path", event.Path,
				"error", err,
			)
			return responseToEvent(internalError()), nil
		}
		return rsp, nil
	}
}

// resourcePath renders the resource API Gateway matched with its path
// parameters, dropping any stage or base-path prefix carried by event.Path.
// Events without a resource, or missing one of its parameters, keep Path.
func resourcePath(event events.APIGatewayProxyRequest) string {
	if event.Resource == "" {
		return event.Path
	}

	segments := strings.Split(event.Resource, "/")
	for i, seg := range segments {
		name, ok := paramName(seg)
		if !ok {
			continue
		}
		greedy := strings.HasSuffix(name, "+")
		value, ok := event.PathParameters[strings.TrimSuffix(name, "+")]
		if !ok {
			return event.Path
		}
		if greedy {
			segments[i] = value
		} else {
			segments[i] = url.PathEscape(value)
		}
	}
	return strings.Join(segments, "/")
}

func responseToEvent(rsp *Response) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(rsp.Headers))
	for k, v := range rsp.Headers {
		headers[k] = v
	}
	return events.APIGatewayProxyResponse{
		StatusCode: rsp.Status,
		Headers:    headers,
		Body:       string(rsp.Body),
	}
}
