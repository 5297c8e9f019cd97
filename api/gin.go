package api

import (
	"strings"
	"time"

	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the correlation id of a request.
const HeaderRequestID = "X-Request-Id"

const keyRequestID = "requestID"

// requestID takes the id from the request header, then from the API Gateway
// request context, and generates one otherwise. It is echoed on the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			if gw, ok := core.GetAPIGatewayContextFromContext(c.Request.Context()); ok {
				id = gw.RequestID
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(keyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func (r *Router) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		r.logger.Info("request served",
			"requestID", c.GetString(keyRequestID),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func writeGin(c *gin.Context, rsp *Response) {
	for k, v := range rsp.Headers {
		c.Header(k, v)
	}
	if len(rsp.Body) == 0 {
		c.Status(rsp.Status)
		return
	}
	c.Data(rsp.Status, rsp.Headers["Content-Type"], rsp.Body)
}

// ginPath converts {name} segments into gin's :name form.
func ginPath(pattern string) string {
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if name, ok := paramName(seg); ok {
			segments[i] = ":" + name
		}
	}
	return strings.Join(segments, "/")
}

func paramName(seg string) (string, bool) {
	if len(seg) > 2 && strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}
