package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDMiddleware tags every request with an id so a datafeed call can
// be correlated between the handler logs and the error payload the chart
// client sees. A caller-supplied id is kept, otherwise one is minted.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeaderKey)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeaderKey, requestID)
		c.Set(RequestIDContextKey, requestID)
		c.Next()
	}
}

// ginLoggerMiddleware logs one line per request including the query string,
// which is where the interesting part of a feed request (symbol, resolution,
// range) lives.
func ginLoggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		query := param.Request.URL.RawQuery
		if query != "" {
			query = "?" + query
		}
		return fmt.Sprintf("[%s] %s \"%s %s%s\" %d %s\n",
			param.TimeStamp.Format(time.RFC3339),
			param.ClientIP,
			param.Method,
			param.Request.URL.Path,
			query,
			param.StatusCode,
			param.Latency,
		)
	})
}

// corsMiddleware lets a browser-hosted chart page call the feed from any
// origin. The surface is read-only, so only GET and the preflight verb are
// allowed, and the request id header is exposed so the page can echo it in
// bug reports.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodOptions)
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeaderKey)
		c.Header("Access-Control-Expose-Headers", RequestIDHeaderKey)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
