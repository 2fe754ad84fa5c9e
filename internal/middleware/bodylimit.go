package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BethelHills/Alx-Polly/pkg/response"
)

// MaxBodyBytes caps request bodies on mutating routes. Larger payloads are
// rejected before any JSON decoding as a cheap denial-of-service guard.
const MaxBodyBytes = 10000

// BodyLimit returns a middleware that rejects oversized request bodies with
// 413. Content-Length is checked up front when the client sends it; bodies
// streamed without a length are capped by MaxBytesReader, which makes the
// later read inside binding fail.
func BodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > MaxBodyBytes {
			response.PayloadTooLarge(c, "request body too large")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
		c.Next()
	}
}
