package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"site-catalog/internal/authz"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	principalKey    = "principal"
)

// requestID keeps a caller supplied X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = logger.Error()
		case status >= http.StatusBadRequest:
			ev = logger.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("http request")
	}
}

func authorize(a authz.Authorizer, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := a.Authorize(c.Request, action)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, authz.ErrForbidden) {
				status = http.StatusForbidden
			} else {
				c.Header("WWW-Authenticate", `Bearer realm="catalog"`)
			}
			c.AbortWithStatusJSON(status, gin.H{"message": http.StatusText(status)})
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}
