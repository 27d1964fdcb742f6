package meta

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	metaKey  = "response_meta"
	startKey = "response_meta_start"
)

// Middleware initialises response metadata storage on the request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(startKey, time.Now())
		c.Set(metaKey, map[string]interface{}{})
		c.Next()
	}
}

// Set records a metadata entry for the current response.
func Set(c *gin.Context, key string, value interface{}) {
	ensure(c)[key] = value
}

// Extract returns the metadata collected so far, stamped with the elapsed processing time.
// It returns nil when the middleware is not installed.
func Extract(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	raw, exists := c.Get(metaKey)
	if !exists {
		return nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	if start, ok := c.Get(startKey); ok {
		if ts, ok := start.(time.Time); ok {
			m["processing_time_ms"] = time.Since(ts).Milliseconds()
		}
	}
	return m
}

func ensure(c *gin.Context) map[string]interface{} {
	if raw, exists := c.Get(metaKey); exists {
		if typed, ok := raw.(map[string]interface{}); ok {
			return typed
		}
	}
	m := make(map[string]interface{})
	c.Set(metaKey, m)
	return m
}
