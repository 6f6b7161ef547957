package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type snapshot struct {
	status int
	header http.Header
	body   []byte
}

func (s snapshot) replay(c *gin.Context) {
	h := c.Writer.Header()
	for k, v := range s.header {
		if _, set := h[k]; !set {
			h[k] = v
		}
	}
	h.Set("X-Cache", "HIT")
	c.Writer.WriteHeader(s.status)
	_, _ = c.Writer.Write(s.body)
}

// recorder tees the response body so it can be snapshotted after the handler.
type recorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (r *recorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *recorder) WriteString(s string) (int, error) {
	r.buf.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

func success(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// Cache serves repeated GETs from memory, keyed by request URI. Any
// successful request with another method empties the cache, so a new
// watering is visible on the next read.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			if success(c.Writer.Status()) {
				store.Flush()
			}
			return
		}

		key := c.Request.URL.RequestURI()
		if v, ok := store.Get(key); ok {
			v.(snapshot).replay(c)
			c.Abort()
			return
		}

		rec := &recorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if !success(rec.Status()) {
			return
		}
		header := rec.Header().Clone()
		// Set per request by CORS.
		header.Del("Access-Control-Allow-Origin")
		store.Set(key, snapshot{status: rec.Status(), header: header, body: rec.buf.Bytes()}, ttl)
	}
}
