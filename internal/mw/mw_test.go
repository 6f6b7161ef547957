package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, headers ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCache(t *testing.T) {
	hits := 0
	r := gin.New()
	r.Use(Cache(cache.New(time.Minute, time.Minute), time.Minute))
	r.GET("/plants", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	r.GET("/broken", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	r.POST("/plants", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/invalid", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	w := perform(r, http.MethodGet, "/plants")
	assert.JSONEq(t, `{"hits":1}`, w.Body.String())
	assert.Empty(t, w.Header().Get("X-Cache"))

	w = perform(r, http.MethodGet, "/plants")
	assert.JSONEq(t, `{"hits":1}`, w.Body.String())
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	// A rejected write keeps the cache.
	perform(r, http.MethodPost, "/invalid")
	w = perform(r, http.MethodGet, "/plants")
	assert.JSONEq(t, `{"hits":1}`, w.Body.String())

	// A successful write flushes it.
	perform(r, http.MethodPost, "/plants")
	w = perform(r, http.MethodGet, "/plants")
	assert.JSONEq(t, `{"hits":2}`, w.Body.String())

	// Errors are never cached.
	perform(r, http.MethodGet, "/broken")
	perform(r, http.MethodGet, "/broken")
	assert.Equal(t, 4, hits)
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "X-Forwarded-For", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "X-Forwarded-For", "10.0.0.1").Code)

	w := perform(r, http.MethodGet, "/", "X-Forwarded-For", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())
}

func TestIPRateLimiter_PerIP(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	assert.Same(t, l.Limiter("a"), l.Limiter("a"))
	assert.NotSame(t, l.Limiter("a"), l.Limiter("b"))
	assert.Equal(t, 2, l.Len())
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	l := newIPRateLimiter(rate.Limit(1), 1, 100*time.Millisecond)

	busy := l.Limiter("10.0.0.1")
	idle := l.Limiter("10.0.0.2")

	// Touching a client keeps its bucket alive.
	for n := 0; n < 5; n++ {
		time.Sleep(30 * time.Millisecond)
		assert.Same(t, busy, l.Limiter("10.0.0.1"))
	}

	assert.Equal(t, 1, l.Len())
	assert.NotSame(t, idle, l.Limiter("10.0.0.2"))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/", "Origin", "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/", "Origin", "http://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodOptions, "/", "Origin", "http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
