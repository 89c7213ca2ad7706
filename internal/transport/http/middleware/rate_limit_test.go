package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type memoryRateStore struct {
	attempts map[string][]time.Time
	failWith error
}

func newMemoryRateStore() *memoryRateStore {
	return &memoryRateStore{attempts: map[string][]time.Time{}}
}

func (s *memoryRateStore) TrimWindow(_ context.Context, identifier string, window time.Duration, reference time.Time) error {
	if s.failWith != nil {
		return s.failWith
	}
	cutoff := reference.Add(-window)
	kept := s.attempts[identifier][:0]
	for _, at := range s.attempts[identifier] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	s.attempts[identifier] = kept
	return nil
}

func (s *memoryRateStore) CountAttempts(_ context.Context, identifier string, _ time.Duration, _ time.Time) (int, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	return len(s.attempts[identifier]), nil
}

func (s *memoryRateStore) RecordAttempt(_ context.Context, identifier string, at time.Time) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.attempts[identifier] = append(s.attempts[identifier], at)
	return nil
}

func rateLimitTestRouter(store RateLimitStore, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(store, zap.NewNop())
	rule := RateLimitRule{
		Name:       "test",
		Limit:      limit,
		Window:     time.Minute,
		Identifier: ClientIPIdentifier(),
	}

	r := gin.New()
	r.GET("/ping", limiter.RateLimit(rule), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return r
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	r := rateLimitTestRouter(newMemoryRateStore(), 2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected zero remaining, got %q", got)
	}
}

func TestRateLimit_FailsOpenOnStoreError(t *testing.T) {
	store := newMemoryRateStore()
	store.failWith = errors.New("redis down")
	r := rateLimitTestRouter(store, 1)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 despite store failure, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimit_ZeroLimitDisablesRule(t *testing.T) {
	r := rateLimitTestRouter(newMemoryRateStore(), 0)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	}
}
