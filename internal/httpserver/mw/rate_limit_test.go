package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestLimiterAllow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := newLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 60, Now: clock.Now})

	for i := 0; i < 2; i++ {
		if ok, _, _ := l.allow("1.2.3.4", clock.Now()); !ok {
			t.Fatalf("request %d rejected within burst", i)
		}
	}

	ok, remaining, retry := l.allow("1.2.3.4", clock.Now())
	if ok {
		t.Fatal("request over burst allowed")
	}
	if remaining != 0 || retry != 1 {
		t.Errorf("remaining=%d retry=%d, want 0 and 1", remaining, retry)
	}

	if ok, _, _ := l.allow("5.6.7.8", clock.Now()); !ok {
		t.Error("other IP must have its own bucket")
	}

	clock.Advance(time.Second)
	if ok, _, _ := l.allow("1.2.3.4", clock.Now()); !ok {
		t.Error("token not refilled after one second")
	}
}

func TestLimiterSweepsIdleVisitors(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := newLimiter(RateLimitConfig{
		Burst:             1,
		RefillPerIPPerMin: 1,
		SweepInterval:     time.Minute,
		IdleTTL:           5 * time.Minute,
		Now:               clock.Now,
	})

	l.allow("1.2.3.4", clock.Now())
	clock.Advance(10 * time.Minute)
	l.allow("5.6.7.8", clock.Now())

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.visitors["1.2.3.4"]; ok {
		t.Error("idle visitor not swept")
	}
	if _, ok := l.visitors["5.6.7.8"]; !ok {
		t.Error("active visitor missing")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	h := RateLimit(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1, Now: clock.Now})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/auth/login", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first request: got %d", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Errorf("X-RateLimit-Limit = %q, want 1", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/auth/login", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
}
