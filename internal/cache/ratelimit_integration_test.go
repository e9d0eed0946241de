//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/webdemo/webdemo/internal/testutil"
)

func TestIntegrationCheckIPRateLimit_Burst(t *testing.T) {
	redisURL := testutil.RequireEnv(t, "TEST_REDIS_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	const burst = 3
	for i := 0; i < burst; i++ {
		res, err := c.CheckIPRateLimit(ctx, "198.51.100.1", 1, burst)
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	res, err := c.CheckIPRateLimit(ctx, "198.51.100.1", 1, burst)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Allowed {
		t.Error("request beyond burst should be rejected")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("expected positive RetryAfter, got %s", res.RetryAfter)
	}

	other, err := c.CheckIPRateLimit(ctx, "198.51.100.2", 1, burst)
	if err != nil {
		t.Fatalf("check other ip: %v", err)
	}
	if !other.Allowed {
		t.Error("a different IP should have its own bucket")
	}
}
