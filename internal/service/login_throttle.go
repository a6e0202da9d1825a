package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle limits failed login attempts per email over a rolling
// window, backed by Redis counters. A nil throttle allows everything.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle builds a throttle. Returns nil when no client is
// available so auth keeps working without Redis.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	if client == nil || maxAttempts <= 0 {
		return nil
	}
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

func throttleKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", strings.ToLower(strings.TrimSpace(email)))
}

// Allow reports whether another attempt is permitted for the email.
func (t *LoginThrottle) Allow(ctx context.Context, email string) bool {
	if t == nil {
		return true
	}
	count, err := t.client.Get(ctx, throttleKey(email)).Int()
	if err != nil {
		// missing key or unreachable redis both mean no throttling
		return true
	}
	return count < t.maxAttempts
}

// RecordFailure counts a failed attempt and refreshes the window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) {
	if t == nil {
		return
	}
	key := throttleKey(email)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, t.window)
	_, _ = pipe.Exec(ctx)
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil {
		return
	}
	_ = t.client.Del(ctx, throttleKey(email)).Err()
}
