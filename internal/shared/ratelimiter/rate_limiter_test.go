package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestRateLimiter_Burst はバースト分の呼び出しが待機なしで通ることを検証します。
func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter("test", 3, time.Minute)

	start := time.Now()
	for range 3 {
		assert.NoError(t, rl.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), time.Second)
}

// TestRateLimiter_CanceledWhileWaiting は待機中のキャンセルがエラーになることを検証します。
func TestRateLimiter_CanceledWhileWaiting(t *testing.T) {
	rl := NewRateLimiter("test", 1, time.Hour)
	assert.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
}

// TestRateLimiter_Unlimited は上限0の場合に制限しないことを検証します。
func TestRateLimiter_Unlimited(t *testing.T) {
	rl := NewRateLimiter("test", 0, time.Minute)
	for range 100 {
		assert.NoError(t, rl.Wait(context.Background()))
	}
}
