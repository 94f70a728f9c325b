package rate_limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLimiter(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)
	l := NewLocalLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	r, err := l.Allow(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, r.Allowed)
	assert.Equal(t, 1, r.Remaining)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 1, 0, 0, time.UTC).Unix(), r.ResetAt)

	r, _ = l.Allow(ctx, "admin")
	assert.True(t, r.Allowed)
	assert.Equal(t, 0, r.Remaining)

	r, _ = l.Allow(ctx, "admin")
	assert.False(t, r.Allowed, "窗口内第三次应被拒绝")
	assert.Equal(t, 0, r.Remaining)

	r, _ = l.Allow(ctx, "ops")
	assert.True(t, r.Allowed, "不同操作人独立计数")

	now = now.Add(time.Minute)
	r, _ = l.Allow(ctx, "admin")
	assert.True(t, r.Allowed, "新窗口计数归零")
	assert.Equal(t, 1, r.Remaining)
}

func TestWindowKey(t *testing.T) {
	now := time.Unix(125, 0)
	k, resetAt := windowKey("admin", time.Minute, now)
	assert.Equal(t, "rate_limit:upload:admin:2", k)
	assert.Equal(t, int64(180), resetAt.Unix())

	k, _ = windowKey("admin", 0, now)
	assert.Equal(t, "rate_limit:upload:admin:125", k)
}
