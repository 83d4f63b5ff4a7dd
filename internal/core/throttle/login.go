package throttle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTooManyAttempts = errors.New("too many login attempts")

// Limiter 登录失败计数，固定窗口
type Limiter interface {
	// Check 超过阈值返回 ErrTooManyAttempts
	Check(ctx context.Context, key string) error
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

func NewClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

type RedisLimiter struct {
	rdb    redis.UniversalClient
	max    int64
	window time.Duration
	prefix string
}

func NewRedis(rdb redis.UniversalClient, maxAttempts int, window time.Duration) *RedisLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{rdb: rdb, max: int64(maxAttempts), window: window, prefix: "login:fail:"}
}

func (l *RedisLimiter) key(k string) string {
	return l.prefix + strings.ToLower(strings.TrimSpace(k))
}

func (l *RedisLimiter) Check(ctx context.Context, key string) error {
	n, err := l.rdb.Get(ctx, l.key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("throttle get: %w", err)
	}
	if n >= l.max {
		return ErrTooManyAttempts
	}
	return nil
}

// failScript INCR 与设置过期在同一次原子执行里完成；
// 没有 TTL 的旧 key 也会补上，窗口不滑动
var failScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

func (l *RedisLimiter) Fail(ctx context.Context, key string) error {
	if err := failScript.Run(ctx, l.rdb, []string{l.key(key)}, l.window.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("throttle fail: %w", err)
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

// Nop 未配置 Redis 时使用
type Nop struct{}

func (Nop) Check(context.Context, string) error { return nil }
func (Nop) Fail(context.Context, string) error  { return nil }
func (Nop) Reset(context.Context, string) error { return nil }
