package session

import (
	"context"
	"time"

	"github.com/hatstore-next/internal/cache"
)

// Store 会话存储。Load 未命中时返回全新会话；
// 修改后的会话必须由调用方显式 Save 提交，存储层不做隐式回写
type Store interface {
	Load(ctx context.Context, sid string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, sid string) error
}

// NewStore 按运行环境选择实现：Redis 可用时用 Redis，否则退化为进程内存储
func NewStore(ttl time.Duration) Store {
	if cache.Enabled() {
		return NewRedisStore(ttl)
	}
	return NewMemoryStore(ttl)
}
