package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hatstore-next/internal/cache"
)

// RedisStore 基于 Redis 的会话存储，多实例部署时共享会话
type RedisStore struct {
	ttl time.Duration
}

// NewRedisStore 创建 Redis 会话存储
func NewRedisStore(ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &RedisStore{ttl: ttl}
}

func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// Load 加载会话，未命中或 sid 为空时返回全新会话
func (s *RedisStore) Load(ctx context.Context, sid string) (*Session, error) {
	sid = strings.TrimSpace(sid)
	if sid == "" {
		return New(), nil
	}
	var sess Session
	hit, err := cache.GetJSON(ctx, sessionKey(sid), &sess)
	if err != nil {
		return nil, err
	}
	if !hit {
		return New(), nil
	}
	sess.ID = sid
	return &sess, nil
}

// Save 提交会话并续期
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}
	if err := cache.SetJSON(ctx, sessionKey(sess.ID), sess, s.ttl); err != nil {
		return err
	}
	sess.dirty = false
	return nil
}

// Delete 删除会话
func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return nil
	}
	return cache.Del(ctx, sessionKey(sid))
}
