package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// sweepInterval 后台清理过期会话的周期
const sweepInterval = 10 * time.Minute

// MemoryStore 进程内会话存储，Redis 未启用时的单实例退化方案。
// 会话序列化后保存，语义与 Redis 实现一致（Load 得到的是独立副本）。
// 过期条目在 Load 时惰性删除，后台清理兜底不再回访的会话
type MemoryStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	entries   map[string]memoryEntry
	stop      chan struct{}
	closeOnce sync.Once
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryStore 创建进程内会话存储并启动后台清理
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	s := &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	go s.sweepLoop(sweepInterval)
	return s
}

// Close 停止后台清理
func (s *MemoryStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
}

func (s *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.removeExpired(time.Now())
		}
	}
}

func (s *MemoryStore) removeExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, sid)
		}
	}
}

// Load 加载会话，未命中或已过期时返回全新会话
func (s *MemoryStore) Load(ctx context.Context, sid string) (*Session, error) {
	sid = strings.TrimSpace(sid)
	if sid == "" {
		return New(), nil
	}

	s.mu.RLock()
	entry, ok := s.entries[sid]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		if ok {
			s.mu.Lock()
			delete(s.entries, sid)
			s.mu.Unlock()
		}
		return New(), nil
	}

	var sess Session
	if err := json.Unmarshal(entry.payload, &sess); err != nil {
		return nil, err
	}
	sess.ID = sid
	return &sess, nil
}

// Save 提交会话并续期
func (s *MemoryStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[sess.ID] = memoryEntry{
		payload:   payload,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	sess.dirty = false
	return nil
}

// Delete 删除会话
func (s *MemoryStore) Delete(ctx context.Context, sid string) error {
	sid = strings.TrimSpace(sid)
	if sid == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.entries, sid)
	s.mu.Unlock()
	return nil
}
