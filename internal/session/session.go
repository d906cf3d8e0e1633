package session

import (
	"github.com/google/uuid"
)

// Session 请求级会话上下文。由中间件加载、随请求显式传递，
// 修改后标脏，处理器在请求结束前显式提交回存储，不依赖任何进程级单例
type Session struct {
	ID   string `json:"id"`   // 会话标识（写入 Cookie）
	Cart Cart   `json:"cart"` // 会话购物车，首次访问时惰性创建

	dirty bool
	fresh bool
}

// New 创建全新会话
func New() *Session {
	return &Session{
		ID:    NewSessionID(),
		fresh: true,
	}
}

// NewSessionID 生成会话标识
func NewSessionID() string {
	return uuid.NewString()
}

// MarkDirty 标记会话已修改，等待提交
func (s *Session) MarkDirty() {
	s.dirty = true
}

// Dirty 判断会话是否有未提交的修改
func (s *Session) Dirty() bool {
	return s.dirty
}

// Fresh 判断会话是否本次请求新建（需要下发 Cookie）
func (s *Session) Fresh() bool {
	return s.fresh
}
