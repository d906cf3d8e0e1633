package public

import (
	"github.com/hatstore-next/internal/constants"
	"github.com/hatstore-next/internal/http/handlers/shared"
	"github.com/hatstore-next/internal/http/response"
	"github.com/hatstore-next/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return shared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondError(c, code, msg, err)
}

// getSession 读取中间件加载的请求级会话
func getSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(constants.SessionContextKey)
	if !exists {
		respondError(c, response.CodeInternal, "session not loaded", nil)
		return nil, false
	}
	sess, ok := value.(*session.Session)
	if !ok || sess == nil {
		respondError(c, response.CodeInternal, "session invalid", nil)
		return nil, false
	}
	return sess, true
}

// getUserID 读取已登录顾客 ID，未登录时响应 401
func getUserID(c *gin.Context) (uint, bool) {
	return shared.GetContextUint(c, "user_id")
}

// optionalUserID 读取顾客 ID，未登录时返回 nil（匿名结算允许）
func optionalUserID(c *gin.Context) *uint {
	value, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	if id, ok := value.(uint); ok && id > 0 {
		return &id
	}
	return nil
}
