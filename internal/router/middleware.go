package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/hatstore-next/internal/config"
	"github.com/hatstore-next/internal/constants"
	"github.com/hatstore-next/internal/http/response"
	"github.com/hatstore-next/internal/logger"
	"github.com/hatstore-next/internal/service"
	"github.com/hatstore-next/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// SessionMiddleware 会话中间件。
// 请求前从存储加载会话（Cookie 缺失或未命中时新建），请求后把标脏的会话显式提交回存储。
// 新会话的 Cookie 必须在处理器写响应前下发，所以在 Next 之前设置
func SessionMiddleware(store session.Store, cfg config.SessionConfig) gin.HandlerFunc {
	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		cookieName = constants.SessionCookieName
	}
	ttlSeconds := cfg.TTLHours * 3600
	if ttlSeconds <= 0 {
		ttlSeconds = 72 * 3600
	}

	return func(c *gin.Context) {
		sid, _ := c.Cookie(cookieName)
		sess, err := store.Load(c.Request.Context(), sid)
		if err != nil {
			logger.Warnw("session_load_failed", "error", err)
			sess = session.New()
		}
		if sess.Fresh() {
			c.SetCookie(cookieName, sess.ID, ttlSeconds, "/", "", cfg.CookieSecure, cfg.CookieHTTPOnly)
		}
		c.Set(constants.SessionContextKey, sess)

		c.Next()

		if sess.Dirty() || sess.Fresh() {
			if err := store.Save(c.Request.Context(), sess); err != nil {
				logger.Errorw("session_commit_failed", "session_id", sess.ID, "error", err)
			}
		}
	}
}

// AdminJWTAuthMiddleware 管理端 JWT 鉴权中间件
func AdminJWTAuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearerToken(c, func(token string) (uint, interface{}, error) {
			parsed, err := authService.ParseJWT(token)
			if err != nil {
				return 0, nil, err
			}
			return parsed.AdminID, parsed, nil
		})
		if !ok {
			return
		}
		adminClaims := claims.(*service.JWTClaims)
		c.Set("admin_id", adminClaims.AdminID)
		c.Set("username", adminClaims.Username)
		c.Next()
	}
}

// UserJWTAuthMiddleware 顾客 JWT 鉴权中间件
func UserJWTAuthMiddleware(userAuthService *service.UserAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearerToken(c, func(token string) (uint, interface{}, error) {
			parsed, err := userAuthService.ParseJWT(token)
			if err != nil {
				return 0, nil, err
			}
			return parsed.UserID, parsed, nil
		})
		if !ok {
			return
		}
		userClaims := claims.(*service.UserJWTClaims)
		c.Set("user_id", userClaims.UserID)
		c.Set("user_email", userClaims.Email)
		c.Next()
	}
}

// OptionalUserJWTMiddleware 可选顾客鉴权：携带合法 Token 时附加用户身份，否则匿名放行
func OptionalUserJWTMiddleware(userAuthService *service.UserAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearerToken(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := userAuthService.ParseJWT(token)
		if err != nil || claims.UserID == 0 {
			c.Next()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

func parseBearerToken(c *gin.Context, parse func(string) (uint, interface{}, error)) (interface{}, bool) {
	token, ok := extractBearerToken(c)
	if !ok {
		response.Unauthorized(c, "authorization header missing")
		c.Abort()
		return nil, false
	}
	id, claims, err := parse(token)
	if err != nil || id == 0 {
		response.Unauthorized(c, "invalid token")
		c.Abort()
		return nil, false
	}
	return claims, true
}

func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
