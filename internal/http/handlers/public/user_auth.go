package public

import (
	"time"

	"github.com/hatstore-next/internal/http/response"
	"github.com/hatstore-next/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse 顾客信息响应
type UserResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func buildUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// Register 注册顾客账号
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "email and password are required", err)
		return
	}

	user, err := h.UserAuthService.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "register failed")
		return
	}

	token, expiresAt, err := h.UserAuthService.GenerateJWT(user)
	if err != nil {
		respondError(c, response.CodeInternal, "token generation failed", err)
		return
	}
	response.Created(c, gin.H{
		"user":       buildUserResponse(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// Login 顾客登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "email and password are required", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, userAuthErrorRules, response.CodeInternal, "login failed")
		return
	}
	response.Success(c, gin.H{
		"user":       buildUserResponse(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// Me 当前登录顾客信息
func (h *Handler) Me(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetByID(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "user fetch failed", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "user not found", nil)
		return
	}
	response.Success(c, buildUserResponse(user))
}
