package admin

import (
	"errors"

	"github.com/hatstore-next/internal/http/handlers/shared"
	"github.com/hatstore-next/internal/http/response"
	"github.com/hatstore-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return shared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondError(c, code, msg, err)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, msg: "category not found"},
	{target: service.ErrCategoryHasProducts, code: response.CodeBadRequest, msg: "category still has products"},
	{target: service.ErrSlugExists, code: response.CodeBadRequest, msg: "slug already exists"},
	{target: service.ErrProductNameRequired, code: response.CodeBadRequest, msg: "name is required"},
	{target: service.ErrCategoryNameRequired, code: response.CodeBadRequest, msg: "name is required"},
	{target: service.ErrInvalidPrice, code: response.CodeBadRequest, msg: "invalid price"},
}

var orderAdminErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrInvalidStatus, code: response.CodeBadRequest, msg: "invalid order status"},
}
